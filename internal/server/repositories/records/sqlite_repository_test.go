package records

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/carnet/internal/common"
	"github.com/dmitrijs2005/carnet/internal/server/fixtures"
	"github.com/dmitrijs2005/carnet/internal/server/migrations"
	"github.com/dmitrijs2005/carnet/internal/server/models"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newSQLiteRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, migrations.SQLiteDir))

	return NewSQLiteRepository(db)
}

func TestSQLite_RoundTrip(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	for _, r := range fixtures.DefaultRecords() {
		require.NoError(t, repo.Insert(ctx, r))
		assert.NotZero(t, r.Position)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids(list))
	assert.Equal(t, "María", list[0].FirstName)
	assert.True(t, list[0].CreatedAt.Equal(time.Date(2023, 10, 24, 0, 0, 0, 0, time.UTC)))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSQLite_DuplicateInsertIsConflict(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	rec := &models.Record{ID: "1", Status: models.StatusPending, CreatedAt: time.Now()}
	require.NoError(t, repo.Insert(ctx, rec))

	dup := &models.Record{ID: "1", Status: models.StatusPending, CreatedAt: time.Now()}
	assert.ErrorIs(t, repo.Insert(ctx, dup), common.ErrorConflict)
}

func TestSQLite_StatusUpdatesAndAutoMatch(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	for _, r := range fixtures.DefaultRecords() {
		require.NoError(t, repo.Insert(ctx, r))
	}

	require.NoError(t, repo.UpdateStatus(ctx, "3", models.StatusRejected))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "404", models.StatusRejected), common.ErrorNotFound)

	changed, err := repo.MarkPendingVerified(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, changed)

	got, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusVerified, got.Status)

	got, err = repo.GetByNationalID(ctx, "V-15.888.999")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, got.Status)

	_, err = repo.GetByID(ctx, "404")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLite_UpdateDetails(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	for _, r := range fixtures.DefaultRecords() {
		require.NoError(t, repo.Insert(ctx, r))
	}

	err := repo.UpdateDetails(ctx, &models.Record{
		ID: "2", FirstName: "Carlos", LastName: "Pérez", Role: "Director", Department: "Dirección",
		PhotoURL: "mem://new", Status: models.StatusPending,
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "mem://new", got.PhotoURL)
	assert.Equal(t, models.StatusPending, got.Status)
}
