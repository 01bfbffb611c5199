package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/carnet/internal/common"
	"github.com/dmitrijs2005/carnet/internal/dbx"
	"github.com/dmitrijs2005/carnet/internal/server/models"
)

// SQLiteRepository stores records in SQLite. Timestamps are kept as
// RFC 3339 text.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const sqliteSelectColumns = pgSelectColumns

func scanSQLiteRecord(row interface{ Scan(dest ...any) error }) (*models.Record, error) {
	var r models.Record
	var status, createdAt string
	if err := row.Scan(&r.Position, &r.ID, &r.NationalID, &r.FirstName, &r.LastName,
		&r.Role, &r.Department, &status, &r.PhotoURL, &createdAt); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("record %s: bad created_at %q: %w", r.ID, createdAt, err)
	}
	r.Status = models.Status(status)
	r.CreatedAt = t
	return &r, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.Record, error) {
	query := `SELECT ` + sqliteSelectColumns + ` FROM records ORDER BY position`
	result, err := dbx.QueryAll(ctx, r.db, func(rows *sql.Rows) (*models.Record, error) {
		return scanSQLiteRecord(rows)
	}, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	query := `SELECT ` + sqliteSelectColumns + ` FROM records WHERE id=?`
	rec, err := scanSQLiteRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %s: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select record: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) GetByNationalID(ctx context.Context, nationalID string) (*models.Record, error) {
	query := `SELECT ` + sqliteSelectColumns + ` FROM records WHERE national_id=? ORDER BY position LIMIT 1`
	rec, err := scanSQLiteRecord(r.db.QueryRowContext(ctx, query, nationalID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("national id %s: %w", nationalID, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select record: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, rec *models.Record) error {
	query := `
		INSERT INTO records (id, national_id, first_name, last_name, role, department, status, photo_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING position
	`
	err := r.db.QueryRowContext(ctx, query,
		rec.ID, rec.NationalID, rec.FirstName, rec.LastName, rec.Role, rec.Department,
		string(rec.Status), rec.PhotoURL, rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	).Scan(&rec.Position)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("record %s: %w", rec.ID, common.ErrorConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE records SET status=? WHERE id=?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return expectOneRow(res, id)
}

func (r *SQLiteRepository) UpdateDetails(ctx context.Context, rec *models.Record) error {
	query := `
		UPDATE records SET first_name=?, last_name=?, role=?, department=?, photo_url=?, status=?
		WHERE id=?
	`
	res, err := r.db.ExecContext(ctx, query,
		rec.FirstName, rec.LastName, rec.Role, rec.Department, rec.PhotoURL, string(rec.Status), rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	return expectOneRow(res, rec.ID)
}

func (r *SQLiteRepository) MarkPendingVerified(ctx context.Context) ([]string, error) {
	ids, err := dbx.QueryAll(ctx, r.db, func(rows *sql.Rows) (string, error) {
		var id string
		err := rows.Scan(&id)
		return id, err
	}, `UPDATE records SET status='verified' WHERE status='pending' RETURNING id`)
	if err != nil {
		return nil, fmt.Errorf("failed to verify pending records: %w", err)
	}
	return ids, nil
}
