package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/carnet/internal/dbx"
	"github.com/dmitrijs2005/carnet/internal/filex"
	"github.com/dmitrijs2005/carnet/internal/server/migrations"
	"github.com/dmitrijs2005/carnet/internal/server/repositories/records"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager keeps records in a single SQLite file.
type SQLiteRepositoryManager struct {
	db *sql.DB
}

// NewSQLiteRepositoryManager opens (or creates) the database at path.
// ":memory:" gives a throwaway database.
func NewSQLiteRepositoryManager(path string) (*SQLiteRepositoryManager, error) {
	if path == "" {
		path = ":memory:"
	}
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db, err := sqlOpen("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite serialises writers anyway; one connection keeps :memory: coherent
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}
	return &SQLiteRepositoryManager{db: db}, nil
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, migrations.SQLiteDir)
}

func (m *SQLiteRepositoryManager) Records() records.Repository {
	return records.NewSQLiteRepository(m.db)
}

func (m *SQLiteRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repo records.Repository) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, records.NewSQLiteRepository(tx))
	})
}

func (m *SQLiteRepositoryManager) Close() error {
	return m.db.Close()
}
