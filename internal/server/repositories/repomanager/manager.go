// Package repomanager owns the database handle behind the record store and
// hands out repositories bound either to it or to a running transaction.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/carnet/internal/server/fixtures"
	"github.com/dmitrijs2005/carnet/internal/server/repositories/records"
)

// Driver names accepted by New.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Records() records.Repository
	// WithinTx runs fn against a repository bound to one transaction.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo records.Repository) error) error
	Close() error
}

// New opens a manager for the named driver. dsn is the Postgres connection
// string or the SQLite file path; the memory driver ignores it.
func New(driver, dsn string) (RepositoryManager, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemoryRepositoryManager(), nil
	case DriverPostgres:
		return NewPostgresRepositoryManager(dsn)
	case DriverSQLite:
		return NewSQLiteRepositoryManager(dsn)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// Seed inserts the seeder's records when the repository holds none.
// It reports how many records were written.
func Seed(ctx context.Context, m RepositoryManager, seeder fixtures.Seeder) (int, error) {
	n, err := m.Records().Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	recs, err := seeder.Records(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}

	err = m.WithinTx(ctx, func(ctx context.Context, repo records.Repository) error {
		for _, r := range recs {
			if err := repo.Insert(ctx, r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	return len(recs), nil
}
