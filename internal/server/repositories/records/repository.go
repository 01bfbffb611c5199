// Package records provides storage for personnel records: an in-memory
// implementation used in demo mode and SQL implementations for PostgreSQL
// and SQLite.
package records

import (
	"context"

	"github.com/dmitrijs2005/carnet/internal/server/models"
)

// Repository stores personnel records in insertion order.
//
// Lookups of unknown records and updates that match no row return
// common.ErrorNotFound. Insert of a duplicate id returns common.ErrorConflict.
type Repository interface {
	List(ctx context.Context) ([]*models.Record, error)
	GetByID(ctx context.Context, id string) (*models.Record, error)
	GetByNationalID(ctx context.Context, nationalID string) (*models.Record, error)
	Count(ctx context.Context) (int, error)

	// Insert stores a new record and sets its Position.
	Insert(ctx context.Context, r *models.Record) error
	UpdateStatus(ctx context.Context, id string, status models.Status) error
	// UpdateDetails rewrites the mutable fields of an existing record:
	// names, role, department, photo and status.
	UpdateDetails(ctx context.Context, r *models.Record) error
	// MarkPendingVerified moves every pending record to verified and
	// returns the ids it changed.
	MarkPendingVerified(ctx context.Context) ([]string, error)
}
