package intake

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/carnet/internal/common"
	"github.com/dmitrijs2005/carnet/internal/server/models"
)

// IdentityResolver looks a national ID up in the payroll.
type IdentityResolver interface {
	Resolve(ctx context.Context, nationalID string) (*models.IdentityMatch, error)
}

// CannedResolver accepts every national ID and returns the same employee.
// It is the demo-mode stand-in for a payroll lookup.
type CannedResolver struct{}

func (CannedResolver) Resolve(ctx context.Context, nationalID string) (*models.IdentityMatch, error) {
	return &models.IdentityMatch{
		FirstName: "Pedro Alejandro",
		LastName:  "Castillo",
		Role:      "Analista de Sistemas",
		Active:    true,
	}, nil
}

// NationalIDLookup finds the record carrying a national ID.
type NationalIDLookup interface {
	GetByNationalID(ctx context.Context, nationalID string) (*models.Record, error)
}

// RosterResolver resolves national IDs against the record store. Unknown
// IDs fail with ErrorNotFound; rejected records resolve as inactive.
type RosterResolver struct {
	Records NationalIDLookup
}

func (r RosterResolver) Resolve(ctx context.Context, nationalID string) (*models.IdentityMatch, error) {
	id := strings.TrimSpace(nationalID)
	if id == "" {
		return nil, fmt.Errorf("national id: %w", common.ErrorInvalidInput)
	}
	rec, err := r.Records.GetByNationalID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.IdentityMatch{
		RecordID:   rec.ID,
		FirstName:  rec.FirstName,
		LastName:   rec.LastName,
		Role:       rec.Role,
		Department: rec.Department,
		Active:     rec.Status != models.StatusRejected,
	}, nil
}
