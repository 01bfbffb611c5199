package composer

import (
	"context"

	"github.com/dmitrijs2005/carnet/internal/server/models"
)

// Extractor derives card fields from a supporting document. It receives the
// current preview and returns the replacement preview.
type Extractor interface {
	Extract(ctx context.Context, current models.CardFields) (models.CardFields, error)
}

// CannedExtractor ignores the document and returns a fixed employee.
type CannedExtractor struct{}

func (CannedExtractor) Extract(ctx context.Context, current models.CardFields) (models.CardFields, error) {
	out := current
	out.FirstName = "Alberto"
	out.LastName = "Castillo"
	out.Role = "Gerente de Operaciones"
	out.NationalID = "V-8.999.111"
	out.PhotoURL = "https://picsum.photos/200/200?random=99"
	out.Department = "Operaciones"
	return out, nil
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(ctx context.Context, current models.CardFields) (models.CardFields, error)

func (f ExtractorFunc) Extract(ctx context.Context, current models.CardFields) (models.CardFields, error) {
	return f(ctx, current)
}
