// Package fixtures supplies the initial personnel records the server starts
// with when its repository is empty.
package fixtures

import (
	"context"
	"time"

	"github.com/dmitrijs2005/carnet/internal/server/models"
)

// LogoURL is the emblem printed on every card template.
const LogoURL = "https://upload.wikimedia.org/wikipedia/commons/thumb/0/0a/Logotipo_del_Gobierno_de_la_Rep%C3%BAblica_Bolivariana_de_Venezuela.svg/2560px-Logotipo_del_Gobierno_de_la_Rep%C3%BAblica_Bolivariana_de_Venezuela.svg.png"

// Seeder produces the records a fresh repository is populated with.
type Seeder interface {
	Records(ctx context.Context) ([]*models.Record, error)
}

// SeederFunc adapts a function to Seeder.
type SeederFunc func(ctx context.Context) ([]*models.Record, error)

func (f SeederFunc) Records(ctx context.Context) ([]*models.Record, error) { return f(ctx) }

// Default seeds the three demo records.
var Default Seeder = SeederFunc(func(ctx context.Context) ([]*models.Record, error) {
	return DefaultRecords(), nil
})

// Empty seeds nothing.
var Empty Seeder = SeederFunc(func(ctx context.Context) ([]*models.Record, error) {
	return nil, nil
})

// DefaultRecords returns fresh copies of the demo records.
func DefaultRecords() []*models.Record {
	return []*models.Record{
		{
			ID:         "1",
			NationalID: "V-12.345.678",
			FirstName:  "María",
			LastName:   "Rodríguez",
			Role:       "Analista de Tesorería",
			Department: "Finanzas",
			Status:     models.StatusPending,
			PhotoURL:   "https://picsum.photos/200/200?random=1",
			CreatedAt:  day(2023, 10, 24),
		},
		{
			ID:         "2",
			NationalID: "V-23.456.789",
			FirstName:  "Carlos",
			LastName:   "Pérez",
			Role:       "Director General",
			Department: "Dirección",
			Status:     models.StatusVerified,
			PhotoURL:   "https://picsum.photos/200/200?random=2",
			CreatedAt:  day(2023, 10, 23),
		},
		{
			ID:         "3",
			NationalID: "V-15.888.999",
			FirstName:  "Ana",
			LastName:   "García",
			Role:       "Coordinadora de RRHH",
			Department: "Recursos Humanos",
			Status:     models.StatusPrinted,
			PhotoURL:   "https://picsum.photos/200/200?random=3",
			CreatedAt:  day(2023, 10, 20),
		},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
