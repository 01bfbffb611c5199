// Package roster owns the personnel record collection: ordered listing,
// status writes (permissive and strict), dashboard counters and the bulk
// auto-match run.
package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/dmitrijs2005/carnet/internal/common"
	"github.com/dmitrijs2005/carnet/internal/logging"
	"github.com/dmitrijs2005/carnet/internal/server/metrics"
	"github.com/dmitrijs2005/carnet/internal/server/models"
	"github.com/dmitrijs2005/carnet/internal/server/repositories/records"
	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Repositories is the slice of repomanager.RepositoryManager the store needs.
type Repositories interface {
	Records() records.Repository
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo records.Repository) error) error
}

type Store struct {
	repos   Repositories
	log     logging.Logger
	metrics *metrics.Metrics

	now   func() time.Time
	newID func() string
}

func NewStore(repos Repositories, log logging.Logger, m *metrics.Metrics) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{
		repos:   repos,
		log:     log.With("module", "roster"),
		metrics: m,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// List returns all records in display order.
func (s *Store) List(ctx context.Context) ([]*models.Record, error) {
	return s.repos.Records().List(ctx)
}

func (s *Store) Get(ctx context.Context, id string) (*models.Record, error) {
	return s.repos.Records().GetByID(ctx, id)
}

func (s *Store) GetByNationalID(ctx context.Context, nationalID string) (*models.Record, error) {
	return s.repos.Records().GetByNationalID(ctx, nationalID)
}

// SetStatus writes status to the record unconditionally, whatever its
// current status is.
func (s *Store) SetStatus(ctx context.Context, id string, status models.Status) error {
	if !status.Valid() {
		return fmt.Errorf("status %q: %w", status, common.ErrorInvalidInput)
	}
	if err := s.repos.Records().UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.metrics.StatusChanged(string(status))
	s.log.Info(ctx, "status set", "id", id, "status", status)
	return nil
}

// Transition moves the record along the lifecycle, refusing moves the
// lifecycle does not allow with ErrorConflict. Re-applying the current
// status writes nothing.
func (s *Store) Transition(ctx context.Context, id string, status models.Status) error {
	if !status.Valid() {
		return fmt.Errorf("status %q: %w", status, common.ErrorInvalidInput)
	}

	changed := false
	err := s.repos.WithinTx(ctx, func(ctx context.Context, repo records.Repository) error {
		cur, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if cur.Status == status {
			return nil
		}
		if !models.CanTransition(cur.Status, status) {
			return fmt.Errorf("%s -> %s: %w", cur.Status, status, common.ErrorConflict)
		}
		changed = true
		return repo.UpdateStatus(ctx, id, status)
	})
	if err != nil {
		return err
	}
	if changed {
		s.metrics.StatusChanged(string(status))
		s.log.Info(ctx, "status transitioned", "id", id, "status", status)
	}
	return nil
}

// Stats counts records per status.
func (s *Store) Stats(ctx context.Context) (models.RosterStats, error) {
	var st models.RosterStats
	list, err := s.List(ctx)
	if err != nil {
		return st, err
	}
	for _, r := range list {
		st.Add(r.Status)
	}
	return st, nil
}

// Search matches query against the national ID and the full name, ignoring
// case and accents. An empty query matches everything.
func (s *Store) Search(ctx context.Context, query string) ([]*models.Record, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	q := fold(strings.TrimSpace(query))
	if q == "" {
		return list, nil
	}

	var out []*models.Record
	for _, r := range list {
		if strings.Contains(fold(r.NationalID), q) || strings.Contains(fold(r.FullName()), q) {
			out = append(out, r)
		}
	}
	return out, nil
}

// fold lowercases s and strips combining marks, so "Pérez" matches "perez".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Create appends rec. Missing ID, status and creation time are filled in.
func (s *Store) Create(ctx context.Context, rec *models.Record) (*models.Record, error) {
	rec = s.prepare(rec)
	if !rec.Status.Valid() {
		return nil, fmt.Errorf("status %q: %w", rec.Status, common.ErrorInvalidInput)
	}
	if err := s.repos.Records().Insert(ctx, rec); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "record created", "id", rec.ID)
	return rec, nil
}

// UpsertByNationalID creates a pending record for rec.NationalID, or, when
// one exists, replaces its descriptive fields and photo and puts it back to
// pending. It reports whether a record was created.
func (s *Store) UpsertByNationalID(ctx context.Context, rec *models.Record) (*models.Record, bool, error) {
	if strings.TrimSpace(rec.NationalID) == "" {
		return nil, false, fmt.Errorf("national id: %w", common.ErrorInvalidInput)
	}

	var (
		out     *models.Record
		created bool
	)
	err := s.repos.WithinTx(ctx, func(ctx context.Context, repo records.Repository) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		cur, err := repo.GetByNationalID(ctx, rec.NationalID)
		switch {
		case errors.Is(err, common.ErrorNotFound):
			fresh := s.prepare(rec)
			fresh.Status = models.StatusPending
			if err := repo.Insert(ctx, fresh); err != nil {
				return err
			}
			out, created = fresh, true
			return nil
		case err != nil:
			return err
		}

		upd := cur.Clone()
		upd.FirstName = rec.FirstName
		upd.LastName = rec.LastName
		upd.Role = rec.Role
		upd.Department = rec.Department
		upd.PhotoURL = rec.PhotoURL
		upd.Status = models.StatusPending
		if err := repo.UpdateDetails(ctx, upd); err != nil {
			return err
		}
		out = upd
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	s.metrics.StatusChanged(string(models.StatusPending))
	s.log.Info(ctx, "record upserted", "id", out.ID, "created", created)
	return out, created, nil
}

// MarkPendingVerified flips every pending record to verified in one
// transaction and returns the affected ids.
func (s *Store) MarkPendingVerified(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.repos.WithinTx(ctx, func(ctx context.Context, repo records.Repository) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		ids, err = repo.MarkPendingVerified(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) prepare(rec *models.Record) *models.Record {
	r := rec.Clone()
	if r.ID == "" {
		r.ID = s.newID()
	}
	if r.Status == "" {
		r.Status = models.StatusPending
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now().UTC()
	}
	return r
}
