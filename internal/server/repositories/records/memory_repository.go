package records

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/carnet/internal/common"
	"github.com/dmitrijs2005/carnet/internal/server/models"
)

// memState is the unsynchronized record list behind MemoryRepository.
type memState struct {
	items   []*models.Record
	lastPos int64
}

func (s *memState) clone() *memState {
	c := &memState{items: make([]*models.Record, len(s.items)), lastPos: s.lastPos}
	for i, r := range s.items {
		c.items[i] = r.Clone()
	}
	return c
}

func (s *memState) find(id string) int {
	for i, r := range s.items {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *memState) list() []*models.Record {
	out := make([]*models.Record, len(s.items))
	for i, r := range s.items {
		out[i] = r.Clone()
	}
	return out
}

func (s *memState) getByID(id string) (*models.Record, error) {
	if i := s.find(id); i >= 0 {
		return s.items[i].Clone(), nil
	}
	return nil, fmt.Errorf("record %s: %w", id, common.ErrorNotFound)
}

func (s *memState) getByNationalID(nationalID string) (*models.Record, error) {
	for _, r := range s.items {
		if r.NationalID == nationalID {
			return r.Clone(), nil
		}
	}
	return nil, fmt.Errorf("national id %s: %w", nationalID, common.ErrorNotFound)
}

func (s *memState) insert(r *models.Record) error {
	if s.find(r.ID) >= 0 {
		return fmt.Errorf("record %s: %w", r.ID, common.ErrorConflict)
	}
	s.lastPos++
	r.Position = s.lastPos
	s.items = append(s.items, r.Clone())
	return nil
}

func (s *memState) updateStatus(id string, status models.Status) error {
	i := s.find(id)
	if i < 0 {
		return fmt.Errorf("record %s: %w", id, common.ErrorNotFound)
	}
	// copy-on-write: records handed out earlier stay untouched
	updated := s.items[i].Clone()
	updated.Status = status
	s.items[i] = updated
	return nil
}

func (s *memState) updateDetails(r *models.Record) error {
	i := s.find(r.ID)
	if i < 0 {
		return fmt.Errorf("record %s: %w", r.ID, common.ErrorNotFound)
	}
	updated := s.items[i].Clone()
	updated.FirstName = r.FirstName
	updated.LastName = r.LastName
	updated.Role = r.Role
	updated.Department = r.Department
	updated.PhotoURL = r.PhotoURL
	updated.Status = r.Status
	s.items[i] = updated
	return nil
}

func (s *memState) markPendingVerified() []string {
	var ids []string
	for i, r := range s.items {
		if r.Status != models.StatusPending {
			continue
		}
		updated := r.Clone()
		updated.Status = models.StatusVerified
		s.items[i] = updated
		ids = append(ids, r.ID)
	}
	return ids
}

// MemoryRepository keeps records in process memory.
type MemoryRepository struct {
	mu    sync.RWMutex
	state *memState
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{state: &memState{}}
}

func (m *MemoryRepository) List(ctx context.Context) ([]*models.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.list(), nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.getByID(id)
}

func (m *MemoryRepository) GetByNationalID(ctx context.Context, nationalID string) (*models.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.getByNationalID(nationalID)
}

func (m *MemoryRepository) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.state.items), nil
}

func (m *MemoryRepository) Insert(ctx context.Context, r *models.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.insert(r)
}

func (m *MemoryRepository) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.updateStatus(id, status)
}

func (m *MemoryRepository) UpdateDetails(ctx context.Context, r *models.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.updateDetails(r)
}

func (m *MemoryRepository) MarkPendingVerified(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.markPendingVerified(), nil
}

// WithinTx runs fn against a scratch copy of the records and publishes the
// copy only if fn succeeds and ctx is still live, like a commit would. Other
// writers wait until fn returns; fn must use the repository it is given,
// not m.
func (m *MemoryRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	scratch := m.state.clone()
	if err := fn(ctx, &txRepository{state: scratch}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.state = scratch
	return nil
}

// txRepository is the lock-free view handed to WithinTx callbacks.
type txRepository struct {
	state *memState
}

func (t *txRepository) List(ctx context.Context) ([]*models.Record, error) {
	return t.state.list(), nil
}

func (t *txRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	return t.state.getByID(id)
}

func (t *txRepository) GetByNationalID(ctx context.Context, nationalID string) (*models.Record, error) {
	return t.state.getByNationalID(nationalID)
}

func (t *txRepository) Count(ctx context.Context) (int, error) {
	return len(t.state.items), nil
}

func (t *txRepository) Insert(ctx context.Context, r *models.Record) error {
	return t.state.insert(r)
}

func (t *txRepository) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	return t.state.updateStatus(id, status)
}

func (t *txRepository) UpdateDetails(ctx context.Context, r *models.Record) error {
	return t.state.updateDetails(r)
}

func (t *txRepository) MarkPendingVerified(ctx context.Context) ([]string, error) {
	return t.state.markPendingVerified(), nil
}
