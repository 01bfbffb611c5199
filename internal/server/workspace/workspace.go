// Package workspace keeps the per-client sessions: which record is selected,
// which view is open, and the session's card composer and intake draft.
package workspace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/carnet/internal/common"
	"github.com/dmitrijs2005/carnet/internal/logging"
	"github.com/dmitrijs2005/carnet/internal/server/composer"
	"github.com/dmitrijs2005/carnet/internal/server/intake"
	"github.com/dmitrijs2005/carnet/internal/server/metrics"
	"github.com/dmitrijs2005/carnet/internal/server/models"
	"github.com/dmitrijs2005/carnet/internal/server/roster"
	"github.com/dmitrijs2005/carnet/internal/tasks"
	"github.com/google/uuid"
)

const janitorKey = "workspace/janitor"

type Config struct {
	// SessionTTL closes sessions idle for longer; zero keeps them forever.
	SessionTTL      time.Duration
	SweepInterval   time.Duration
	ExtractionDelay time.Duration
	Intake          intake.Config
}

type Manager struct {
	store      *roster.Store
	runner     *tasks.Runner
	extractor  composer.Extractor
	intakeDeps intake.Deps
	cfg        Config
	log        logging.Logger
	metrics    *metrics.Metrics
	newID      func() string

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager builds a manager. intakeDeps.Runner, Logger and Metrics are
// filled from the manager's own when unset.
func NewManager(store *roster.Store, runner *tasks.Runner, extractor composer.Extractor, intakeDeps intake.Deps, cfg Config, log logging.Logger, m *metrics.Metrics) *Manager {
	if log == nil {
		log = logging.Nop()
	}
	if intakeDeps.Runner == nil {
		intakeDeps.Runner = runner
	}
	if intakeDeps.Logger == nil {
		intakeDeps.Logger = log
	}
	if intakeDeps.Metrics == nil {
		intakeDeps.Metrics = m
	}
	if intakeDeps.Records == nil {
		intakeDeps.Records = store
	}

	mgr := &Manager{
		store:      store,
		runner:     runner,
		extractor:  extractor,
		intakeDeps: intakeDeps,
		cfg:        cfg,
		log:        log.With("module", "workspace"),
		metrics:    m,
		newID:      uuid.NewString,
		sessions:   make(map[string]*Session),
	}
	if cfg.SessionTTL > 0 {
		interval := cfg.SweepInterval
		if interval <= 0 {
			interval = cfg.SessionTTL / 2
		}
		runner.Every(janitorKey, interval, mgr.sweep)
	}
	return mgr
}

// Open starts a session on the dashboard with the first record selected.
func (m *Manager) Open(ctx context.Context) (*Session, error) {
	id := m.newID()
	s := &Session{
		ID:       id,
		Composer: composer.New("composer/"+id, m.runner, m.extractor, m.cfg.ExtractionDelay, m.log, m.metrics),
		Intake:   intake.New("intake/"+id, m.intakeDeps, m.cfg.Intake),
		view:     models.ViewDashboard,
		lastSeen: m.runner.Clock().Now(),
	}

	list, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) > 0 {
		s.selected = list[0].ID
		s.Composer.SetActive(list[0])
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.metrics.SessionOpened()
	m.log.Info(ctx, "session opened", "session", id)
	return s, nil
}

// Get returns the session and marks it as used.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, common.ErrorNotFound)
	}
	s.touch(m.runner.Clock().Now())
	return s, nil
}

// Select makes recordID the active record and opens the editor.
func (m *Manager) Select(ctx context.Context, sessionID, recordID string) (*models.Record, error) {
	s, err := m.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	rec, err := m.store.Get(ctx, recordID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.selected = rec.ID
	s.mu.Unlock()

	s.Composer.SetActive(rec)
	s.switchView(models.ViewEditor)
	return rec, nil
}

// SetView switches the session's view. Leaving the upload view discards
// the intake draft.
func (m *Manager) SetView(ctx context.Context, sessionID string, view models.View) error {
	if !view.Valid() {
		return fmt.Errorf("view %q: %w", view, common.ErrorInvalidInput)
	}
	s, err := m.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	s.switchView(view)
	return nil
}

// ActiveRecord reloads the selected record from the store into the
// composer and returns it. A session opened on an empty roster picks up the
// first record once one exists.
func (m *Manager) ActiveRecord(ctx context.Context, sessionID string) (*models.Record, error) {
	s, err := m.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	id := s.Selected()
	var rec *models.Record
	if id == "" {
		list, err := m.store.List(ctx)
		if err != nil {
			return nil, err
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("no records: %w", common.ErrorNotFound)
		}
		rec = list[0]
		s.mu.Lock()
		s.selected = rec.ID
		s.mu.Unlock()
	} else if rec, err = m.store.Get(ctx, id); err != nil {
		return nil, err
	}

	s.Composer.SetActive(rec)
	return rec, nil
}

// Close ends a session and cancels everything it has pending.
func (m *Manager) Close(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("session %s: %w", id, common.ErrorNotFound)
	}
	m.closeSession(s)
	m.log.Info(ctx, "session closed", "session", id)
	return nil
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Shutdown closes every session and stops the janitor.
func (m *Manager) Shutdown() {
	m.runner.Cancel(janitorKey)

	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range all {
		m.closeSession(s)
	}
}

func (m *Manager) sweep(ctx context.Context) bool {
	now := m.runner.Clock().Now()

	var expired []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if now.Sub(s.LastSeen()) >= m.cfg.SessionTTL {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		m.closeSession(s)
		m.log.Info(ctx, "session expired", "session", s.ID)
	}
	return ctx.Err() == nil
}

func (m *Manager) closeSession(s *Session) {
	s.Composer.Close()
	s.Intake.Close()
	m.metrics.SessionClosed()
}

// Session is one client's workspace.
type Session struct {
	ID       string
	Composer *composer.Composer
	Intake   *intake.Flow

	mu       sync.Mutex
	selected string
	view     models.View
	lastSeen time.Time
}

// Selected is the id of the active record, "" when the roster was empty.
func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

func (s *Session) View() models.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) switchView(v models.View) {
	s.mu.Lock()
	prev := s.view
	s.view = v
	s.mu.Unlock()

	if prev == models.ViewUpload && v != models.ViewUpload {
		s.Intake.Reset()
	}
}
