package roster

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/carnet/internal/logging"
	"github.com/dmitrijs2005/carnet/internal/server/metrics"
	"github.com/dmitrijs2005/carnet/internal/server/models"
	"github.com/dmitrijs2005/carnet/internal/tasks"
)

const autoMatchTaskKey = "roster/automatch"

// AutoMatcher runs the delayed bulk verification of pending records. At most
// one run is in flight at a time.
type AutoMatcher struct {
	store   *Store
	runner  *tasks.Runner
	delay   time.Duration
	log     logging.Logger
	metrics *metrics.Metrics

	mu        sync.Mutex
	running   bool
	startedAt time.Time
	last      models.AutoMatchResult
	done      []chan struct{}
}

func NewAutoMatcher(store *Store, runner *tasks.Runner, delay time.Duration, log logging.Logger, m *metrics.Metrics) *AutoMatcher {
	if log == nil {
		log = logging.Nop()
	}
	return &AutoMatcher{
		store:   store,
		runner:  runner,
		delay:   delay,
		log:     log.With("module", "automatch"),
		metrics: m,
	}
}

// Run schedules a run. It returns false, scheduling nothing, while another
// run is in progress.
func (a *AutoMatcher) Run(ctx context.Context) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return false
	}
	a.running = true
	a.startedAt = a.runner.Clock().Now()
	a.runner.After(autoMatchTaskKey, a.delay, a.complete)

	a.log.Info(ctx, "auto-match scheduled", "delay", a.delay)
	return true
}

func (a *AutoMatcher) complete(ctx context.Context) {
	ids, err := a.store.MarkPendingVerified(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	// Close already cleared the run
	if ctx.Err() != nil {
		return
	}

	res := models.AutoMatchResult{
		Verified:   len(ids),
		StartedAt:  a.startedAt,
		FinishedAt: a.runner.Clock().Now(),
	}
	if err != nil {
		res.Verified = 0
		res.Err = err.Error()
		a.log.Error(ctx, "auto-match failed", "error", err)
	} else {
		a.log.Info(ctx, "auto-match finished", "verified", len(ids))
	}
	a.metrics.AutoMatchFinished(res.Verified, err)

	a.last = res
	a.finishLocked()
}

// Running reports whether a run is scheduled or executing.
func (a *AutoMatcher) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// LastResult returns the outcome of the most recent completed run; the zero
// value means no run has completed yet.
func (a *AutoMatcher) LastResult() models.AutoMatchResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

// Done returns a channel closed when the current run ends, or an already
// closed channel when nothing is running.
func (a *AutoMatcher) Done() <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()

	ch := make(chan struct{})
	if !a.running {
		close(ch)
		return ch
	}
	a.done = append(a.done, ch)
	return ch
}

// Close cancels a pending run. Its effect is discarded.
func (a *AutoMatcher) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.runner.Cancel(autoMatchTaskKey)
	if a.running {
		a.finishLocked()
	}
}

func (a *AutoMatcher) finishLocked() {
	a.running = false
	for _, ch := range a.done {
		close(ch)
	}
	a.done = nil
}
