// Package tasks runs delayed and periodic callbacks under string keys.
//
// Every simulated latency in carnet (auto-match, identity lookup, photo
// analysis ticks, smart extraction) is a task. Scheduling a task under a key
// that is already pending cancels the older one, and each callback receives
// a context that is cancelled as soon as its task is cancelled. Owners that
// mutate state from a callback re-check ctx.Err() under their own lock, so a
// cancellation issued under that lock always wins against a late callback.
package tasks

import (
	"context"
	"strings"
	"sync"
	"time"
)

type Runner struct {
	clock Clock

	mu     sync.Mutex
	tasks  map[string]*task
	closed bool
	wg     sync.WaitGroup
}

type task struct {
	key    string
	timer  Timer
	ctx    context.Context
	cancel context.CancelFunc
}

func NewRunner(clock Clock) *Runner {
	if clock == nil {
		clock = RealClock()
	}
	return &Runner{clock: clock, tasks: make(map[string]*task)}
}

// Clock returns the clock the runner schedules with.
func (r *Runner) Clock() Clock { return r.clock }

// After runs fn once, d from now, under key.
func (r *Runner) After(key string, d time.Duration, fn func(ctx context.Context)) {
	r.schedule(key, d, func(ctx context.Context) bool {
		fn(ctx)
		return false
	}, 0)
}

// Every runs fn each interval until fn returns false or the task is
// cancelled. The first run happens one interval from now.
func (r *Runner) Every(key string, interval time.Duration, fn func(ctx context.Context) bool) {
	r.schedule(key, interval, fn, interval)
}

func (r *Runner) schedule(key string, d time.Duration, fn func(ctx context.Context) bool, interval time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.cancelLocked(key)

	ctx, cancel := context.WithCancel(context.Background())
	t := &task{key: key, ctx: ctx, cancel: cancel}
	r.tasks[key] = t
	t.timer = r.clock.AfterFunc(d, func() { r.fire(t, fn, interval) })
}

func (r *Runner) fire(t *task, fn func(ctx context.Context) bool, interval time.Duration) {
	r.mu.Lock()
	if r.closed || r.tasks[t.key] != t || t.ctx.Err() != nil {
		r.mu.Unlock()
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()
	defer r.wg.Done()

	again := fn(t.ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tasks[t.key] != t || t.ctx.Err() != nil {
		return
	}
	if !again || interval <= 0 || r.closed {
		delete(r.tasks, t.key)
		t.cancel()
		return
	}
	t.timer = r.clock.AfterFunc(interval, func() { r.fire(t, fn, interval) })
}

// Cancel stops the task under key. A callback that is already running sees
// its context cancelled. It reports whether a task was pending.
func (r *Runner) Cancel(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelLocked(key)
}

// CancelPrefix cancels every task whose key starts with prefix.
func (r *Runner) CancelPrefix(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for key := range r.tasks {
		if strings.HasPrefix(key, prefix) && r.cancelLocked(key) {
			n++
		}
	}
	return n
}

func (r *Runner) cancelLocked(key string) bool {
	t, ok := r.tasks[key]
	if !ok {
		return false
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.cancel()
	delete(r.tasks, key)
	return true
}

// Pending reports whether a task is scheduled or running under key.
func (r *Runner) Pending(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tasks[key]
	return ok
}

// Len returns the number of scheduled or running tasks.
func (r *Runner) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// Close cancels all tasks, rejects new ones and waits for running
// callbacks to return.
func (r *Runner) Close() {
	r.mu.Lock()
	r.closed = true
	for key := range r.tasks {
		r.cancelLocked(key)
	}
	r.mu.Unlock()

	r.wg.Wait()
}
