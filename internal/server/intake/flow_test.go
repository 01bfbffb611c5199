package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/carnet/internal/common"
	"github.com/dmitrijs2005/carnet/internal/server/fixtures"
	"github.com/dmitrijs2005/carnet/internal/server/models"
	"github.com/dmitrijs2005/carnet/internal/server/photos"
	"github.com/dmitrijs2005/carnet/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/carnet/internal/server/roster"
	"github.com/dmitrijs2005/carnet/internal/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	identityDelay = 1500 * time.Millisecond
	tick          = 400 * time.Millisecond
)

type harness struct {
	flow   *Flow
	clock  *tasks.ManualClock
	runner *tasks.Runner
	store  *roster.Store
	photos *photos.MemoryStorage
}

func newHarness(t *testing.T, mutate func(*Deps)) *harness {
	t.Helper()
	clock := tasks.NewManualClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	runner := tasks.NewRunner(clock)
	t.Cleanup(runner.Close)

	mgr := repomanager.NewMemoryRepositoryManager()
	_, err := repomanager.Seed(context.Background(), mgr, fixtures.Default)
	require.NoError(t, err)
	store := roster.NewStore(mgr, nil, nil)
	ph := photos.NewMemoryStorage()

	deps := Deps{
		Runner:  runner,
		Stepper: StepperFunc(func() int { return 10 }),
		Photos:  ph,
		Records: store,
	}
	if mutate != nil {
		mutate(&deps)
	}
	flow := New("intake/s1", deps, Config{IdentityDelay: identityDelay, QualityTick: tick})
	return &harness{flow: flow, clock: clock, runner: runner, store: store, photos: ph}
}

func (h *harness) validate(t *testing.T, nationalID string) {
	t.Helper()
	h.flow.SetNationalID(nationalID)
	require.True(t, h.flow.ValidateIdentity(context.Background()))
	h.clock.Advance(identityDelay)
	require.Equal(t, models.ValidationValid, h.flow.Draft().Validation)
}

var jpegPhoto = models.Photo{Filename: "me.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}}

func TestValidateIdentity_EmptyIsNoop(t *testing.T) {
	h := newHarness(t, nil)

	h.flow.SetNationalID("   ")
	assert.False(t, h.flow.ValidateIdentity(context.Background()))
	assert.Equal(t, models.ValidationIdle, h.flow.Draft().Validation)
	assert.Zero(t, h.runner.Len())
}

func TestValidateIdentity_GoesThroughSearching(t *testing.T) {
	h := newHarness(t, nil)

	h.flow.SetNationalID("V-12.345.678")
	require.True(t, h.flow.ValidateIdentity(context.Background()))
	assert.Equal(t, models.ValidationSearching, h.flow.Draft().Validation)
	assert.False(t, h.flow.Draft().CanUpload)

	h.clock.Advance(identityDelay - time.Millisecond)
	assert.Equal(t, models.ValidationSearching, h.flow.Draft().Validation)

	h.clock.Advance(time.Millisecond)
	d := h.flow.Draft()
	assert.Equal(t, models.ValidationValid, d.Validation)
	require.NotNil(t, d.Match)
	assert.Equal(t, "Pedro Alejandro Castillo", d.Match.FullName())
	assert.Equal(t, "Analista de Sistemas", d.Match.Role)
	assert.True(t, d.Match.Active)
	assert.True(t, d.CanUpload)
}

func TestValidateIdentity_IgnoredWhileSearchingOrValid(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.flow.SetNationalID("V-1")
	require.True(t, h.flow.ValidateIdentity(ctx))
	assert.False(t, h.flow.ValidateIdentity(ctx))
	assert.Equal(t, 1, h.clock.Pending())

	h.clock.Advance(identityDelay)
	assert.False(t, h.flow.ValidateIdentity(ctx))
	assert.Zero(t, h.runner.Len())
}

func TestSetNationalID_CancelsLookup(t *testing.T) {
	h := newHarness(t, nil)

	h.flow.SetNationalID("V-1")
	require.True(t, h.flow.ValidateIdentity(context.Background()))
	h.clock.Advance(identityDelay / 2)

	h.flow.SetNationalID("V-2")
	assert.Equal(t, models.ValidationIdle, h.flow.Draft().Validation)

	h.clock.Advance(identityDelay)
	d := h.flow.Draft()
	assert.Equal(t, models.ValidationIdle, d.Validation, "stale lookup must not apply")
	assert.Nil(t, d.Match)
	assert.Equal(t, "V-2", d.NationalID)
}

func TestSetNationalID_AfterValidResetsPhotoStep(t *testing.T) {
	h := newHarness(t, nil)
	h.validate(t, "V-1")
	require.NoError(t, h.flow.SubmitPhoto(context.Background(), jpegPhoto))
	h.clock.Advance(3 * tick)

	h.flow.SetNationalID("V-12")
	d := h.flow.Draft()
	assert.Equal(t, models.ValidationIdle, d.Validation)
	assert.Equal(t, models.QualityNoFile, d.Quality)
	assert.Zero(t, d.Progress)

	h.clock.Advance(time.Minute)
	assert.Zero(t, h.flow.Draft().Progress)
}

func TestRosterResolver(t *testing.T) {
	h := newHarness(t, func(d *Deps) {
		d.Resolver = RosterResolver{Records: d.Records.(*roster.Store)}
	})
	ctx := context.Background()

	h.flow.SetNationalID("V-0.000.000")
	require.True(t, h.flow.ValidateIdentity(ctx))
	h.clock.Advance(identityDelay)
	d := h.flow.Draft()
	assert.Equal(t, models.ValidationInvalid, d.Validation)
	assert.Equal(t, "NotFound", d.InvalidReason)

	// invalid can be retried after editing
	h.flow.SetNationalID("V-23.456.789")
	require.True(t, h.flow.ValidateIdentity(ctx))
	h.clock.Advance(identityDelay)
	d = h.flow.Draft()
	require.Equal(t, models.ValidationValid, d.Validation)
	assert.Equal(t, "2", d.Match.RecordID)
	assert.Equal(t, "Carlos Pérez", d.Match.FullName())
	assert.True(t, d.Match.Active)

	require.NoError(t, h.store.SetStatus(ctx, "1", models.StatusRejected))
	h.flow.SetNationalID("V-12.345.678")
	require.True(t, h.flow.ValidateIdentity(ctx))
	h.clock.Advance(identityDelay)
	assert.False(t, h.flow.Draft().Match.Active)
}

type resolverFunc func(ctx context.Context, id string) (*models.IdentityMatch, error)

func (f resolverFunc) Resolve(ctx context.Context, id string) (*models.IdentityMatch, error) {
	return f(ctx, id)
}

func TestValidateIdentity_ErrorsStayInFlow(t *testing.T) {
	tests := []struct {
		name     string
		resolver resolverFunc
		timeout  time.Duration
		want     string
	}{
		{
			name: "unavailable",
			resolver: func(ctx context.Context, id string) (*models.IdentityMatch, error) {
				return nil, common.ErrorUnavailable
			},
			want: "Unavailable",
		},
		{
			name: "nil match",
			resolver: func(ctx context.Context, id string) (*models.IdentityMatch, error) {
				return nil, nil
			},
			want: "NotFound",
		},
		{
			name: "timeout",
			resolver: func(ctx context.Context, id string) (*models.IdentityMatch, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
			timeout: 10 * time.Millisecond,
			want:    "Timeout",
		},
		{
			name: "unexpected",
			resolver: func(ctx context.Context, id string) (*models.IdentityMatch, error) {
				return nil, errors.New("boom")
			},
			want: "Internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, func(d *Deps) { d.Resolver = tt.resolver })
			h.flow.cfg.LookupTimeout = tt.timeout

			h.flow.SetNationalID("V-1")
			require.True(t, h.flow.ValidateIdentity(context.Background()))
			h.clock.Advance(identityDelay)

			d := h.flow.Draft()
			assert.Equal(t, models.ValidationInvalid, d.Validation)
			assert.Equal(t, tt.want, d.InvalidReason)
			assert.False(t, d.CanUpload)
		})
	}
}

func TestSubmitPhoto_RequiresValidIdentity(t *testing.T) {
	h := newHarness(t, nil)

	err := h.flow.SubmitPhoto(context.Background(), jpegPhoto)
	assert.ErrorIs(t, err, common.ErrorInvalidInput)
	d := h.flow.Draft()
	assert.Equal(t, models.QualityNoFile, d.Quality)
	assert.Empty(t, d.PhotoName)
}

func TestSubmitPhoto_UnsupportedType(t *testing.T) {
	h := newHarness(t, nil)
	h.validate(t, "V-1")

	err := h.flow.SubmitPhoto(context.Background(), models.Photo{Filename: "cv.pdf", ContentType: "application/pdf", Data: []byte("%PDF")})
	require.NoError(t, err)

	d := h.flow.Draft()
	assert.Equal(t, models.QualityError, d.Quality)
	assert.Equal(t, "InvalidInput", d.QualityReason)
	assert.Zero(t, h.runner.Len())
}

func TestQuality_ProgressMonotoneToExactly100(t *testing.T) {
	h := newHarness(t, func(d *Deps) { d.Stepper = StepperFunc(func() int { return 7 }) })
	h.validate(t, "V-1")
	require.NoError(t, h.flow.SubmitPhoto(context.Background(), jpegPhoto))

	d := h.flow.Draft()
	require.Equal(t, models.QualityAnalyzing, d.Quality)
	require.Zero(t, d.Progress)

	last := 0
	for i := 0; i < 20; i++ {
		h.clock.Advance(tick)
		d = h.flow.Draft()
		require.GreaterOrEqual(t, d.Progress, last)
		last = d.Progress
		if d.Progress < 100 {
			require.Equal(t, models.QualityAnalyzing, d.Quality, "no success before 100")
			for _, g := range d.Gates {
				assert.Equal(t, d.Progress >= g.Threshold, g.Reached, g.Name)
			}
		}
	}

	assert.Equal(t, 100, d.Progress)
	assert.Equal(t, models.QualitySuccess, d.Quality)
	assert.True(t, d.CanSubmit)
	for _, g := range d.Gates {
		assert.True(t, g.Reached, g.Name)
		assert.True(t, g.Passed, g.Name)
	}
	assert.Zero(t, h.runner.Len(), "analysis task ended")
}

func TestQuality_RandomStepperRange(t *testing.T) {
	var s RandomStepper
	for i := 0; i < 1000; i++ {
		v := s.Step()
		require.GreaterOrEqual(t, v, 5)
		require.Less(t, v, 15)
	}
}

type inspectorFunc func(ctx context.Context, p models.Photo) ([]GateResult, error)

func (f inspectorFunc) Inspect(ctx context.Context, p models.Photo) ([]GateResult, error) {
	return f(ctx, p)
}

func TestQuality_FailedGateEndsInError(t *testing.T) {
	h := newHarness(t, func(d *Deps) {
		d.Inspector = inspectorFunc(func(ctx context.Context, p models.Photo) ([]GateResult, error) {
			return []GateResult{
				{Name: models.GateFormat, Passed: true},
				{Name: models.GateCentering, Passed: true},
				{Name: models.GateBackground, Passed: false, Reason: "background luma 90 below 200"},
				{Name: models.GateOptimization, Passed: true},
			}, nil
		})
	})
	h.validate(t, "V-1")
	require.NoError(t, h.flow.SubmitPhoto(context.Background(), jpegPhoto))
	h.clock.Advance(10 * tick)

	d := h.flow.Draft()
	assert.Equal(t, 100, d.Progress)
	assert.Equal(t, models.QualityError, d.Quality)
	assert.Equal(t, "InvalidInput", d.QualityReason)
	assert.False(t, d.Gates[2].Passed)
	assert.Equal(t, "background luma 90 below 200", d.Gates[2].Reason)
	assert.False(t, d.CanSubmit)

	_, _, err := h.flow.Submit(context.Background())
	assert.ErrorIs(t, err, common.ErrorConflict)
}

func TestQuality_InspectorErrorEndsInError(t *testing.T) {
	h := newHarness(t, func(d *Deps) {
		d.Inspector = inspectorFunc(func(ctx context.Context, p models.Photo) ([]GateResult, error) {
			return nil, common.ErrorUnavailable
		})
	})
	h.validate(t, "V-1")
	require.NoError(t, h.flow.SubmitPhoto(context.Background(), jpegPhoto))
	h.clock.Advance(10 * tick)

	d := h.flow.Draft()
	assert.Equal(t, models.QualityError, d.Quality)
	assert.Equal(t, "Unavailable", d.QualityReason)
}

func TestQuality_ResubmitRestarts(t *testing.T) {
	h := newHarness(t, nil)
	h.validate(t, "V-1")
	ctx := context.Background()

	require.NoError(t, h.flow.SubmitPhoto(ctx, jpegPhoto))
	h.clock.Advance(5 * tick)
	require.Equal(t, 50, h.flow.Draft().Progress)

	second := models.Photo{Filename: "other.png", ContentType: "image/png", Data: []byte{1}}
	require.NoError(t, h.flow.SubmitPhoto(ctx, second))
	d := h.flow.Draft()
	assert.Zero(t, d.Progress)
	assert.Equal(t, "other.png", d.PhotoName)

	h.clock.Advance(tick)
	assert.Equal(t, 10, h.flow.Draft().Progress, "only one analysis ticking")
}

func TestSubmit_CreatesPendingRecordAndClearsDraft(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, _, err := h.flow.Submit(ctx)
	assert.ErrorIs(t, err, common.ErrorConflict)

	h.validate(t, "V-30.111.222")
	require.NoError(t, h.flow.SubmitPhoto(ctx, jpegPhoto))
	h.clock.Advance(10 * tick)
	require.Equal(t, models.QualitySuccess, h.flow.Draft().Quality)

	rec, created, err := h.flow.Submit(ctx)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "V-30.111.222", rec.NationalID)
	assert.Equal(t, "Pedro Alejandro", rec.FirstName)
	assert.Equal(t, models.StatusPending, rec.Status)
	assert.Equal(t, 1, h.photos.Len())

	url, err := h.photos.Resolve(ctx, rec.PhotoURL)
	require.NoError(t, err)
	assert.Contains(t, url, "data:image/jpeg;base64,")

	list, _ := h.store.List(ctx)
	require.Len(t, list, 4)
	assert.Equal(t, rec.ID, list[3].ID)

	d := h.flow.Draft()
	assert.Equal(t, models.ValidationIdle, d.Validation)
	assert.Equal(t, models.QualityNoFile, d.Quality)
	assert.Empty(t, d.NationalID)
}

func TestSubmit_UpdatesExistingRecord(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.validate(t, "V-15.888.999")
	require.NoError(t, h.flow.SubmitPhoto(ctx, jpegPhoto))
	h.clock.Advance(10 * tick)

	rec, created, err := h.flow.Submit(ctx)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "3", rec.ID)
	assert.Equal(t, models.StatusPending, rec.Status)

	list, _ := h.store.List(ctx)
	assert.Len(t, list, 3)
}

type failingPhotos struct{ photos.Storage }

func (failingPhotos) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	return "", common.ErrorUnavailable
}

func TestSubmit_StorageErrorKeepsDraft(t *testing.T) {
	h := newHarness(t, func(d *Deps) { d.Photos = failingPhotos{} })
	ctx := context.Background()

	h.validate(t, "V-1")
	require.NoError(t, h.flow.SubmitPhoto(ctx, jpegPhoto))
	h.clock.Advance(10 * tick)

	_, _, err := h.flow.Submit(ctx)
	assert.ErrorIs(t, err, common.ErrorUnavailable)

	d := h.flow.Draft()
	assert.Equal(t, models.QualitySuccess, d.Quality)
	assert.True(t, d.CanSubmit, "can retry")
}

// gatedPhotos parks Put until release is closed.
type gatedPhotos struct {
	*photos.MemoryStorage
	entered chan struct{}
	release chan struct{}
}

func (g *gatedPhotos) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	close(g.entered)
	<-g.release
	return g.MemoryStorage.Put(ctx, data, contentType)
}

func TestSubmit_ResetDuringStoreLeavesNewDraft(t *testing.T) {
	gate := &gatedPhotos{MemoryStorage: photos.NewMemoryStorage(), entered: make(chan struct{}), release: make(chan struct{})}
	h := newHarness(t, func(d *Deps) { d.Photos = gate })
	ctx := context.Background()

	h.validate(t, "V-30.111.222")
	require.NoError(t, h.flow.SubmitPhoto(ctx, jpegPhoto))
	h.clock.Advance(10 * tick)

	type result struct {
		rec *models.Record
		err error
	}
	done := make(chan result, 1)
	go func() {
		rec, _, err := h.flow.Submit(ctx)
		done <- result{rec, err}
	}()

	<-gate.entered
	assert.False(t, h.flow.Draft().CanSubmit, "submission in flight")
	h.flow.Reset()
	h.flow.SetNationalID("V-11.111.111")
	close(gate.release)

	res := <-done
	assert.ErrorIs(t, res.err, common.ErrorConflict)
	assert.Nil(t, res.rec)

	list, err := h.store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3, "abandoned submission stored nothing")

	d := h.flow.Draft()
	assert.Equal(t, "V-11.111.111", d.NationalID)
	assert.Equal(t, models.ValidationIdle, d.Validation)
}

func TestSubmit_EditDuringStoreKeepsEdit(t *testing.T) {
	gate := &gatedPhotos{MemoryStorage: photos.NewMemoryStorage(), entered: make(chan struct{}), release: make(chan struct{})}
	h := newHarness(t, func(d *Deps) { d.Photos = gate })
	ctx := context.Background()

	h.validate(t, "V-30.111.222")
	require.NoError(t, h.flow.SubmitPhoto(ctx, jpegPhoto))
	h.clock.Advance(10 * tick)

	errc := make(chan error, 1)
	go func() {
		_, _, err := h.flow.Submit(ctx)
		errc <- err
	}()

	<-gate.entered
	h.flow.SetNationalID("V-2")
	close(gate.release)

	assert.ErrorIs(t, <-errc, common.ErrorConflict)
	d := h.flow.Draft()
	assert.Equal(t, "V-2", d.NationalID)
	assert.Equal(t, models.QualityNoFile, d.Quality)

	list, err := h.store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestReset_CancelsPendingTimers(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.validate(t, "V-1")
	require.NoError(t, h.flow.SubmitPhoto(ctx, jpegPhoto))
	h.clock.Advance(2 * tick)

	h.flow.Reset()
	assert.Zero(t, h.runner.Len())
	h.clock.Advance(time.Minute)

	d := h.flow.Draft()
	assert.Equal(t, models.QualityNoFile, d.Quality)
	assert.Zero(t, d.Progress)
	assert.Equal(t, models.ValidationIdle, d.Validation)

	h.flow.SetNationalID("V-2")
	require.True(t, h.flow.ValidateIdentity(ctx))
	h.flow.Close()
	h.clock.Advance(identityDelay)
	assert.Equal(t, models.ValidationIdle, h.flow.Draft().Validation)
}
