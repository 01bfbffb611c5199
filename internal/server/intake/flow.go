// Package intake implements the self-service upload draft: identity
// validation against the payroll, then a photo quality check, then
// submission as a pending record.
package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/carnet/internal/common"
	"github.com/dmitrijs2005/carnet/internal/logging"
	"github.com/dmitrijs2005/carnet/internal/server/metrics"
	"github.com/dmitrijs2005/carnet/internal/server/models"
	"github.com/dmitrijs2005/carnet/internal/server/photos"
	"github.com/dmitrijs2005/carnet/internal/tasks"
)

// Accepted photo content types.
var supportedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// RecordUpserter stores a submitted draft. roster.Store implements it.
type RecordUpserter interface {
	UpsertByNationalID(ctx context.Context, rec *models.Record) (*models.Record, bool, error)
}

type Config struct {
	IdentityDelay time.Duration
	QualityTick   time.Duration
	// LookupTimeout bounds one resolver call; zero means no bound.
	LookupTimeout time.Duration
}

// Deps are the collaborators shared by every flow of a server.
type Deps struct {
	Runner    *tasks.Runner
	Resolver  IdentityResolver
	Inspector Inspector
	Stepper   Stepper
	Photos    photos.Storage
	Records   RecordUpserter
	Logger    logging.Logger
	Metrics   *metrics.Metrics
}

// Flow is one session's upload draft. All methods are safe for concurrent
// use; timer callbacks never apply once the step they belong to has been
// cancelled or reset.
type Flow struct {
	key  string
	deps Deps
	cfg  Config
	log  logging.Logger

	mu            sync.Mutex
	nationalID    string
	validation    models.ValidationState
	invalidReason string
	match         *models.IdentityMatch

	photo         *models.Photo
	quality       models.QualityState
	qualityReason string
	progress      int
	gates         []models.Gate
	submitting    bool

	// gen changes whenever the draft is edited or discarded; a submission
	// started under an older gen must not touch the current draft.
	gen          uint64
	cancelSubmit context.CancelFunc
}

// New creates a flow whose timers live under key in deps.Runner.
func New(key string, deps Deps, cfg Config) *Flow {
	if deps.Resolver == nil {
		deps.Resolver = CannedResolver{}
	}
	if deps.Inspector == nil {
		deps.Inspector = SimulatedInspector{}
	}
	if deps.Stepper == nil {
		deps.Stepper = RandomStepper{}
	}
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}
	f := &Flow{
		key:  key,
		deps: deps,
		cfg:  cfg,
		log:  deps.Logger.With("module", "intake", "flow", key),
	}
	f.resetLocked()
	return f
}

func (f *Flow) identityKey() string { return f.key + "/identity" }
func (f *Flow) qualityKey() string  { return f.key + "/quality" }

// SetNationalID edits the identity field. Any validation in progress or
// done is dropped, together with the photo step.
func (f *Flow) SetNationalID(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nationalID = text
	f.gen++
	f.abortSubmitLocked()
	if f.validation == models.ValidationIdle {
		return
	}
	f.deps.Runner.Cancel(f.identityKey())
	f.validation = models.ValidationIdle
	f.invalidReason = ""
	f.match = nil
	f.resetPhotoLocked()
}

// ValidateIdentity starts a lookup of the current national ID. It does
// nothing and returns false when the field is blank or a lookup is running
// or already succeeded.
func (f *Flow) ValidateIdentity(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := strings.TrimSpace(f.nationalID)
	if id == "" {
		return false
	}
	if f.validation == models.ValidationSearching || f.validation == models.ValidationValid {
		return false
	}

	f.validation = models.ValidationSearching
	f.invalidReason = ""
	f.match = nil
	f.deps.Runner.After(f.identityKey(), f.cfg.IdentityDelay, func(tctx context.Context) {
		f.resolve(tctx, id)
	})
	f.log.Debug(ctx, "identity lookup scheduled", "national_id", id)
	return true
}

func (f *Flow) resolve(ctx context.Context, nationalID string) {
	lookupCtx := ctx
	if f.cfg.LookupTimeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, f.cfg.LookupTimeout)
		defer cancel()
	}

	match, err := f.deps.Resolver.Resolve(lookupCtx, nationalID)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		err = fmt.Errorf("identity lookup: %w", common.ErrorTimeout)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if ctx.Err() != nil || f.validation != models.ValidationSearching {
		return
	}
	if err == nil && match == nil {
		err = fmt.Errorf("identity %s: %w", nationalID, common.ErrorNotFound)
	}
	if err != nil {
		f.validation = models.ValidationInvalid
		f.invalidReason = common.Kind(err)
		f.deps.Metrics.IdentityValidated(string(models.ValidationInvalid))
		f.log.Info(ctx, "identity rejected", "national_id", nationalID, "reason", f.invalidReason, "error", err)
		return
	}

	f.validation = models.ValidationValid
	f.match = match
	f.deps.Metrics.IdentityValidated(string(models.ValidationValid))
	f.log.Info(ctx, "identity validated", "national_id", nationalID, "active", match.Active)
}

// SubmitPhoto attaches a photo and (re)starts the quality analysis. It
// fails with ErrorInvalidInput, changing nothing, until the identity is
// valid. An unsupported content type ends the analysis in the error state.
func (f *Flow) SubmitPhoto(ctx context.Context, photo models.Photo) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.validation != models.ValidationValid {
		return fmt.Errorf("photo upload before identity validation: %w", common.ErrorInvalidInput)
	}

	f.resetPhotoLocked()
	p := photo
	p.Data = append([]byte(nil), photo.Data...)
	f.photo = &p

	if !supportedTypes[p.ContentType] || len(p.Data) == 0 {
		f.quality = models.QualityError
		f.qualityReason = common.Kind(common.ErrorInvalidInput)
		f.gates[0].Reason = "unsupported file " + p.ContentType
		f.deps.Metrics.QualityChecked(string(models.QualityError))
		f.log.Info(ctx, "photo refused", "file", p.Filename, "content_type", p.ContentType)
		return nil
	}

	f.quality = models.QualityAnalyzing
	f.deps.Runner.Every(f.qualityKey(), f.cfg.QualityTick, f.tick)
	f.log.Debug(ctx, "photo analysis started", "file", p.Filename, "bytes", len(p.Data))
	return nil
}

func (f *Flow) tick(ctx context.Context) bool {
	f.mu.Lock()
	if ctx.Err() != nil || f.quality != models.QualityAnalyzing {
		f.mu.Unlock()
		return false
	}
	f.progress = min(100, f.progress+f.deps.Stepper.Step())
	for i := range f.gates {
		f.gates[i].Reached = f.progress >= f.gates[i].Threshold
	}
	if f.progress < 100 {
		f.mu.Unlock()
		return true
	}
	photo := *f.photo
	f.mu.Unlock()

	results, err := f.deps.Inspector.Inspect(ctx, photo)

	f.mu.Lock()
	defer f.mu.Unlock()
	if ctx.Err() != nil || f.quality != models.QualityAnalyzing {
		return false
	}
	f.finishQualityLocked(ctx, results, err)
	return false
}

func (f *Flow) finishQualityLocked(ctx context.Context, results []GateResult, err error) {
	if err != nil {
		f.quality = models.QualityError
		f.qualityReason = common.Kind(err)
		f.deps.Metrics.QualityChecked(string(models.QualityError))
		f.log.Error(ctx, "photo inspection failed", "error", err)
		return
	}

	byName := make(map[models.GateName]GateResult, len(results))
	for _, r := range results {
		byName[r.Name] = r
	}
	failed := 0
	for i := range f.gates {
		r, ok := byName[f.gates[i].Name]
		if !ok {
			r = GateResult{Reason: "not checked"}
		}
		f.gates[i].Passed = r.Passed
		f.gates[i].Reason = r.Reason
		if !r.Passed {
			failed++
		}
	}

	if failed > 0 {
		f.quality = models.QualityError
		f.qualityReason = common.Kind(common.ErrorInvalidInput)
		f.deps.Metrics.QualityChecked(string(models.QualityError))
		f.log.Info(ctx, "photo failed quality gates", "failed", failed)
		return
	}
	f.quality = models.QualitySuccess
	f.deps.Metrics.QualityChecked(string(models.QualitySuccess))
	f.log.Info(ctx, "photo passed quality gates")
}

// Submit stores the photo and appends or updates the pending record for the
// validated national ID, then discards the draft. created reports whether a
// new record was appended. It fails with ErrorConflict unless the quality
// check succeeded, or when the draft is edited or reset before the record
// is written.
func (f *Flow) Submit(ctx context.Context) (rec *models.Record, created bool, err error) {
	f.mu.Lock()
	if f.quality != models.QualitySuccess || f.submitting || f.match == nil {
		f.mu.Unlock()
		return nil, false, fmt.Errorf("draft not ready for submission: %w", common.ErrorConflict)
	}
	f.submitting = true
	gen := f.gen
	photo := *f.photo
	match := *f.match
	nationalID := strings.TrimSpace(f.nationalID)
	sctx, cancel := context.WithCancel(ctx)
	f.cancelSubmit = cancel
	f.mu.Unlock()

	rec, created, err = f.store(sctx, photo, match, nationalID)

	f.mu.Lock()
	defer f.mu.Unlock()
	cancel()

	if gen != f.gen {
		if err == nil {
			// written before the abort reached the store
			f.log.Info(ctx, "intake stored after draft was discarded", "record", rec.ID)
			return rec, created, nil
		}
		f.log.Info(ctx, "intake submission abandoned", "error", err)
		return nil, false, fmt.Errorf("draft discarded during submission: %w", common.ErrorConflict)
	}
	f.submitting = false
	f.cancelSubmit = nil
	if err != nil {
		f.log.Error(ctx, "intake submission failed", "error", err)
		return nil, false, err
	}

	f.deps.Runner.CancelPrefix(f.key + "/")
	f.resetLocked()
	f.deps.Metrics.IntakeSubmitted()
	f.log.Info(ctx, "intake submitted", "record", rec.ID, "created", created)
	return rec, created, nil
}

func (f *Flow) store(ctx context.Context, photo models.Photo, match models.IdentityMatch, nationalID string) (*models.Record, bool, error) {
	ref, err := f.deps.Photos.Put(ctx, photo.Data, photo.ContentType)
	if err != nil {
		return nil, false, fmt.Errorf("store photo: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	rec, created, err := f.deps.Records.UpsertByNationalID(ctx, &models.Record{
		NationalID: nationalID,
		FirstName:  match.FirstName,
		LastName:   match.LastName,
		Role:       match.Role,
		Department: match.Department,
		PhotoURL:   ref,
	})
	if err != nil {
		return nil, false, fmt.Errorf("store record: %w", err)
	}
	return rec, created, nil
}

// Draft returns a snapshot of the upload draft.
func (f *Flow) Draft() models.IntakeDraft {
	f.mu.Lock()
	defer f.mu.Unlock()

	d := models.IntakeDraft{
		NationalID:    f.nationalID,
		Validation:    f.validation,
		InvalidReason: f.invalidReason,
		Quality:       f.quality,
		QualityReason: f.qualityReason,
		Progress:      f.progress,
		Gates:         append([]models.Gate(nil), f.gates...),
		CanUpload:     f.validation == models.ValidationValid,
		CanSubmit:     f.quality == models.QualitySuccess && !f.submitting,
	}
	if f.match != nil {
		m := *f.match
		d.Match = &m
	}
	if f.photo != nil {
		d.PhotoName = f.photo.Filename
	}
	return d
}

// Reset cancels pending lookups and analysis and empties the draft.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deps.Runner.CancelPrefix(f.key + "/")
	f.gen++
	f.abortSubmitLocked()
	f.resetLocked()
}

// Close is called when the owning session goes away.
func (f *Flow) Close() {
	f.Reset()
}

func (f *Flow) resetLocked() {
	f.nationalID = ""
	f.validation = models.ValidationIdle
	f.invalidReason = ""
	f.match = nil
	f.resetPhotoLocked()
}

// abortSubmitLocked cancels an in-flight submission. The gen it captured is
// stale by then, so it leaves the draft alone when it returns.
func (f *Flow) abortSubmitLocked() {
	if f.cancelSubmit != nil {
		f.cancelSubmit()
		f.cancelSubmit = nil
	}
	f.submitting = false
}

func (f *Flow) resetPhotoLocked() {
	if f.deps.Runner != nil {
		f.deps.Runner.Cancel(f.qualityKey())
	}
	f.photo = nil
	f.quality = models.QualityNoFile
	f.qualityReason = ""
	f.progress = 0
	f.gates = models.DefaultGates()
}
