package composer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/carnet/internal/common"
	"github.com/dmitrijs2005/carnet/internal/logging"
	"github.com/dmitrijs2005/carnet/internal/server/metrics"
	"github.com/dmitrijs2005/carnet/internal/server/models"
	"github.com/dmitrijs2005/carnet/internal/tasks"
)

// Composer is one session's card editor. The preview override it holds is
// never written back to the record store.
type Composer struct {
	key       string
	runner    *tasks.Runner
	extractor Extractor
	delay     time.Duration
	log       logging.Logger
	metrics   *metrics.Metrics

	mu          sync.Mutex
	active      *models.Record
	override    *models.CardFields
	template    models.Template
	orientation models.Orientation
	extracting  bool
	extractErr  string
}

func New(key string, runner *tasks.Runner, extractor Extractor, delay time.Duration, log logging.Logger, m *metrics.Metrics) *Composer {
	if extractor == nil {
		extractor = CannedExtractor{}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Composer{
		key:         key,
		runner:      runner,
		extractor:   extractor,
		delay:       delay,
		log:         log.With("module", "composer", "composer", key),
		metrics:     m,
		template:    models.Template2025,
		orientation: models.OrientationHorizontal,
	}
}

func (c *Composer) extractKey() string { return c.key + "/extract" }

// SetActive points the composer at rec. Selecting a different record drops
// the preview override and cancels a pending extraction; refreshing the same
// record keeps them.
func (c *Composer) SetActive(rec *models.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil || rec == nil || c.active.ID != rec.ID {
		c.runner.Cancel(c.extractKey())
		c.extracting = false
		c.extractErr = ""
		c.override = nil
	}
	c.active = rec.Clone()
}

func (c *Composer) Active() *models.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active.Clone()
}

// Preview returns the fields the card shows: the override when present,
// otherwise the active record's.
func (c *Composer) Preview() (models.CardFields, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.previewLocked()
}

func (c *Composer) previewLocked() (models.CardFields, bool) {
	if c.active == nil {
		return models.CardFields{}, false
	}
	if c.override != nil {
		return *c.override, true
	}
	return c.active.CardFields(), true
}

// Overridden reports whether the preview differs from the stored record.
func (c *Composer) Overridden() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.override != nil
}

func (c *Composer) SetTemplate(t models.Template) {
	c.mu.Lock()
	c.template = t
	c.mu.Unlock()
}

func (c *Composer) SetOrientation(o models.Orientation) {
	c.mu.Lock()
	c.orientation = o
	c.mu.Unlock()
}

func (c *Composer) Template() models.Template {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.template
}

func (c *Composer) Orientation() models.Orientation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orientation
}

// Layout renders the preview with the current template and orientation.
func (c *Composer) Layout() (models.CardLayout, error) {
	c.mu.Lock()
	fields, ok := c.previewLocked()
	t, o := c.template, c.orientation
	c.mu.Unlock()

	if !ok {
		return models.CardLayout{}, fmt.Errorf("no active record: %w", common.ErrorNotFound)
	}
	return Render(fields, t, o)
}

// ApplySmartExtraction schedules an extraction for the active record. It
// returns false when there is no active record or one is already running.
func (c *Composer) ApplySmartExtraction(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil || c.extracting {
		return false
	}
	c.extracting = true
	c.extractErr = ""
	id := c.active.ID
	c.runner.After(c.extractKey(), c.delay, func(tctx context.Context) {
		c.extract(tctx, id)
	})
	c.log.Debug(ctx, "extraction scheduled", "record", id)
	return true
}

func (c *Composer) extract(ctx context.Context, recordID string) {
	c.mu.Lock()
	current, ok := c.previewLocked()
	c.mu.Unlock()
	if !ok {
		return
	}

	fields, err := c.extractor.Extract(ctx, current)

	c.mu.Lock()
	defer c.mu.Unlock()

	// the record was switched while extracting
	if ctx.Err() != nil || c.active == nil || c.active.ID != recordID {
		return
	}
	c.extracting = false
	if err != nil {
		c.extractErr = common.Kind(err)
		c.metrics.Extracted("error")
		c.log.Warn(ctx, "extraction failed", "record", recordID, "error", err)
		return
	}
	c.override = &fields
	c.metrics.Extracted("ok")
	c.log.Info(ctx, "extraction applied to preview", "record", recordID)
}

// Extracting reports whether an extraction is pending.
func (c *Composer) Extracting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.extracting
}

// ExtractionError is the error kind of the last failed extraction, or "".
func (c *Composer) ExtractionError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.extractErr
}

// Close cancels a pending extraction.
func (c *Composer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runner.Cancel(c.extractKey())
	c.extracting = false
}
