// Package fit keeps the preview classification current: it measures the
// rendered height of the current template against the A4 page geometry and
// flags documents that will span more than one standard page.
//
// The preview is never shrunk to fit. One fixed readable scale is used and
// overflow becomes pagination instead.
package fit

import (
	"context"
	"sync"
	"time"

	"cv-builder/internal/model"
	"cv-builder/internal/render"
)

// A4 geometry at 96 DPI. A measured height of exactly PageHeightPx is still
// a standard single page; anything above is extended.
const (
	PageWidthPx  = 794
	PageHeightPx = 1122.0
)

// Classify reports whether a measured content height makes the document
// extended (spans more than one standard output page).
func Classify(heightPx float64) bool {
	return heightPx > PageHeightPx
}

// Measurer measures the laid-out height of an HTML document at the fixed
// page width, after fonts and layout have settled.
type Measurer interface {
	MeasureHeight(ctx context.Context, html string) (float64, error)
}

// Result is the latest settled preview state.
type Result struct {
	HTML     string
	HeightPx float64
	Extended bool
	Version  uint64
	Err      error
}

// Previewer coalesces document changes with a quiet period, re-renders and
// re-measures, and discards stale in-flight measurements whose inputs have
// changed since they started.
type Previewer struct {
	measurer Measurer
	debounce time.Duration

	mu      sync.Mutex
	token   uint64 // increases on every accepted regeneration
	timer   *time.Timer
	cancel  context.CancelFunc
	pending *model.Document
	version uint64
	result  Result
	ready   bool
}

// NewPreviewer creates a previewer with the given debounce quiet period.
func NewPreviewer(m Measurer, debounce time.Duration) *Previewer {
	return &Previewer{measurer: m, debounce: debounce}
}

// Request schedules a regeneration for doc. Rapid successive calls coalesce:
// only the last document within the quiet period is measured.
func (p *Previewer) Request(doc *model.Document, version uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = doc
	p.version = version
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.debounce, p.fire)
}

// Reload forces an immediate regeneration from the last requested document.
// It is the manual-retry action behind the preview's recoverable boundary.
func (p *Previewer) Reload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.start(p.pending, p.version)
}

func (p *Previewer) fire() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil {
		return
	}
	p.start(p.pending, p.version)
}

// start begins a measurement run. Caller holds p.mu.
func (p *Previewer) start(doc *model.Document, version uint64) {
	// Cancel the previous in-flight run; its token is now stale either way.
	if p.cancel != nil {
		p.cancel()
	}
	p.token++
	token := p.token
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	go p.run(ctx, doc, version, token)
}

func (p *Previewer) run(ctx context.Context, doc *model.Document, version, token uint64) {
	html, err := render.HTML(doc)
	var height float64
	if err == nil {
		height, err = p.measurer.MeasureHeight(ctx, html)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if token != p.token {
		// Inputs changed while measuring; a stale result must never
		// clobber the latest one.
		return
	}
	if ctx.Err() != nil {
		return
	}
	p.result = Result{
		HTML:     html,
		HeightPx: height,
		Extended: err == nil && Classify(height),
		Version:  version,
		Err:      err,
	}
	p.ready = true
}

// Result returns the latest settled result. ok is false until the first
// regeneration completes.
func (p *Previewer) Result() (Result, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result, p.ready
}

// Close cancels any in-flight measurement.
func (p *Previewer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
	}
	if p.cancel != nil {
		p.cancel()
	}
}
