// Package usecase orchestrates export runs: render through the requested
// strategy, validate the output, persist artifact files, and record the run
// in the job history.
package usecase

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"cv-builder/internal/domain"
	"cv-builder/internal/export"
	"cv-builder/internal/letter"
	"cv-builder/internal/model"
	"cv-builder/internal/render"
	"cv-builder/internal/render/pagedoc"
	"cv-builder/internal/telemetry"
)

// RasterExporter is the screenshot-based export strategy.
type RasterExporter interface {
	PNG(ctx context.Context, html string) ([]byte, error)
	PDF(ctx context.Context, html string) ([]byte, error)
}

// JobsRepo records export runs.
type JobsRepo interface {
	Save(ctx context.Context, j *domain.ExportJob) error
}

// Processor runs exports end to end.
type Processor struct {
	raster   RasterExporter
	repo     JobsRepo
	dataDir  string
	attempts int
	backoff  time.Duration
}

// NewProcessor builds a processor writing artifacts under dataDir. repo may
// be nil when job history is disabled.
func NewProcessor(raster RasterExporter, repo JobsRepo, dataDir string) *Processor {
	return &Processor{
		raster:   raster,
		repo:     repo,
		dataDir:  dataDir,
		attempts: 3,
		backoff:  time.Second,
	}
}

// Export produces the artifact of the given kind for doc and returns the
// recorded job together with the artifact bytes. Render failures are
// retried with exponential backoff; a job row is recorded either way.
func (p *Processor) Export(ctx context.Context, doc *model.Document, kind, userID string) (*domain.ExportJob, []byte, error) {
	job := domain.NewExportJob(kind, doc.CurrentTemplate, userID)
	blob, err := p.renderWithRetry(ctx, func(ctx context.Context) ([]byte, error) {
		return p.renderKind(ctx, doc, kind)
	}, needsPDFMagic(kind))
	return p.finish(ctx, job, blob, err)
}

// ExportLetter produces the cover-letter PDF for the given body.
func (p *Processor) ExportLetter(ctx context.Context, doc *model.Document, body string) (*domain.ExportJob, []byte, error) {
	job := domain.NewExportJob(domain.KindLetterPDF, doc.CurrentTemplate, "")
	blob, err := p.renderWithRetry(ctx, func(ctx context.Context) ([]byte, error) {
		built, err := letter.Build(doc, body, time.Now())
		if err != nil {
			return nil, err
		}
		return pagedoc.Render(built)
	}, true)
	return p.finish(ctx, job, blob, err)
}

func (p *Processor) renderKind(ctx context.Context, doc *model.Document, kind string) ([]byte, error) {
	switch kind {
	case domain.KindSnapshot:
		return model.ExportSnapshot(doc)
	case domain.KindPDFNative:
		return export.NativePDF(doc)
	case domain.KindPNG, domain.KindPDFRaster:
		html, err := render.HTML(doc)
		if err != nil {
			return nil, err
		}
		if kind == domain.KindPNG {
			return p.raster.PNG(ctx, html)
		}
		return p.raster.PDF(ctx, html)
	}
	return nil, fmt.Errorf("usecase: unknown export kind %q", kind)
}

// renderWithRetry runs fn up to p.attempts times with exponential backoff.
// PDF outputs additionally need the %PDF magic to count as success.
func (p *Processor) renderWithRetry(ctx context.Context, fn func(context.Context) ([]byte, error), wantPDF bool) ([]byte, error) {
	var lastErr error
	for i := 0; i < p.attempts; i++ {
		blob, err := fn(ctx)
		if err == nil {
			if len(blob) == 0 {
				err = fmt.Errorf("usecase: empty artifact")
			} else if wantPDF && !bytes.HasPrefix(blob, []byte("%PDF")) {
				err = fmt.Errorf("usecase: invalid PDF output (len=%d)", len(blob))
			} else {
				return blob, nil
			}
		}
		lastErr = err
		telemetry.Warn("export attempt failed", map[string]any{"attempt": i + 1, "error": err.Error()})
		if i < p.attempts-1 {
			select {
			case <-time.After(p.backoff << i):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

// finish writes the artifact files, fills in the job record and saves it.
func (p *Processor) finish(ctx context.Context, job *domain.ExportJob, blob []byte, renderErr error) (*domain.ExportJob, []byte, error) {
	job.UpdatedAt = time.Now()
	if renderErr != nil {
		job.Status = domain.StatusFailed
		job.Error = renderErr.Error()
		p.record(ctx, job)
		return job, nil, renderErr
	}

	path, err := p.writeArtifact(job, blob)
	if err != nil {
		job.Status = domain.StatusFailed
		job.Error = err.Error()
		p.record(ctx, job)
		return job, nil, err
	}
	job.Status = domain.StatusCompleted
	job.Artifact = path
	job.Metadata["size_bytes"] = len(blob)

	if job.UserID != "" {
		if copyPath, err := p.writeUserCopy(job, blob); err != nil {
			telemetry.Warn("user copy failed", map[string]any{"error": err.Error()})
		} else {
			job.Metadata["user_copy"] = copyPath
		}
	}
	p.record(ctx, job)
	return job, blob, nil
}

func (p *Processor) writeArtifact(job *domain.ExportJob, blob []byte) (string, error) {
	dir := filepath.Join(p.dataDir, "exports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("usecase: creating export dir: %w", err)
	}
	name := fmt.Sprintf("cv_%s_%s.%s", job.Template, job.CreatedAt.Format("20060102T150405"), extFor(job.Kind))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return "", fmt.Errorf("usecase: writing artifact: %w", err)
	}
	return path, nil
}

func (p *Processor) writeUserCopy(job *domain.ExportJob, blob []byte) (string, error) {
	dir := filepath.Join(p.dataDir, "users", job.UserID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, uuid.New().String()+"."+extFor(job.Kind))
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (p *Processor) record(ctx context.Context, job *domain.ExportJob) {
	if p.repo == nil {
		return
	}
	if err := p.repo.Save(ctx, job); err != nil {
		telemetry.Error("recording export job failed", map[string]any{
			"job":   job.ID.String(),
			"error": err.Error(),
		})
	}
}

func needsPDFMagic(kind string) bool {
	switch kind {
	case domain.KindPDFRaster, domain.KindPDFNative, domain.KindLetterPDF:
		return true
	}
	return false
}

func extFor(kind string) string {
	switch kind {
	case domain.KindPNG:
		return "png"
	case domain.KindSnapshot:
		return "json"
	default:
		return "pdf"
	}
}
