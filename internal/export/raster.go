// Package export produces the downloadable artifacts. Two independent
// strategies exist: a raster path (screenshot embedded in a PDF, links
// reconstructed as overlays) and a native path (paginated vector document).
// The raster path keeps extended documents on one grown page; the native
// path paginates naturally. The asymmetry is intentional product behavior.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"

	"github.com/jung-kurt/gofpdf"

	"cv-builder/pkg/browser"
)

// ErrEmptyCapture means the rasterizer produced a blank or zero-dimension
// image. The caller must surface this instead of downloading a corrupt file.
var ErrEmptyCapture = errors.New("export: capture produced an empty image")

// A4 page geometry in millimeters, plus the fraction of the page width the
// embedded raster may occupy (the rest is margin reservation).
const (
	pageWmm         = 210.0
	pageHmm         = 297.0
	contentFraction = 0.92
)

// Capturer is the browser surface the raster path needs.
type Capturer interface {
	CaptureFull(ctx context.Context, html string, scale float64) (*browser.Capture, error)
}

// Raster is the screenshot-then-embed export strategy.
type Raster struct {
	capturer Capturer
	scale    float64
}

// NewRaster creates the raster exporter with the given device-pixel
// multiplier (values below 1 fall back to 2).
func NewRaster(c Capturer, scale float64) *Raster {
	if scale < 1 {
		scale = 2
	}
	return &Raster{capturer: c, scale: scale}
}

func (r *Raster) capture(ctx context.Context, html string) (*browser.Capture, error) {
	shot, err := r.capturer.CaptureFull(ctx, html, r.scale)
	if err != nil {
		return nil, fmt.Errorf("export: capturing: %w", err)
	}
	if err := validateCapture(shot); err != nil {
		return nil, err
	}
	return shot, nil
}

// validateCapture rejects blank output before anything is downloaded.
func validateCapture(shot *browser.Capture) error {
	if shot == nil || len(shot.PNG) == 0 {
		return ErrEmptyCapture
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(shot.PNG))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEmptyCapture, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return ErrEmptyCapture
	}
	if shot.WidthPx <= 0 || shot.HeightPx <= 0 {
		return ErrEmptyCapture
	}
	return nil
}

// PNG rasterizes the document at full content height and returns the
// encoded image.
func (r *Raster) PNG(ctx context.Context, html string) ([]byte, error) {
	shot, err := r.capture(ctx, html)
	if err != nil {
		return nil, err
	}
	return shot.PNG, nil
}

// PDF embeds the raster in a single PDF page. The content width is a fixed
// fraction of the A4 width; the height follows the raster's aspect ratio.
// When the derived height exceeds one standard page the page itself grows,
// so an extended document becomes one tall page rather than N standard ones.
func (r *Raster) PDF(ctx context.Context, html string) ([]byte, error) {
	shot, err := r.capture(ctx, html)
	if err != nil {
		return nil, err
	}

	marginX := pageWmm * (1 - contentFraction) / 2
	contentWmm := pageWmm * contentFraction
	contentHmm := contentWmm * shot.HeightPx / shot.WidthPx

	docHmm := pageHmm
	if contentHmm+2*marginX > pageHmm {
		docHmm = contentHmm + 2*marginX
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: pageWmm, Ht: docHmm},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("capture", opts, bytes.NewReader(shot.PNG))
	pdf.ImageOptions("capture", marginX, marginX, contentWmm, contentHmm, false, opts, 0, "")

	overlayLinks(pdf, shot, marginX, contentWmm)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: writing raster PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// overlayLinks maps each hyperlink's DOM bounding box proportionally into
// PDF coordinates and lays an invisible clickable region over the raster,
// restoring the interactivity lost by rasterization.
func overlayLinks(pdf *gofpdf.Fpdf, shot *browser.Capture, marginX, contentWmm float64) {
	pxToMM := contentWmm / shot.WidthPx
	for _, l := range shot.Links {
		if l.Href == "" || l.W <= 0 || l.H <= 0 {
			continue
		}
		pdf.LinkString(
			marginX+l.X*pxToMM,
			marginX+l.Y*pxToMM,
			l.W*pxToMM,
			l.H*pxToMM,
			l.Href,
		)
	}
}
