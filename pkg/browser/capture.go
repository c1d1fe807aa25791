package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// LinkBox is one hyperlink's bounding box in CSS pixels, relative to the
// captured surface's top-left corner.
type LinkBox struct {
	Href string  `json:"href"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
}

// Capture is a full-content-height raster of the rendered document plus the
// geometry needed to reconstruct link interactivity lost by rasterization.
type Capture struct {
	PNG      []byte
	WidthPx  float64
	HeightPx float64
	Links    []LinkBox
	Scale    float64
}

// normalizeScript forces font-rendering hints and pins every link's computed
// color inline. The capture surface can otherwise lose inherited style
// context relative to the live document.
const normalizeScript = `(() => {
	const style = document.createElement('style');
	style.textContent = 'body { -webkit-font-smoothing: antialiased; text-rendering: geometricPrecision; }';
	document.head.appendChild(style);
	for (const a of document.querySelectorAll('a[href]')) {
		a.style.color = getComputedStyle(a).color;
	}
	return true;
})()`

// linkScript collects every hyperlink's bounding box in document coordinates.
const linkScript = `Array.from(document.querySelectorAll('a[href]')).map(a => {
	const r = a.getBoundingClientRect();
	return {href: a.href, x: r.left + window.scrollX, y: r.top + window.scrollY, w: r.width, h: r.height};
})`

const dimsScript = `({
	w: Math.max(document.body.scrollWidth, document.documentElement.scrollWidth) * 1.0,
	h: Math.max(document.body.scrollHeight, document.documentElement.scrollHeight) * 1.0
})`

type pageDims struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// CaptureFull rasterizes html at the given device-pixel multiplier using the
// actual content height, so extended documents are captured in full rather
// than cropped to the viewport. Link geometry is read in the same pass as
// the screenshot, so it cannot skew against the raster.
func (s *Session) CaptureFull(ctx context.Context, html string, scale float64) (*Capture, error) {
	if scale <= 0 {
		scale = 2
	}
	out := &Capture{Scale: scale}
	var dims pageDims

	err := s.withTab(ctx, html,
		chromedp.EmulateViewport(794, 1122, chromedp.EmulateScale(scale)),
		s.settle(),
		chromedp.Evaluate(normalizeScript, nil),
		chromedp.Evaluate(dimsScript, &dims),
		chromedp.Evaluate(linkScript, &out.Links),
		chromedp.FullScreenshot(&out.PNG, 100),
	)
	if err != nil {
		return nil, err
	}
	out.WidthPx = dims.W
	out.HeightPx = dims.H
	return out, nil
}

// PrintPDF prints html to an A4 PDF through the browser's print pipeline.
func (s *Session) PrintPDF(ctx context.Context, html string) ([]byte, error) {
	var pdf []byte
	err := s.withTab(ctx, html,
		s.settle(),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm -> inches: 8.27 x 11.69
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("browser: empty PDF output")
	}
	return pdf, nil
}
