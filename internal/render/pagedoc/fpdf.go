package pagedoc

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// A4 content geometry in millimeters.
const (
	pageMargin  = 18.0
	contentW    = 210.0 - 2*pageMargin
	bodySize    = 10.0
	headingSize = 12.0
	titleSize   = 22.0
	lineHeight  = 5.0
)

// Render serializes the document to PDF bytes. Each call builds a fresh
// writer; a Document value can safely be rendered from multiple goroutines.
func Render(d *Document) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("pagedoc: nil document")
	}
	family := d.Style.FontFamily
	if family == "" {
		family = "Helvetica"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(d.Title, true)
	pdf.SetAuthor(d.Author, true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	accent := d.Style.Accent
	muted := d.Style.Muted
	if muted == (Color{}) {
		muted = Color{R: 110, G: 110, B: 110}
	}

	setBody := func() {
		pdf.SetFont(family, "", bodySize)
		pdf.SetTextColor(20, 20, 20)
	}

	for _, el := range d.Elements {
		switch el.Type {
		case ElTitle:
			pdf.SetFont(family, "B", titleSize)
			pdf.SetTextColor(20, 20, 20)
			pdf.CellFormat(contentW, 10, tr(el.Text), "", 1, "C", false, 0, "")

		case ElSubtitle:
			pdf.SetFont(family, "", bodySize)
			pdf.SetTextColor(muted.R, muted.G, muted.B)
			pdf.CellFormat(contentW, 5, tr(el.Text), "", 1, "C", false, 0, el.Link)

		case ElHeading:
			pdf.Ln(3)
			pdf.SetFont(family, "B", headingSize)
			pdf.SetTextColor(accent.R, accent.G, accent.B)
			pdf.CellFormat(contentW, 7, tr(el.Text), "", 1, "L", false, 0, "")
			pdf.SetDrawColor(accent.R, accent.G, accent.B)
			pdf.SetLineWidth(0.4)
			y := pdf.GetY()
			pdf.Line(pageMargin, y, pageMargin+contentW, y)
			pdf.Ln(2)

		case ElText:
			setBody()
			if style := textStyle(el); style != "" {
				pdf.SetFont(family, style, bodySize)
			}
			if el.Muted {
				pdf.SetTextColor(muted.R, muted.G, muted.B)
			}
			if el.Link != "" {
				pdf.SetTextColor(accent.R, accent.G, accent.B)
				pdf.WriteLinkString(lineHeight, tr(el.Text), el.Link)
				pdf.Ln(lineHeight)
			} else {
				pdf.MultiCell(contentW, lineHeight, tr(el.Text), "", "L", false)
			}

		case ElSplit:
			setBody()
			if el.Bold {
				pdf.SetFont(family, "B", bodySize)
			}
			leftW := contentW * 0.72
			pdf.CellFormat(leftW, lineHeight, tr(el.Text), "", 0, "L", false, 0, "")
			pdf.SetFont(family, "", bodySize-1)
			pdf.SetTextColor(muted.R, muted.G, muted.B)
			pdf.CellFormat(contentW-leftW, lineHeight, tr(el.Right), "", 1, "R", false, 0, "")
			if el.Sub != "" {
				pdf.SetFont(family, "I", bodySize-1)
				pdf.CellFormat(contentW, lineHeight-0.5, tr(el.Sub), "", 1, "L", false, 0, "")
			}

		case ElBullet:
			setBody()
			pdf.CellFormat(5, lineHeight, "-", "", 0, "R", false, 0, "")
			pdf.MultiCell(contentW-5, lineHeight, tr(el.Text), "", "L", false)

		case ElBar:
			setBody()
			labelW := contentW * 0.4
			pdf.CellFormat(labelW, lineHeight, tr(el.Text), "", 0, "L", false, 0, "")
			barW := contentW - labelW - 2
			y := pdf.GetY() + 1.4
			x := pdf.GetX() + 2
			pdf.SetFillColor(225, 228, 232)
			pdf.Rect(x, y, barW, 2.2, "F")
			pdf.SetFillColor(accent.R, accent.G, accent.B)
			pdf.Rect(x, y, barW*clamp01(el.Fill), 2.2, "F")
			pdf.Ln(lineHeight)

		case ElRule:
			pdf.SetDrawColor(muted.R, muted.G, muted.B)
			pdf.SetLineWidth(0.2)
			y := pdf.GetY() + 1
			pdf.Line(pageMargin, y, pageMargin+contentW, y)
			pdf.Ln(3)

		case ElSpacer:
			pdf.Ln(el.Height)

		default:
			return nil, fmt.Errorf("pagedoc: unknown element type %q", el.Type)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pagedoc: serializing: %w", err)
	}
	return buf.Bytes(), nil
}

func textStyle(el Element) string {
	var s string
	if el.Bold {
		s += "B"
	}
	if el.Italic {
		s += "I"
	}
	return s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
