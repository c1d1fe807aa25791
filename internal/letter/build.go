package letter

import (
	"strings"
	"time"

	"cv-builder/internal/model"
	"cv-builder/internal/render/pagedoc"
)

// closingFor is the closing line the letter layout itself renders; the body
// is stripped of generator-added closings so this is the only one.
func closingFor(lang string) string {
	if lang == "en" {
		return "Sincerely,"
	}
	return "Atentamente,"
}

// Build assembles the single-page letter document: header block, date line,
// the body exactly as authored, then the layout's own closing and signature.
// The body is one text element so user line breaks survive untouched.
func Build(doc *model.Document, body string, now time.Time) (*pagedoc.Document, error) {
	style, err := pagedoc.StyleFor(doc.CurrentTemplate)
	if err != nil {
		return nil, err
	}
	pd := doc.CVData.PersonalData
	lang := doc.Language

	out := &pagedoc.Document{
		Title:  pd.FullName() + " - Cover Letter",
		Author: pd.FullName(),
		Style:  style,
	}
	add := func(el pagedoc.Element) { out.Elements = append(out.Elements, el) }

	add(pagedoc.Element{Type: pagedoc.ElTitle, Text: pd.FullName()})
	if line := headerContact(pd); line != "" {
		add(pagedoc.Element{Type: pagedoc.ElSubtitle, Text: line})
	}
	add(pagedoc.Element{Type: pagedoc.ElRule})
	add(pagedoc.Element{Type: pagedoc.ElSplit, Right: FormatDate(now, lang), Muted: true})
	add(pagedoc.Element{Type: pagedoc.ElSpacer, Height: 4})
	add(pagedoc.Element{Type: pagedoc.ElText, Text: body})
	add(pagedoc.Element{Type: pagedoc.ElSpacer, Height: 6})
	add(pagedoc.Element{Type: pagedoc.ElText, Text: closingFor(lang)})
	add(pagedoc.Element{Type: pagedoc.ElText, Bold: true, Text: pd.FullName()})
	return out, nil
}

func headerContact(pd model.PersonalData) string {
	var parts []string
	for _, s := range []string{pd.Email, pd.Phone, pd.City} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " · ")
}
