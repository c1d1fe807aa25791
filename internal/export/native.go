package export

import (
	"fmt"

	"cv-builder/internal/model"
	"cv-builder/internal/render/pagedoc"
)

// NativePDF produces the paginated vector PDF for doc. Every call builds a
// fresh document and a fresh PDF writer, so a preview render and a download
// render of the same document never share mutable state.
func NativePDF(doc *model.Document) ([]byte, error) {
	built, err := pagedoc.BuildCV(doc)
	if err != nil {
		return nil, fmt.Errorf("export: building native document: %w", err)
	}
	blob, err := pagedoc.Render(built)
	if err != nil {
		return nil, fmt.Errorf("export: rendering native PDF: %w", err)
	}
	return blob, nil
}
