package model

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

// SnapshotVersion is written into exported snapshots.
const SnapshotVersion = "1.0"

// Snapshot is the persisted/exported JSON layout. It is the unit of backup:
// export produces one, import consumes one.
type Snapshot struct {
	CVData          json.RawMessage `json:"cvData"`
	SectionConfig   SectionConfig   `json:"sectionConfig,omitempty"`
	CurrentTemplate string          `json:"currentTemplate,omitempty"`
	ExportDate      string          `json:"exportDate,omitempty"`
	Version         string          `json:"version,omitempty"`
}

//go:embed cv.schema.json
var snapshotSchema []byte

// ExportSnapshot serializes the document into the snapshot layout.
func ExportSnapshot(d *Document) ([]byte, error) {
	raw, err := json.Marshal(d.CVData)
	if err != nil {
		return nil, err
	}
	snap := Snapshot{
		CVData:          raw,
		SectionConfig:   d.SectionConfig,
		CurrentTemplate: d.CurrentTemplate,
		ExportDate:      time.Now().UTC().Format(time.RFC3339),
		Version:         SnapshotVersion,
	}
	return json.MarshalIndent(snap, "", "  ")
}

// ImportSnapshot parses and validates a snapshot and builds a replacement
// document. cvData must be present; every other field defaults silently.
// No partial state is produced: either a complete document is returned or an
// error and the caller keeps its current one.
func ImportSnapshot(data []byte) (*Document, error) {
	if err := validateSnapshot(data); err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if len(snap.CVData) == 0 {
		return nil, fmt.Errorf("snapshot is missing cvData")
	}

	doc := NewDocument()
	if err := json.Unmarshal(snap.CVData, &doc.CVData); err != nil {
		return nil, fmt.Errorf("parsing cvData: %w", err)
	}
	if snap.SectionConfig != nil {
		doc.SectionConfig = snap.SectionConfig.Clone()
	}
	doc.SectionConfig.Normalize()
	if snap.CurrentTemplate != "" {
		doc.CurrentTemplate = snap.CurrentTemplate
	}
	return doc, nil
}

// validateSnapshot checks the raw bytes against cv.schema.json.
func validateSnapshot(data []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(snapshotSchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("snapshot is not valid JSON: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("snapshot validation failed: %s", strings.Join(msgs, "; "))
}
