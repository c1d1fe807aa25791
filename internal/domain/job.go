package domain

import (
	"time"

	"github.com/google/uuid"
)

// Export artifact kinds.
const (
	KindPNG       = "png"
	KindPDFRaster = "pdf-raster"
	KindPDFNative = "pdf-native"
	KindLetterPDF = "letter-pdf"
	KindSnapshot  = "json"
)

// Export job statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ExportJob records one export run: what was produced, from which template,
// and where the artifact landed.
type ExportJob struct {
	ID        uuid.UUID              `json:"id"`
	UserID    string                 `json:"user_id,omitempty"`
	Kind      string                 `json:"kind"`
	Template  string                 `json:"template"`
	Status    string                 `json:"status"`
	Artifact  string                 `json:"artifact,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// NewExportJob creates a pending job for one export run.
func NewExportJob(kind, template, userID string) *ExportJob {
	now := time.Now()
	return &ExportJob{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      kind,
		Template:  template,
		Status:    StatusPending,
		Metadata:  map[string]interface{}{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
