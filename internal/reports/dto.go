package reports

import (
	"time"

	"github.com/google/uuid"

	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
)

// PresignRequest asks for a one-time upload URL.
type PresignRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required"`
	SizeBytes   int64  `json:"size_bytes" validate:"required,gt=0"`
}

// PresignResponse carries the signed upload URL and the object path the
// client must echo back when registering the report.
type PresignResponse struct {
	UploadURL  string    `json:"upload_url"`
	ObjectPath string    `json:"object_path"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// CreateRequest registers an uploaded report.
type CreateRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	ReportType  string     `json:"report_type" validate:"required,max=60"`
	ObjectPath  string     `json:"object_path" validate:"required"`
	ContentType string     `json:"content_type" validate:"required"`
	SizeBytes   int64      `json:"size_bytes" validate:"required,gt=0"`
	ReportDate  *time.Time `json:"report_date,omitempty"`
}

// ReportDTO is the transport shape of a report row. DownloadURL is signed
// per response and short-lived.
type ReportDTO struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	ReportType  string     `json:"report_type"`
	ContentType string     `json:"content_type"`
	SizeBytes   int64      `json:"size_bytes"`
	ReportDate  *time.Time `json:"report_date,omitempty"`
	DownloadURL string     `json:"download_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// FromModel converts a persisted row to the external DTO.
func FromModel(m *models.Report) *ReportDTO {
	if m == nil {
		return nil
	}
	return &ReportDTO{
		ID:          m.ID,
		Title:       m.Title,
		ReportType:  m.ReportType,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		ReportDate:  m.ReportDate,
		CreatedAt:   m.CreatedAt,
	}
}
