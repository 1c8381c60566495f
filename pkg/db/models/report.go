package models

import (
	"time"

	"github.com/google/uuid"
)

// Report is a medical document uploaded by a user. The binary lives in
// object storage; ObjectPath is the bucket-relative key.
type Report struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	Title       string     `gorm:"column:title;type:text;not null"`
	ReportType  string     `gorm:"column:report_type;type:text;not null"`
	ObjectPath  string     `gorm:"column:object_path;type:text;not null"`
	ContentType string     `gorm:"column:content_type;type:text;not null"`
	SizeBytes   int64      `gorm:"column:size_bytes;not null"`
	ReportDate  *time.Time `gorm:"column:report_date;type:date"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
