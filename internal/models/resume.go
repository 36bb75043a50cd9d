package models

import (
	"time"

	"github.com/google/uuid"
)

type ResumeStatus string

const (
	StatusUploaded   ResumeStatus = "UPLOADED"
	StatusProcessing ResumeStatus = "PROCESSING"
	StatusCompleted  ResumeStatus = "COMPLETED"
	StatusFailed     ResumeStatus = "FAILED"
)

// Resume is the lifecycle record for one uploaded document. The pipeline
// is the single writer of Status; OriginalName and FilePath are set at
// ingestion and never change.
type Resume struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OriginalName string       `gorm:"type:text" json:"original_name"`
	Filename     string       `gorm:"type:text" json:"filename"`
	FilePath     string       `gorm:"type:text" json:"file_path"`
	OwnerKey     string       `gorm:"type:text;index" json:"owner_key,omitempty"`
	Status       ResumeStatus `gorm:"type:text;not null;default:'UPLOADED'" json:"status"`
	Error        *string      `gorm:"type:text" json:"error,omitempty"`
	UploadDate   time.Time    `gorm:"type:timestamp;default:now()" json:"upload_date"`
	CompletedAt  *time.Time   `gorm:"type:timestamp" json:"completed_at,omitempty"`
	FailedAt     *time.Time   `gorm:"type:timestamp" json:"failed_at,omitempty"`
}

func (r *Resume) TableName() string {
	return "resumes"
}

// Terminal reports whether no further automatic transition will occur.
func (s ResumeStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}
