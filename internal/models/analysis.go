package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnalysisData is the fixed shape recovered from the model's response.
type AnalysisData struct {
	Summary             string   `json:"summary"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areasForImprovement"`
	OverallScore        int      `json:"overallScore"`
}

func (a AnalysisData) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *AnalysisData) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported type for analysis data: %T", value)
	}
}

// Analysis stores one generated feedback object. Analyses are always
// looked up through the Resume's id; a Resume may accumulate more than
// one row on reprocessing, the newest wins.
type Analysis struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResumeID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"resume_id"`
	AnalysisData AnalysisData `gorm:"type:jsonb;not null" json:"analysis_data"`
	CreatedAt    time.Time    `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (a *Analysis) TableName() string {
	return "analyses"
}
