package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"chaincv/resume-analyzer/internal/models"
)

type AnalysisRepository interface {
	Create(analysis *models.Analysis) error
	FindLatestByResumeID(resumeID uuid.UUID) (*models.Analysis, error)
}

type analysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(analysis *models.Analysis) error {
	if err := r.db.Create(analysis).Error; err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

// FindLatestByResumeID returns the newest analysis for a resume.
// Reprocessing inserts a fresh row rather than updating in place.
func (r *analysisRepository) FindLatestByResumeID(resumeID uuid.UUID) (*models.Analysis, error) {
	var analysis models.Analysis
	err := r.db.
		Where("resume_id = ?", resumeID).
		Order("created_at DESC").
		First(&analysis).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("analysis not found")
		}
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}
	return &analysis, nil
}
