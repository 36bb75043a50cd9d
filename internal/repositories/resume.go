package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"chaincv/resume-analyzer/internal/models"
)

type ResumeRepository interface {
	Create(resume *models.Resume) error
	FindByID(id uuid.UUID) (*models.Resume, error)
	FindByOwnerKey(ownerKey string) (*models.Resume, error)
	FindUploaded(limit int) ([]models.Resume, error)
	MarkProcessing(id uuid.UUID) error
	MarkCompleted(id uuid.UUID) error
	MarkFailed(id uuid.UUID, errorMsg string) error
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) Create(resume *models.Resume) error {
	if err := r.db.Create(resume).Error; err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

func (r *resumeRepository) FindByID(id uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.Where("id = ?", id).First(&resume).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("resume not found")
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return &resume, nil
}

func (r *resumeRepository) FindByOwnerKey(ownerKey string) (*models.Resume, error) {
	var resume models.Resume
	err := r.db.
		Where("owner_key = ?", ownerKey).
		Order("upload_date DESC").
		First(&resume).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("resume not found")
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return &resume, nil
}

// FindUploaded returns resumes still waiting for a processing slot,
// oldest first. The worker's poll loop uses this to recover jobs that
// never made it into the in-memory queue.
func (r *resumeRepository) FindUploaded(limit int) ([]models.Resume, error) {
	var resumes []models.Resume
	err := r.db.
		Where("status = ?", models.StatusUploaded).
		Order("upload_date ASC").
		Limit(limit).
		Find(&resumes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find uploaded resumes: %w", err)
	}
	return resumes, nil
}

func (r *resumeRepository) MarkProcessing(id uuid.UUID) error {
	result := r.db.Model(&models.Resume{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status": models.StatusProcessing,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to mark processing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("resume not found")
	}
	return nil
}

func (r *resumeRepository) MarkCompleted(id uuid.UUID) error {
	result := r.db.Model(&models.Resume{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.StatusCompleted,
			"completed_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to mark completed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("resume not found")
	}
	return nil
}

func (r *resumeRepository) MarkFailed(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.Resume{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":    models.StatusFailed,
			"error":     errorMsg,
			"failed_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to mark failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("resume not found")
	}
	return nil
}
