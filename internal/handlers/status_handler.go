package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"chaincv/resume-analyzer/internal/models"
	"chaincv/resume-analyzer/internal/repositories"
)

type StatusHandler struct {
	resumeRepo   repositories.ResumeRepository
	analysisRepo repositories.AnalysisRepository
}

func NewStatusHandler(
	resumeRepo repositories.ResumeRepository,
	analysisRepo repositories.AnalysisRepository,
) *StatusHandler {
	return &StatusHandler{
		resumeRepo:   resumeRepo,
		analysisRepo: analysisRepo,
	}
}

// HandleGetStatus handles GET /resume/:id/status, the polling contract:
// PENDING until a terminal state, COMPLETED with the analysis payload,
// FAILED with the recorded error message.
func (h *StatusHandler) HandleGetStatus(c *fiber.Ctx) error {
	idParam := c.Params("id")
	resumeID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid resume ID format",
		})
	}

	resume, err := h.resumeRepo.FindByID(resumeID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Resume not found",
		})
	}

	switch resume.Status {
	case models.StatusCompleted:
		analysis, err := h.analysisRepo.FindLatestByResumeID(resumeID)
		if err != nil {
			// COMPLETED is only ever written after the analysis
			// row, so this is an internal fault, never PENDING.
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Analysis missing for completed resume",
			})
		}
		return c.JSON(models.StatusResponse{
			Status: models.PollStatusCompleted,
			Data:   &analysis.AnalysisData,
		})

	case models.StatusFailed:
		message := "Resume processing failed"
		if resume.Error != nil && *resume.Error != "" {
			message = *resume.Error
		}
		return c.JSON(models.StatusResponse{
			Status:  models.PollStatusFailed,
			Message: &message,
		})

	default:
		// UPLOADED and PROCESSING both read as PENDING
		return c.JSON(models.StatusResponse{
			Status: models.PollStatusPending,
		})
	}
}
