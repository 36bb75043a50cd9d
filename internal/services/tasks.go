package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"chaincv/resume-analyzer/internal/models"
	"chaincv/resume-analyzer/internal/repositories"
)

// TaskStatus tags an executor's terminal outcome. Executors never
// return Go errors to the scheduler: every domain failure completes
// with a Failure payload carrying its reason.
type TaskStatus string

const (
	TaskSuccess TaskStatus = "Success"
	TaskFailure TaskStatus = "Failure"
)

type LocateFilePathInput struct {
	ResumeID string
	OwnerKey string
}

type LocateFilePathResult struct {
	FilePath    string
	ResumeID    string
	FetchStatus TaskStatus
	Error       string
}

type ProcessResumeInput struct {
	FilePath string
	ResumeID string
}

type ProcessResumeResult struct {
	Status   TaskStatus
	Message  string
	ResumeID string
}

// TaskService holds the two idempotent units of pipeline work the
// scheduler dispatches.
type TaskService interface {
	LocateFilePath(ctx context.Context, input LocateFilePathInput) LocateFilePathResult
	ProcessResume(ctx context.Context, input ProcessResumeInput) ProcessResumeResult
}

type taskService struct {
	resumeRepo   repositories.ResumeRepository
	analysisRepo repositories.AnalysisRepository
	pdfParser    PDFParserService
	analyzer     AnalyzerService
}

func NewTaskService(
	resumeRepo repositories.ResumeRepository,
	analysisRepo repositories.AnalysisRepository,
	pdfParser PDFParserService,
	analyzer AnalyzerService,
) TaskService {
	return &taskService{
		resumeRepo:   resumeRepo,
		analysisRepo: analysisRepo,
		pdfParser:    pdfParser,
		analyzer:     analyzer,
	}
}

// LocateFilePath implements TaskService. Read-only: it resolves the
// stored file path for a resume by id or owner key and performs no
// writes whatsoever.
func (t *taskService) LocateFilePath(ctx context.Context, input LocateFilePathInput) LocateFilePathResult {
	if input.ResumeID == "" && input.OwnerKey == "" {
		return LocateFilePathResult{
			ResumeID:    input.ResumeID,
			FetchStatus: TaskFailure,
			Error:       "resumeId or ownerKey is required to locate file path",
		}
	}

	var (
		resume *models.Resume
		err    error
	)

	if input.ResumeID != "" {
		id, parseErr := uuid.Parse(input.ResumeID)
		if parseErr != nil {
			return LocateFilePathResult{
				ResumeID:    input.ResumeID,
				FetchStatus: TaskFailure,
				Error:       fmt.Sprintf("invalid resume id: %s", input.ResumeID),
			}
		}
		resume, err = t.resumeRepo.FindByID(id)
	} else {
		resume, err = t.resumeRepo.FindByOwnerKey(input.OwnerKey)
	}

	if err != nil || resume == nil || resume.FilePath == "" {
		return LocateFilePathResult{
			ResumeID:    input.ResumeID,
			FetchStatus: TaskFailure,
			Error: fmt.Sprintf("no resume found or file path missing for resumeId: %s or ownerKey: %s",
				input.ResumeID, input.OwnerKey),
		}
	}

	return LocateFilePathResult{
		FilePath:    resume.FilePath,
		ResumeID:    resume.ID.String(),
		FetchStatus: TaskSuccess,
	}
}

// ProcessResume implements TaskService. It runs the whole
// extraction → analysis → persistence chain for one resume and always
// reaches a terminal outcome. The analysis row is written strictly
// before the COMPLETED flip so a poller can never observe COMPLETED
// without a fetchable analysis.
func (t *taskService) ProcessResume(ctx context.Context, input ProcessResumeInput) ProcessResumeResult {
	resumeID, err := uuid.Parse(input.ResumeID)
	if err != nil {
		return ProcessResumeResult{
			Status:   TaskFailure,
			Message:  fmt.Sprintf("Resume processing failed: invalid resume id: %s", input.ResumeID),
			ResumeID: input.ResumeID,
		}
	}

	if err := t.resumeRepo.MarkProcessing(resumeID); err != nil {
		log.Printf("⚠️  Failed to mark resume %s as processing: %v\n", resumeID, err)
	}

	if input.FilePath == "" {
		return t.fail(resumeID, fmt.Sprintf("File not found at path: %s", input.FilePath))
	}
	if _, err := os.Stat(input.FilePath); err != nil {
		return t.fail(resumeID, fmt.Sprintf("File not found at path: %s", input.FilePath))
	}

	text, err := t.pdfParser.ExtractText(input.FilePath)
	if err != nil {
		return t.fail(resumeID, fmt.Sprintf("text extraction failed: %v", err))
	}
	if strings.TrimSpace(text) == "" {
		return t.fail(resumeID, "PDF text extraction returned empty content")
	}

	analysisData, err := t.analyzer.AnalyzeResume(ctx, text)
	if err != nil {
		return t.fail(resumeID, err.Error())
	}

	analysis := &models.Analysis{
		ID:           uuid.New(),
		ResumeID:     resumeID,
		AnalysisData: *analysisData,
	}
	if err := t.analysisRepo.Create(analysis); err != nil {
		return t.fail(resumeID, fmt.Sprintf("failed to save analysis: %v", err))
	}

	if err := t.resumeRepo.MarkCompleted(resumeID); err != nil {
		return t.fail(resumeID, fmt.Sprintf("failed to record completion: %v", err))
	}

	return ProcessResumeResult{
		Status:   TaskSuccess,
		Message:  "Resume processed and saved successfully",
		ResumeID: input.ResumeID,
	}
}

// fail records the terminal FAILED state and builds the Failure payload.
// A store error while recording the failure is swallowed: it must never
// mask the original failure reason returned to the caller.
func (t *taskService) fail(resumeID uuid.UUID, reason string) ProcessResumeResult {
	if err := t.resumeRepo.MarkFailed(resumeID, reason); err != nil {
		log.Printf("⚠️  Failed to record failure for resume %s: %v\n", resumeID, err)
	}

	return ProcessResumeResult{
		Status:   TaskFailure,
		Message:  fmt.Sprintf("Resume processing failed: %s", reason),
		ResumeID: resumeID.String(),
	}
}
