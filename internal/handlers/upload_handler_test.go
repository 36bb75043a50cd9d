package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"chaincv/resume-analyzer/internal/models"
)

type recordingResumeRepo struct {
	stubResumeRepo
	created []*models.Resume
}

func (r *recordingResumeRepo) Create(resume *models.Resume) error {
	r.created = append(r.created, resume)
	return nil
}

type stubStorage struct {
	saved int
}

func (s *stubStorage) SaveResume(file *multipart.FileHeader) (string, string, error) {
	s.saved++
	return "resume_stub.pdf", "/uploads/resume_stub.pdf", nil
}

func (s *stubStorage) GetFilePath(filename string) string { return "/uploads/" + filename }
func (s *stubStorage) DeleteFile(filename string) error   { return nil }
func (s *stubStorage) EnsureUploadDir() error             { return nil }

type stubWorker struct {
	enqueued []uuid.UUID
}

func (w *stubWorker) Start(ctx context.Context)        {}
func (w *stubWorker) Stop()                            {}
func (w *stubWorker) EnqueueResume(resumeID uuid.UUID) { w.enqueued = append(w.enqueued, resumeID) }

func newUploadApp(repo *recordingResumeRepo, storage *stubStorage, worker *stubWorker) *fiber.App {
	app := fiber.New()
	handler := NewUploadHandler(repo, storage, worker, 1<<20)
	app.Post("/api/v1/upload", handler.HandleUpload)
	return app
}

func multipartResume(t *testing.T, fieldName string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(fieldName, "my_resume.pdf")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write([]byte("%PDF-1.4 stub")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func TestUploadCreatesResumeAndEnqueuesWorkflow(t *testing.T) {
	repo := &recordingResumeRepo{}
	storage := &stubStorage{}
	worker := &stubWorker{}
	app := newUploadApp(repo, storage, worker)

	body, contentType := multipartResume(t, "resume")
	req := httptest.NewRequest("POST", "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status code = %d, want 201", resp.StatusCode)
	}

	var uploaded models.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if uploaded.Status != string(models.StatusUploaded) {
		t.Errorf("response status = %s, want UPLOADED", uploaded.Status)
	}
	if uploaded.OriginalName != "my_resume.pdf" {
		t.Errorf("original name = %s", uploaded.OriginalName)
	}

	if len(repo.created) != 1 {
		t.Fatalf("resumes created = %d, want 1", len(repo.created))
	}
	resume := repo.created[0]
	if resume.Status != models.StatusUploaded {
		t.Errorf("stored status = %s, want UPLOADED", resume.Status)
	}
	if resume.FilePath != "/uploads/resume_stub.pdf" {
		t.Errorf("stored file path = %s", resume.FilePath)
	}

	if len(worker.enqueued) != 1 || worker.enqueued[0] != resume.ID {
		t.Errorf("enqueued = %v, want the created resume id %s", worker.enqueued, resume.ID)
	}
}

func TestUploadRequiresResumeFile(t *testing.T) {
	repo := &recordingResumeRepo{}
	worker := &stubWorker{}
	app := newUploadApp(repo, &stubStorage{}, worker)

	body, contentType := multipartResume(t, "attachment")
	req := httptest.NewRequest("POST", "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status code = %d, want 400", resp.StatusCode)
	}
	if len(repo.created) != 0 || len(worker.enqueued) != 0 {
		t.Error("nothing should be created or enqueued without a resume file")
	}
}
