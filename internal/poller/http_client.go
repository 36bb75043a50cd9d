package poller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chaincv/resume-analyzer/internal/models"
)

// APIClient talks to the resume analyzer's HTTP API. It implements
// StatusClient so it can drive a Poller directly.
type APIClient struct {
	baseURL string
	httpc   *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// UploadResume posts the file as multipart form data and returns the
// created resume's id.
func (c *APIClient) UploadResume(ctx context.Context, filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open resume file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("resume", filepath.Base(filePath))
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read resume file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/upload", &body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("upload rejected with status %d", resp.StatusCode)
	}

	var uploaded models.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if uploaded.ID == "" {
		return "", fmt.Errorf("upload response missing resume id")
	}

	return uploaded.ID, nil
}

// GetStatus implements StatusClient.
func (c *APIClient) GetStatus(ctx context.Context, resumeID string) (StatusResult, error) {
	url := fmt.Sprintf("%s/api/v1/resume/%s/status", c.baseURL, resumeID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return StatusResult{}, fmt.Errorf("failed to build status request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return StatusResult{}, fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return StatusResult{}, fmt.Errorf("status request returned %d", resp.StatusCode)
	}

	var status models.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return StatusResult{}, fmt.Errorf("failed to decode status response: %w", err)
	}

	result := StatusResult{
		Status: status.Status,
		Data:   status.Data,
	}
	if status.Message != nil {
		result.Message = *status.Message
	}
	return result, nil
}
