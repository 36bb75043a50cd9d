package models

// Poll statuses returned by the status endpoint. UPLOADED and PROCESSING
// both surface as PENDING; the client only acts on the terminal two.
const (
	PollStatusPending   = "PENDING"
	PollStatusCompleted = "COMPLETED"
	PollStatusFailed    = "FAILED"
)

type UploadResponse struct {
	ID           string `json:"id"`
	OriginalName string `json:"original_name"`
	Status       string `json:"status"`
}

type StatusResponse struct {
	Status  string        `json:"status"`
	Data    *AnalysisData `json:"data,omitempty"`
	Message *string       `json:"message,omitempty"`
}
