package domain

import "time"

// MaxEntriesPerCategory caps the sample history kept per category key.
// When the cap is exceeded the oldest sample is evicted first.
const MaxEntriesPerCategory = 1000

// Counter key prefixes
const (
	CounterRequests       = "requests"
	CounterErrors         = "errors"
	CounterActivity       = "activity"
	CounterUploads        = "uploads"
	CounterAIResponses    = "ai_responses"
	CounterHumanResponses = "human_responses"
)

// RequestSample records one observed API request
type RequestSample struct {
	ResponseTimeMs float64   `json:"response_time_ms"`
	StatusCode     int       `json:"status_code"`
	Timestamp      time.Time `json:"timestamp"`
}

// ActivitySample records one user activity event
type ActivitySample struct {
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// UploadSample records one document upload
type UploadSample struct {
	FileSizeBytes    int64     `json:"file_size_bytes"`
	FileType         string    `json:"file_type"`
	ProcessingTimeMs float64   `json:"processing_time_ms"`
	Timestamp        time.Time `json:"timestamp"`
}

// ChatSample records one chat interaction. Satisfaction is optional;
// only samples that report one contribute to the satisfaction average.
type ChatSample struct {
	ResponseTimeMs float64   `json:"response_time_ms"`
	IsAIResponse   bool      `json:"is_ai_response"`
	Satisfaction   *int      `json:"satisfaction,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}
