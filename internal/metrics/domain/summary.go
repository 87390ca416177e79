package domain

import "time"

// EndpointStats aggregates response times for one METHOD:endpoint key
// over the summary window
type EndpointStats struct {
	AvgMs float64 `json:"avg_ms"`
	MinMs float64 `json:"min_ms"`
	MaxMs float64 `json:"max_ms"`
	Count int     `json:"count"`
}

// UploadStats aggregates document uploads over the summary window
type UploadStats struct {
	TotalUploads    int     `json:"total_uploads"`
	TotalSizeMB     float64 `json:"total_size_mb"`
	AvgProcessingMs float64 `json:"avg_processing_time_ms"`
}

// ChatStats aggregates chat interactions over the summary window.
// AvgSatisfaction is nil when no sample in the window reported a score.
type ChatStats struct {
	TotalInteractions int      `json:"total_interactions"`
	AIResponseRate    float64  `json:"ai_response_rate"`
	AvgResponseMs     float64  `json:"avg_response_time_ms"`
	AvgSatisfaction   *float64 `json:"avg_satisfaction"`
}

// Summary is the aggregated metrics view for a time window.
// ActiveUsers counts every user seen since process start, not just the
// window; all other figures are window-filtered.
type Summary struct {
	Timestamp     time.Time                `json:"timestamp"`
	PeriodHours   float64                  `json:"period_hours"`
	ActiveUsers   int                      `json:"active_users"`
	ResponseTimes map[string]EndpointStats `json:"response_times"`
	ErrorRates    map[string]float64       `json:"error_rates"`
	UploadStats   *UploadStats             `json:"upload_stats,omitempty"`
	ChatStats     *ChatStats               `json:"chat_stats,omitempty"`
	Counters      map[string]int64         `json:"system_counters"`
}
