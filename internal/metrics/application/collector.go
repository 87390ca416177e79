package application

import (
	"fmt"
	"sync"
	"time"

	alertdomain "github.com/gsihag/immigration-ai-saas/internal/alerting/domain"
	"github.com/gsihag/immigration-ai-saas/internal/metrics/domain"
	sharedlogger "github.com/gsihag/immigration-ai-saas/internal/shared/logger"
	"github.com/gsihag/immigration-ai-saas/pkg/utils"
)

// Alerting thresholds evaluated over the trailing hour. A rate or
// latency must strictly exceed the threshold to trigger, and strictly
// exceed the critical cut to escalate.
const (
	errorRatePercentThreshold = 5.0
	errorRatePercentCritical  = 10.0
	slowResponseThresholdMs   = 2000.0
	slowResponseCriticalMs    = 5000.0

	alertWindow = time.Hour
)

// Collector accumulates usage and performance data for the platform.
// All mutations and summary reads serialize through one mutex; the
// workload is low-volume bookkeeping invoked from request-handling
// contexts.
type Collector struct {
	logger sharedlogger.Logger

	mu          sync.Mutex
	requests    map[string][]domain.RequestSample
	requestKeys []string
	activity    map[string][]domain.ActivitySample
	uploads     []domain.UploadSample
	chats       []domain.ChatSample
	counters    map[string]int64
	activeUsers map[string]struct{}

	now func() time.Time
}

// NewCollector creates an empty metrics collector
func NewCollector(logger sharedlogger.Logger) *Collector {
	return &Collector{
		logger:      logger,
		requests:    make(map[string][]domain.RequestSample),
		activity:    make(map[string][]domain.ActivitySample),
		counters:    make(map[string]int64),
		activeUsers: make(map[string]struct{}),
		now:         time.Now,
	}
}

// RecordRequest records one API request observation keyed by
// METHOD:endpoint. Requests with status >= 400 also count as errors.
func (c *Collector) RecordRequest(endpoint, method string, responseTimeMs float64, statusCode int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := method + ":" + endpoint
	if _, seen := c.requests[key]; !seen {
		c.requestKeys = append(c.requestKeys, key)
	}

	c.requests[key] = append(c.requests[key], domain.RequestSample{
		ResponseTimeMs: responseTimeMs,
		StatusCode:     statusCode,
		Timestamp:      c.now(),
	})
	if len(c.requests[key]) > domain.MaxEntriesPerCategory {
		c.requests[key] = c.requests[key][1:]
	}

	c.counters[domain.CounterRequests+":"+key]++
	if statusCode >= 400 {
		c.counters[domain.CounterErrors+":"+key]++
	}
}

// RecordUserActivity adds the user to the lifetime active-user set and
// counts the activity. Repeat activity from the same user counts once
// toward the active-user figure.
func (c *Collector) RecordUserActivity(userID, activity string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.activeUsers[userID] = struct{}{}
	c.counters[domain.CounterActivity+":"+activity]++

	c.activity[activity] = append(c.activity[activity], domain.ActivitySample{
		UserID:    userID,
		Timestamp: c.now(),
	})
	if len(c.activity[activity]) > domain.MaxEntriesPerCategory {
		c.activity[activity] = c.activity[activity][1:]
	}
}

// RecordDocumentUpload records one document upload observation
func (c *Collector) RecordDocumentUpload(fileSizeBytes int64, fileType string, processingTimeMs float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.uploads = append(c.uploads, domain.UploadSample{
		FileSizeBytes:    fileSizeBytes,
		FileType:         fileType,
		ProcessingTimeMs: processingTimeMs,
		Timestamp:        c.now(),
	})
	if len(c.uploads) > domain.MaxEntriesPerCategory {
		c.uploads = c.uploads[1:]
	}

	c.counters[domain.CounterUploads+":"+fileType]++
}

// RecordChatInteraction records one chat interaction observation
func (c *Collector) RecordChatInteraction(responseTimeMs float64, isAIResponse bool, satisfaction *int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.chats = append(c.chats, domain.ChatSample{
		ResponseTimeMs: responseTimeMs,
		IsAIResponse:   isAIResponse,
		Satisfaction:   satisfaction,
		Timestamp:      c.now(),
	})
	if len(c.chats) > domain.MaxEntriesPerCategory {
		c.chats = c.chats[1:]
	}

	if isAIResponse {
		c.counters[domain.CounterAIResponses]++
	} else {
		c.counters[domain.CounterHumanResponses]++
	}
}

// Summary aggregates the collected metrics over the given window.
// Endpoints with no in-window samples are omitted from both response
// times and error rates.
func (c *Collector) Summary(window time.Duration) domain.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	cutoff := now.Add(-window)

	responseTimes := make(map[string]domain.EndpointStats)
	errorRates := make(map[string]float64)
	for _, key := range c.requestKeys {
		var (
			count int
			sum   float64
			minMs float64
			maxMs float64
		)
		for _, sample := range c.requests[key] {
			if !sample.Timestamp.After(cutoff) {
				continue
			}
			if count == 0 || sample.ResponseTimeMs < minMs {
				minMs = sample.ResponseTimeMs
			}
			if count == 0 || sample.ResponseTimeMs > maxMs {
				maxMs = sample.ResponseTimeMs
			}
			sum += sample.ResponseTimeMs
			count++
		}
		if count == 0 {
			continue
		}

		responseTimes[key] = domain.EndpointStats{
			AvgMs: utils.Round2(sum / float64(count)),
			MinMs: utils.Round2(minMs),
			MaxMs: utils.Round2(maxMs),
			Count: count,
		}

		totalRequests := c.counters[domain.CounterRequests+":"+key]
		totalErrors := c.counters[domain.CounterErrors+":"+key]
		if totalRequests > 0 {
			errorRates[key] = utils.Round2(float64(totalErrors) / float64(totalRequests) * 100)
		}
	}

	var uploadStats *domain.UploadStats
	var totalSize int64
	var processingSum float64
	uploadCount := 0
	for _, upload := range c.uploads {
		if !upload.Timestamp.After(cutoff) {
			continue
		}
		totalSize += upload.FileSizeBytes
		processingSum += upload.ProcessingTimeMs
		uploadCount++
	}
	if uploadCount > 0 {
		uploadStats = &domain.UploadStats{
			TotalUploads:    uploadCount,
			TotalSizeMB:     utils.Round2(utils.BytesToMB(totalSize)),
			AvgProcessingMs: utils.Round2(processingSum / float64(uploadCount)),
		}
	}

	var chatStats *domain.ChatStats
	var (
		chatCount        int
		aiCount          int
		responseSum      float64
		satisfactionSum  int
		satisfactionSeen int
	)
	for _, chat := range c.chats {
		if !chat.Timestamp.After(cutoff) {
			continue
		}
		chatCount++
		if chat.IsAIResponse {
			aiCount++
		}
		responseSum += chat.ResponseTimeMs
		if chat.Satisfaction != nil {
			satisfactionSum += *chat.Satisfaction
			satisfactionSeen++
		}
	}
	if chatCount > 0 {
		chatStats = &domain.ChatStats{
			TotalInteractions: chatCount,
			AIResponseRate:    utils.Round2(float64(aiCount) / float64(chatCount) * 100),
			AvgResponseMs:     utils.Round2(responseSum / float64(chatCount)),
		}
		if satisfactionSeen > 0 {
			avg := utils.Round2(float64(satisfactionSum) / float64(satisfactionSeen))
			chatStats.AvgSatisfaction = &avg
		}
	}

	counters := make(map[string]int64, len(c.counters))
	for k, v := range c.counters {
		counters[k] = v
	}

	return domain.Summary{
		Timestamp:     now,
		PeriodHours:   window.Hours(),
		ActiveUsers:   len(c.activeUsers),
		ResponseTimes: responseTimes,
		ErrorRates:    errorRates,
		UploadStats:   uploadStats,
		ChatStats:     chatStats,
		Counters:      counters,
	}
}

// Alerts evaluates the trailing hour against the alerting thresholds.
// Endpoints are visited in first-seen order, error-rate alerts before
// slow-response alerts.
func (c *Collector) Alerts() []alertdomain.Alert {
	summary := c.Summary(alertWindow)

	c.mu.Lock()
	keys := make([]string, len(c.requestKeys))
	copy(keys, c.requestKeys)
	c.mu.Unlock()

	var alerts []alertdomain.Alert

	for _, key := range keys {
		rate, ok := summary.ErrorRates[key]
		if !ok || rate <= errorRatePercentThreshold {
			continue
		}
		severity := alertdomain.SeverityWarning
		if rate > errorRatePercentCritical {
			severity = alertdomain.SeverityCritical
		}
		alert := alertdomain.NewAlert(
			alertdomain.TypeHighErrorRate,
			severity,
			fmt.Sprintf("High error rate on %s: %v%%", key, rate),
		)
		alert.Endpoint = key
		alert.Value = rate
		alerts = append(alerts, alert)
	}

	for _, key := range keys {
		stats, ok := summary.ResponseTimes[key]
		if !ok || stats.AvgMs <= slowResponseThresholdMs {
			continue
		}
		severity := alertdomain.SeverityWarning
		if stats.AvgMs > slowResponseCriticalMs {
			severity = alertdomain.SeverityCritical
		}
		alert := alertdomain.NewAlert(
			alertdomain.TypeSlowResponse,
			severity,
			fmt.Sprintf("Slow response time on %s: %vms", key, stats.AvgMs),
		)
		alert.Endpoint = key
		alert.Value = stats.AvgMs
		alerts = append(alerts, alert)
	}

	if len(alerts) > 0 && c.logger != nil {
		c.logger.Debug("Metric thresholds exceeded", "alert_count", len(alerts))
	}

	return alerts
}
