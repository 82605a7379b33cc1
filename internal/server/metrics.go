package server

import (
	"sync"
	"time"
)

// Metrics holds application metrics
type Metrics struct {
	mu sync.RWMutex

	// Upload metrics
	uploadsTotal        int64
	uploadBytesTotal    int64
	uploadErrorsTotal   int64
	uploadRejectedTotal int64
	uploadDurationTotal time.Duration

	// File view metrics
	viewsTotal        int64
	viewBytesTotal    int64
	viewErrorsTotal   int64
	viewDurationTotal time.Duration

	// System metrics
	requestsTotal        int64
	requestErrors5xx     int64
	requestErrors4xx     int64
	requestDurationTotal time.Duration
}

// RecordUpload records a stored upload
func (m *Metrics) RecordUpload(bytes int64, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadsTotal++
	m.uploadBytesTotal += bytes
	m.uploadDurationTotal += duration
}

// RecordUploadError records an upload that failed on our side
func (m *Metrics) RecordUploadError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadErrorsTotal++
}

// RecordUploadRejected records an upload refused for its type or size
func (m *Metrics) RecordUploadRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadRejectedTotal++
}

// RecordView records a file streamed to a client
func (m *Metrics) RecordView(bytes int64, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewsTotal++
	m.viewBytesTotal += bytes
	m.viewDurationTotal += duration
}

func (m *Metrics) RecordViewError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewErrorsTotal++
}

// RecordRequest records an HTTP request
func (m *Metrics) RecordRequest(statusCode int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestsTotal++
	m.requestDurationTotal += duration

	if statusCode >= 500 {
		m.requestErrors5xx++
	} else if statusCode >= 400 {
		m.requestErrors4xx++
	}
}

// Snapshot returns a snapshot of current metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return MetricsSnapshot{
		UploadsTotal:         m.uploadsTotal,
		UploadBytesTotal:     m.uploadBytesTotal,
		UploadErrorsTotal:    m.uploadErrorsTotal,
		UploadRejectedTotal:  m.uploadRejectedTotal,
		UploadAvgDurationMs:  avgDuration(m.uploadDurationTotal, m.uploadsTotal),
		ViewsTotal:           m.viewsTotal,
		ViewBytesTotal:       m.viewBytesTotal,
		ViewErrorsTotal:      m.viewErrorsTotal,
		ViewAvgDurationMs:    avgDuration(m.viewDurationTotal, m.viewsTotal),
		RequestsTotal:        m.requestsTotal,
		RequestErrors5xx:     m.requestErrors5xx,
		RequestErrors4xx:     m.requestErrors4xx,
		RequestAvgDurationMs: avgDuration(m.requestDurationTotal, m.requestsTotal),
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	UploadsTotal        int64   `json:"uploads_total"`
	UploadBytesTotal    int64   `json:"upload_bytes_total"`
	UploadErrorsTotal   int64   `json:"upload_errors_total"`
	UploadRejectedTotal int64   `json:"upload_rejected_total"`
	UploadAvgDurationMs float64 `json:"upload_avg_duration_ms"`

	ViewsTotal        int64   `json:"views_total"`
	ViewBytesTotal    int64   `json:"view_bytes_total"`
	ViewErrorsTotal   int64   `json:"view_errors_total"`
	ViewAvgDurationMs float64 `json:"view_avg_duration_ms"`

	RequestsTotal        int64   `json:"requests_total"`
	RequestErrors5xx     int64   `json:"request_errors_5xx"`
	RequestErrors4xx     int64   `json:"request_errors_4xx"`
	RequestAvgDurationMs float64 `json:"request_avg_duration_ms"`
}

func avgDuration(total time.Duration, count int64) float64 {
	if count == 0 {
		return 0
	}
	return float64(total.Milliseconds()) / float64(count)
}
