// prometheus.go - Prometheus text exposition of the in-process counters.
package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

const metricPrefix = "projectdesk_"

type promWriter struct {
	strings.Builder
}

func (p *promWriter) metric(name, kind, help string, value any) {
	fmt.Fprintf(&p.Builder, "# HELP %s%s %s\n", metricPrefix, name, help)
	fmt.Fprintf(&p.Builder, "# TYPE %s%s %s\n", metricPrefix, name, kind)
	fmt.Fprintf(&p.Builder, "%s%s %v\n\n", metricPrefix, name, value)
}

// handleMetrics serves GET /metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	snap := s.metrics.Snapshot()
	var out promWriter

	fmt.Fprintf(&out, "# HELP %sinfo Application version info\n", metricPrefix)
	fmt.Fprintf(&out, "# TYPE %sinfo gauge\n", metricPrefix)
	fmt.Fprintf(&out, "%sinfo{version=\"%s\",commit=\"%s\"} 1\n\n", metricPrefix,
		prometheusLabel(orDefault(s.build.Version, "dev")), prometheusLabel(s.build.Commit))

	out.metric("requests_total", "counter", "Total number of HTTP requests", snap.RequestsTotal)
	fmt.Fprintf(&out, "# HELP %srequest_errors_total HTTP responses with an error status\n", metricPrefix)
	fmt.Fprintf(&out, "# TYPE %srequest_errors_total counter\n", metricPrefix)
	fmt.Fprintf(&out, "%srequest_errors_total{class=\"4xx\"} %d\n", metricPrefix, snap.RequestErrors4xx)
	fmt.Fprintf(&out, "%srequest_errors_total{class=\"5xx\"} %d\n\n", metricPrefix, snap.RequestErrors5xx)
	out.metric("request_avg_duration_ms", "gauge", "Mean request duration in milliseconds", snap.RequestAvgDurationMs)

	out.metric("uploads_total", "counter", "Total number of stored uploads", snap.UploadsTotal)
	out.metric("upload_bytes_total", "counter", "Bytes received in stored uploads", snap.UploadBytesTotal)
	out.metric("upload_errors_total", "counter", "Uploads that failed while storing", snap.UploadErrorsTotal)
	out.metric("upload_rejected_total", "counter", "Uploads refused for type or size", snap.UploadRejectedTotal)

	out.metric("file_views_total", "counter", "Total number of files streamed", snap.ViewsTotal)
	out.metric("file_view_bytes_total", "counter", "Bytes streamed to clients", snap.ViewBytesTotal)
	out.metric("file_view_errors_total", "counter", "File views that failed", snap.ViewErrorsTotal)

	out.metric("uptime_seconds", "counter", "Application uptime in seconds",
		fmt.Sprintf("%.0f", time.Since(s.started).Seconds()))

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out.String()))
}

// prometheusLabel escapes a label value.
func prometheusLabel(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	value = strings.ReplaceAll(value, "\n", "\\n")
	return value
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
