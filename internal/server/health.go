package server

import (
	"context"
	"net/http"
	"time"
)

// HealthStatus represents the overall health of the system
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentStatus represents the health of an individual component
type ComponentStatus string

const (
	ComponentStatusUp       ComponentStatus = "up"
	ComponentStatusDown     ComponentStatus = "down"
	ComponentStatusDegraded ComponentStatus = "degraded"
)

// Health represents the complete health check response
type Health struct {
	Status     HealthStatus               `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Commit     string                     `json:"commit,omitempty"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents the health of a single system component
type ComponentHealth struct {
	Status    ComponentStatus `json:"status"`
	Message   string          `json:"message,omitempty"`
	LatencyMs float64         `json:"latency_ms,omitempty"`
	Details   any             `json:"details,omitempty"`
}

const (
	probeTimeout        = 5 * time.Second
	readyTimeout        = 2 * time.Second
	slowDatabaseLatency = time.Second
	slowStorageLatency  = 2 * time.Second
)

// HandleHealth reports every component; 503 only when one is down.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.checkHealth(r.Context())

	statusCode := http.StatusOK
	if health.Status == HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, health)
}

// HandleReady is the readiness probe: the database must answer.
func (s *Server) HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "database unavailable",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// HandleLive is the liveness probe.
func (s *Server) HandleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) checkHealth(ctx context.Context) Health {
	return Health{
		Timestamp: time.Now(),
		Version:   s.build.Version,
		Commit:    s.build.Commit,
		Components: map[string]ComponentHealth{
			"database": s.probe(ctx, "database", slowDatabaseLatency, s.store.Ping),
			"storage":  s.probe(ctx, s.files.Name()+" storage", slowStorageLatency, s.files.Check),
		},
	}.withOverallStatus()
}

// probe times check and grades the result.
func (s *Server) probe(ctx context.Context, name string, slow time.Duration, check func(context.Context) error) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	if err := check(ctx); err != nil {
		s.log.WithError(err).WithField("component", name).Warn("health check failed")
		return ComponentHealth{Status: ComponentStatusDown, Message: name + " unavailable"}
	}
	latency := time.Since(start)

	h := ComponentHealth{
		Status:    ComponentStatusUp,
		Message:   name + " healthy",
		LatencyMs: float64(latency.Microseconds()) / 1000,
	}
	if latency > slow {
		h.Status = ComponentStatusDegraded
		h.Message = name + " latency high"
	}
	return h
}

// withOverallStatus derives the top-level status from the components.
func (h Health) withOverallStatus() Health {
	h.Status = HealthStatusHealthy
	for _, c := range h.Components {
		switch c.Status {
		case ComponentStatusDown:
			h.Status = HealthStatusUnhealthy
			return h
		case ComponentStatusDegraded:
			h.Status = HealthStatusDegraded
		}
	}
	return h
}
