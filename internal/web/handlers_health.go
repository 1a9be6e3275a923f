package web

import (
	"net/http"
	"time"

	"github.com/JonMunkholm/csvfetch/internal/core"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status    string                  `json:"status"` // "healthy" or "unhealthy"
	Healthy   bool                    `json:"healthy"`
	Source    string                  `json:"source"`
	Readable  bool                    `json:"readable"`
	Message   string                  `json:"message,omitempty"`
	Code      string                  `json:"code,omitempty"`
	Fetches   core.FetchLimiterStatus `json:"fetches"`
	Timestamp time.Time               `json:"timestamp"`
}

// handleHealth reports whether the configured source can be opened. It does
// not decode the file.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "healthy",
		Healthy:   true,
		Source:    s.service.SourcePath(),
		Readable:  true,
		Fetches:   s.service.LimiterStatus(),
		Timestamp: time.Now().UTC(),
	}

	code := http.StatusOK
	if err := s.service.CheckSource(); err != nil {
		msg := core.MapError(err)
		status.Status = "unhealthy"
		status.Healthy = false
		status.Readable = false
		status.Message = msg.Message
		status.Code = msg.Code
		code = http.StatusServiceUnavailable
	}

	writeJSONStatus(w, code, status)
}
