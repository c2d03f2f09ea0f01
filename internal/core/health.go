package core

import (
	"context"
	"net/http"
	"time"
)

// healthCheckTimeout is the maximum time allowed for the database probe to
// complete. If the probe exceeds this deadline, the health check returns
// 503 Service Unavailable.
const healthCheckTimeout = 2 * time.Second

// componentStatus represents the health state of a single subsystem.
type componentStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// healthResponse is the JSON response body for the health check endpoint.
type healthResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components,omitempty"`
}

// HandleHealth reports service liveness and the reachability of the backing
// database. Returns 200 OK when healthy, 503 Service Unavailable when the
// database probe fails or times out.
//
// This endpoint is public (no rate limit key required) and is mounted at
// GET /health.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		// No database wired (tests): report liveness only.
		JSON(w, r, http.StatusOK, healthResponse{Status: "healthy"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	components := make(map[string]componentStatus, 1)

	if err := s.DB.Ping(ctx); err != nil {
		components["database"] = componentStatus{
			Status:  "unhealthy",
			Message: err.Error(),
		}
		JSON(w, r, http.StatusServiceUnavailable, healthResponse{
			Status:     "unhealthy",
			Components: components,
		})
		return
	}

	components["database"] = componentStatus{Status: "healthy"}
	JSON(w, r, http.StatusOK, healthResponse{
		Status:     "healthy",
		Components: components,
	})
}
