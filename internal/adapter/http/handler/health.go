package handler

import "net/http"

type Health struct {
	version string
}

func NewHealth(version string) *Health {
	return &Health{version: version}
}

func (h *Health) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := envelope{
		"status":  "available",
		"version": h.version,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}
