// Package http contains the HTTP transport layer: handlers, middleware
// and the router wiring them together.
package http

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the JSON body returned for every error status
type errorResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Message: message})
}

// HealthHandler handles GET /api/health
//
// swagger:route GET /api/health health healthCheck
//
// Reports service liveness.
//
// Responses:
//
//	200: healthResponse
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
