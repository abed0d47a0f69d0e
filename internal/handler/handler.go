// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"net/http"
)

// Handler serves the public informational endpoints.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// APIIndex describes the API to unauthenticated callers.
// GET /api
func (h *Handler) APIIndex(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"message": "Welcome to the Women Count Senegal API",
		"data": map[string]any{
			"description": "Statistical data on women's socio-economic records in Senegal, behind an API key",
			"endpoints": []string{
				"/api/women - record management (GET, POST)",
				"/api/women/:id - single record operations (GET, PUT, DELETE)",
				"/api/statistiques - full statistics report",
			},
			"documentation": "Women Count programme - UN Women Senegal",
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"error": "resource not found",
	}
	writeJSON(w, http.StatusNotFound, response)
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"error": "method not allowed",
	}
	writeJSON(w, http.StatusMethodNotAllowed, response)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
