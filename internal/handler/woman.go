package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/womencount/womencount/internal/handler/dto"
	"github.com/womencount/womencount/internal/model"
	"github.com/womencount/womencount/internal/service"
)

// WomanHandler handles HTTP requests for record operations.
type WomanHandler struct {
	svc    *service.WomanService
	logger *slog.Logger
}

// NewWomanHandler creates a new WomanHandler.
func NewWomanHandler(svc *service.WomanService, logger *slog.Logger) *WomanHandler {
	return &WomanHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/women.
func (h *WomanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWomanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.CreateWomanInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Age:         req.Age,
		Region:      req.Region,
		Department:  req.Department,
		Commune:     req.Commune,
		Activity:    req.Activity,
		PhoneNumber: req.PhoneNumber,
	}

	woman, err := h.svc.CreateWoman(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("woman_created",
		"woman_id", woman.ID,
		"region", woman.Region,
	)

	writeJSON(w, http.StatusCreated, woman)
}

// List handles GET /api/women.
func (h *WomanHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	input := service.ListWomenInput{
		Region:     optionalString(query.Get("region")),
		Department: optionalString(query.Get("department")),
		Commune:    optionalString(query.Get("commune")),
		Activity:   optionalString(query.Get("activity")),
	}

	minAge, ok := parseOptionalInt(query.Get("minAge"))
	if !ok {
		h.writeError(w, http.StatusBadRequest, "INVALID_FILTER", "minAge must be an integer")
		return
	}
	input.MinAge = minAge

	maxAge, ok := parseOptionalInt(query.Get("maxAge"))
	if !ok {
		h.writeError(w, http.StatusBadRequest, "INVALID_FILTER", "maxAge must be an integer")
		return
	}
	input.MaxAge = maxAge

	women, err := h.svc.ListWomen(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	// Plain array response; an empty result is [] rather than null.
	if women == nil {
		women = []*model.Woman{}
	}
	writeJSON(w, http.StatusOK, women)
}

// Get handles GET /api/women/{id}.
func (h *WomanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	woman, err := h.svc.GetWoman(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, woman)
}

// Update handles PUT /api/women/{id}.
func (h *WomanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateWomanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.UpdateWomanInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Age:         req.Age,
		Region:      req.Region,
		Department:  req.Department,
		Commune:     req.Commune,
		Activity:    req.Activity,
		PhoneNumber: req.PhoneNumber,
	}

	woman, err := h.svc.UpdateWoman(r.Context(), id, input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("woman_updated", "woman_id", woman.ID)

	writeJSON(w, http.StatusOK, woman)
}

// Delete handles DELETE /api/women/{id}.
func (h *WomanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	woman, err := h.svc.DeleteWoman(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("woman_deleted", "woman_id", id)

	writeJSON(w, http.StatusOK, woman)
}

// handleServiceError maps service errors to HTTP responses.
// Validation failures are 400; the upstream system answered 500 for
// them, which was inconsistent and is normalized here.
func (h *WomanHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrWomanNotFound):
		h.writeError(w, http.StatusNotFound, "WOMAN_NOT_FOUND", "Record not found")
	case errors.Is(err, service.ErrValidation):
		h.writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *WomanHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// optionalString returns nil for an absent query parameter.
func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// parseOptionalInt parses an optional integer query parameter.
// Returns (nil, true) when absent and (nil, false) when malformed.
func parseOptionalInt(v string) (*int, bool) {
	if v == "" {
		return nil, true
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}
