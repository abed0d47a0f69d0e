package handler

import (
	"crypto/subtle"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/womencount/womencount/internal/auth"
	"github.com/womencount/womencount/internal/handler/dto"
	"github.com/womencount/womencount/internal/middleware"
	"github.com/womencount/womencount/internal/model"
	"github.com/womencount/womencount/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// AdminConfig carries the credentials and session settings for the
// admin console. A single admin account is configured via environment.
type AdminConfig struct {
	Email         string
	PasswordHash  string
	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool
}

// AdminHandler serves the API key management console.
type AdminHandler struct {
	keys      *service.APIKeyService
	cfg       AdminConfig
	logger    *slog.Logger
	templates *template.Template
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(keys *service.APIKeyService, cfg AdminConfig, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		keys:      keys,
		cfg:       cfg,
		logger:    logger.With("component", "handler.admin"),
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// LoginPage handles GET /admin/login.
func (h *AdminHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, http.StatusOK, "")
}

// Login handles POST /admin/login. Credentials arrive as form fields;
// success sets the session cookie and redirects to the dashboard.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, http.StatusBadRequest, "Invalid form submission")
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	// Both checks always run so a wrong email costs the same as a
	// wrong password.
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(h.cfg.Email)) == 1
	passwordOK, err := auth.VerifyPassword(password, h.cfg.PasswordHash)
	if err != nil {
		h.logger.Error("password verification failed", "error", err)
		h.renderLogin(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	if !emailOK || !passwordOK {
		h.logger.Warn("admin login rejected", "remote_addr", r.RemoteAddr)
		h.renderLogin(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := auth.NewSessionToken(h.cfg.SessionSecret, email, h.cfg.SessionTTL)
	if err != nil {
		h.logger.Error("session token issuance failed", "error", err)
		h.renderLogin(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/admin",
		MaxAge:   int(h.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("admin logged in", "email", email)
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

// Logout handles POST /admin/logout. Clears the session cookie.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/admin",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// Dashboard handles GET /admin/dashboard. Renders every key, active
// and revoked, most recent first.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	keys, err := h.keys.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list API keys", "error", err)
		http.Error(w, "An internal error occurred", http.StatusInternalServerError)
		return
	}

	data := struct {
		APIKeys []*model.APIKey
	}{APIKeys: keys}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		h.logger.Error("failed to render dashboard", "error", err)
	}
}

// CreateAPIKey handles POST /admin/api-keys/create. The description is
// optional; the response carries the plaintext key, shown only here.
func (h *AdminHandler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid form submission",
			Code:  "INVALID_FORM",
		})
		return
	}

	key, err := h.keys.Issue(r.Context(), r.PostFormValue("description"))
	if err != nil {
		h.logger.Error("API key issuance failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to create API key",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	h.logger.Info("API key created", "description", key.Description)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "API key created successfully",
		"api_key": key,
	})
}

// ListAPIKeys handles GET /admin/api-keys.
func (h *AdminHandler) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.keys.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list API keys", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to list API keys",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	if keys == nil {
		keys = []*model.APIKey{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"api_keys": keys})
}

// RevokeAPIKey handles POST /admin/api-keys/{key}/revoke. Idempotent;
// revoking an unknown or already revoked key is not an error.
func (h *AdminHandler) RevokeAPIKey(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "key")

	if err := h.keys.Revoke(r.Context(), token); err != nil {
		h.logger.Error("API key revocation failed", "error", err)
		http.Error(w, "An internal error occurred", http.StatusInternalServerError)
		return
	}

	h.logger.Info("API key revoked")
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

// DeleteAPIKey handles DELETE /admin/api-keys/{key}. Idempotent.
func (h *AdminHandler) DeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "key")

	if err := h.keys.DeletePermanently(r.Context(), token); err != nil {
		h.logger.Error("API key deletion failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to delete API key",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	h.logger.Info("API key deleted")
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "API key deleted successfully",
	})
}

// renderLogin renders the login page with an optional error message.
func (h *AdminHandler) renderLogin(w http.ResponseWriter, status int, errMsg string) {
	data := struct {
		Error string
	}{Error: errMsg}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.ExecuteTemplate(w, "login.html", data); err != nil {
		h.logger.Error("failed to render login page", "error", err)
	}
}
