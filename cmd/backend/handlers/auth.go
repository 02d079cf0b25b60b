package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/hairizuanbinnoorazman/wise-institute/admin"
	"github.com/hairizuanbinnoorazman/wise-institute/logger"
	"github.com/hairizuanbinnoorazman/wise-institute/session"
)

// AuthHandler handles admin sign-in and the session cookie.
type AuthHandler struct {
	adminStore admin.Store
	codec      session.Codec
	cookie     session.CookieOptions
	duration   time.Duration
	logger     logger.Logger
	now        func() time.Time
}

// NewAuthHandler creates a new authentication handler.
func NewAuthHandler(
	adminStore admin.Store,
	codec session.Codec,
	cookie session.CookieOptions,
	duration time.Duration,
	log logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		adminStore: adminStore,
		codec:      codec,
		cookie:     cookie,
		duration:   duration,
		logger:     log,
		now:        time.Now,
	}
}

// LoginRequest represents an admin login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse describes the current admin session.
type SessionResponse struct {
	User    string    `json:"user"`
	Expires time.Time `json:"expires"`
}

// Login checks the admin's credentials and issues the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := parseJSON(r, &req, h.logger); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.adminStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, admin.ErrAdminNotFound) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error(r.Context(), "failed to get admin", map[string]interface{}{
			"error": err.Error(),
			"email": req.Email,
		})
		respondError(w, http.StatusInternalServerError, "authentication failed")
		return
	}

	if !existing.CheckPassword(req.Password) {
		h.logger.Warn(r.Context(), "invalid password attempt", map[string]interface{}{
			"email": req.Email,
		})
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !existing.IsActive {
		h.logger.Warn(r.Context(), "inactive admin login attempt", map[string]interface{}{
			"admin_id": existing.ID,
		})
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	cred, err := session.Issue(strconv.FormatUint(uint64(existing.ID), 10), h.duration, h.now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	value, err := h.codec.Encode(cred)
	if err != nil {
		h.logger.Error(r.Context(), "failed to encode session", map[string]interface{}{
			"error":    err.Error(),
			"admin_id": existing.ID,
		})
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	http.SetCookie(w, session.NewCookie(h.cookie, value, cred.Expires))

	h.logger.Info(r.Context(), "admin logged in", map[string]interface{}{
		"admin_id": existing.ID,
		"email":    existing.Email,
	})

	respondJSON(w, http.StatusOK, existing)
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, session.ClearCookie(h.cookie))
	respondSuccess(w, "logged out successfully")
}

// Session returns the credential attached by the AdminAuth middleware.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	cred, ok := GetCredential(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, authRequiredMessage)
		return
	}
	respondJSON(w, http.StatusOK, SessionResponse{
		User:    cred.UserString(),
		Expires: cred.Expires,
	})
}
