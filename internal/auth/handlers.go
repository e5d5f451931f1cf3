package auth

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	httperrors "github.com/gokatarajesh/iqtest/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for authentication.
type HTTPHandlers struct {
	authSvc *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for auth endpoints.
func NewHTTPHandlers(authSvc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		authSvc: authSvc,
		logger:  logger,
	}
}

// Anonymous handles POST /v1/auth/anonymous
func (h *HTTPHandlers) Anonymous(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.authSvc.Anonymous(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("anonymous sign-in failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeAnonymousFailed, "could not create identity")
		return
	}
	httperrors.RespondJSON(w, http.StatusCreated, tokens)
}

// RefreshToken handles POST /v1/auth/refresh
func (h *HTTPHandlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	tokens, err := h.authSvc.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeRefreshFailed, err.Error())
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, tokens)
}
