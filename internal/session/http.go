package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/iqtest/internal/auth"
	"github.com/gokatarajesh/iqtest/internal/question"
	httperrors "github.com/gokatarajesh/iqtest/pkg/http/errors"
)

// HTTPHandlers exposes session endpoints. Every route requires an
// authenticated user.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "session_http").Logger(),
	}
}

type answerRequest struct {
	Index  int              `json:"index"`
	Option *question.Option `json:"option"`
}

// Start handles POST /v1/sessions
func (h *HTTPHandlers) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	var req StartRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
			return
		}
	}
	req.UserID = userID

	view, err := h.service.Start(r.Context(), req)
	if err != nil {
		h.respondErr(w, err, httperrors.ErrCodeSessionStartFailed)
		return
	}
	httperrors.RespondJSON(w, http.StatusCreated, view)
}

// Get handles GET /v1/sessions/{id}
func (h *HTTPHandlers) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	view, err := h.service.Get(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		h.respondErr(w, err, httperrors.ErrCodeInternalError)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, view)
}

// Answer handles POST /v1/sessions/{id}/answers
func (h *HTTPHandlers) Answer(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.Option == nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "option is required", "option")
		return
	}

	res, err := h.service.Answer(r.Context(), r.PathValue("id"), userID, req.Index, *req.Option)
	if err != nil {
		h.respondErr(w, err, httperrors.ErrCodeInternalError)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, res)
}

// Timeout handles POST /v1/sessions/{id}/timeout
func (h *HTTPHandlers) Timeout(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	res, err := h.service.Timeout(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		h.respondErr(w, err, httperrors.ErrCodeInternalError)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, res)
}

// Finish handles POST /v1/sessions/{id}/finish
func (h *HTTPHandlers) Finish(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	res, err := h.service.Finish(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		h.respondErr(w, err, httperrors.ErrCodeInternalError)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, res)
}

// LastResult handles GET /v1/results/last?difficulty=
func (h *HTTPHandlers) LastResult(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	difficulty := r.URL.Query().Get("difficulty")
	if difficulty == "" {
		difficulty = question.DifficultyMixed
	}
	run, err := h.service.LastRun(r.Context(), userID, difficulty)
	if err != nil {
		h.respondErr(w, err, httperrors.ErrCodeInternalError)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, run)
}

func (h *HTTPHandlers) respondErr(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeSessionNotFound, err.Error())
	case errors.Is(err, ErrNoResult):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNoResult, err.Error())
	case errors.Is(err, question.ErrPackNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodePackNotFound, err.Error())
	case errors.Is(err, ErrFinished):
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeSessionFinished, err.Error())
	case errors.Is(err, ErrBusy):
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeSessionBusy, err.Error())
	case errors.Is(err, ErrQuestionMismatch):
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeQuestionMismatch, err.Error())
	case errors.Is(err, ErrInvalidOption):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidOption, err.Error())
	case errors.Is(err, ErrInvalidDifficulty):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidDifficulty, err.Error())
	case errors.Is(err, ErrEmptyPack), errors.Is(err, question.ErrInvalidPack):
		httperrors.RespondError(w, http.StatusUnprocessableEntity, httperrors.ErrCodeInvalidPack, err.Error())
	default:
		h.logger.Error().Err(err).Msg("session request failed")
		httperrors.RespondError(w, http.StatusInternalServerError, fallback, "session request failed")
	}
}
