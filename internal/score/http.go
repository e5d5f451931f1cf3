package score

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/iqtest/internal/auth"
	httperrors "github.com/gokatarajesh/iqtest/pkg/http/errors"
)

// HTTPHandlers exposes the score submission endpoint.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "score_http").Logger(),
	}
}

// Submit handles POST /v1/scores
func (h *HTTPHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	var payload Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	res, err := h.service.Submit(r.Context(), userID, payload)
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidNickname):
		httperrors.RespondValidationError(w, httperrors.ErrCodeInvalidNickname, err.Error(), "nickname")
		return
	case errors.Is(err, ErrInvalidScore):
		httperrors.RespondValidationError(w, httperrors.ErrCodeInvalidScore, err.Error(), "score")
		return
	case errors.Is(err, ErrInvalidDifficulty):
		httperrors.RespondValidationError(w, httperrors.ErrCodeInvalidDifficulty, err.Error(), "difficulty")
		return
	case errors.Is(err, ErrInvalidIQ):
		httperrors.RespondValidationError(w, httperrors.ErrCodeInvalidIQ, err.Error(), "iq")
		return
	default:
		h.logger.Error().Err(err).Str("user_id", userID).Msg("score submit failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeSubmitFailed, "Failed to submit score")
		return
	}

	status := http.StatusCreated
	if res.Existed {
		status = http.StatusOK
	}
	httperrors.RespondJSON(w, status, res)
}
