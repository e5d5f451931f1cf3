package question

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/iqtest/internal/logging"
	"github.com/gokatarajesh/iqtest/internal/matrix"
	"github.com/gokatarajesh/iqtest/internal/prng"
	httperrors "github.com/gokatarajesh/iqtest/pkg/http/errors"
)

const maxGeneratedCount = 100

// HTTPHandlers exposes pack and matrix endpoints.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "packs_http").Logger(),
	}
}

// GeneratedPack handles GET /v1/packs/generated?seed=&difficulty=&count=
func (h *HTTPHandlers) GeneratedPack(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	difficulty := q.Get("difficulty")
	if difficulty == "" {
		difficulty = DifficultyMixed
	}
	if difficulty != DifficultyMixed && !isTier(difficulty) {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidDifficulty, "invalid difficulty")
		return
	}

	count := defaultPackCount
	if raw := q.Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxGeneratedCount {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "count must be between 1 and 100", "count")
			return
		}
		count = parsed
	}

	src := prng.FromString(q.Get("seed"))
	pack := GeneratePack(PackOptions{
		Count:      count,
		Mix:        difficulty == DifficultyMixed && count > 1,
		Difficulty: difficulty,
	}, src)
	pack.Name = "generated"

	ctx := logging.IntoContext(r.Context(), h.logger)
	normalized := make([]Question, 0, len(pack.Questions))
	for _, question := range pack.Questions {
		if nq, ok := Normalize(ctx, question.Raw()); ok {
			normalized = append(normalized, nq)
		}
	}
	pack.Questions = normalized
	httperrors.RespondJSON(w, http.StatusOK, pack)
}

// NamedPack handles GET /v1/packs/{name}
func (h *HTTPHandlers) NamedPack(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	pack, err := h.service.Pack(r.Context(), name)
	switch {
	case err == nil:
		httperrors.RespondJSON(w, http.StatusOK, pack)
	case errors.Is(err, ErrPackNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodePackNotFound, "pack not found")
	case errors.Is(err, ErrInvalidPack):
		httperrors.RespondError(w, http.StatusUnprocessableEntity, httperrors.ErrCodeInvalidPack, err.Error())
	default:
		h.logger.Error().Err(err).Str("pack", name).Msg("pack load failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeUpstreamError, "pack source unavailable")
	}
}

// Cell handles GET /v1/matrix/cells?seed=&row=&col=
func (h *HTTPHandlers) Cell(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	seed, ok := parseSeed(q.Get("seed"))
	if !ok {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidSeed, "seed must be an unsigned 32-bit integer")
		return
	}
	row, rowOK := parseCoord(q.Get("row"))
	col, colOK := parseCoord(q.Get("col"))
	if !rowOK || !colOK {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidCell, "row and col must be 0, 1 or 2")
		return
	}

	cell := matrix.GenerateCell(seed, row, col)
	features := matrix.ToVisualFeatures(cell)
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"seed":     seed,
		"row":      row,
		"col":      col,
		"cell":     cell,
		"features": features,
		"key":      features.Key(),
	})
}

// Grid handles GET /v1/matrix/grid?seed=
func (h *HTTPHandlers) Grid(w http.ResponseWriter, r *http.Request) {
	seed, ok := parseSeed(r.URL.Query().Get("seed"))
	if !ok {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidSeed, "seed must be an unsigned 32-bit integer")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"seed": seed,
		"grid": matrix.Grid(seed),
	})
}

// MatrixQuestion handles GET /v1/matrix/questions/{seed}
func (h *HTTPHandlers) MatrixQuestion(w http.ResponseWriter, r *http.Request) {
	seed, ok := parseSeed(r.PathValue("seed"))
	if !ok {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidSeed, "seed must be an unsigned 32-bit integer")
		return
	}
	raw := RawQuestion(`{"id":"matrix-` + strconv.FormatUint(uint64(seed), 10) + `","kind":"matrix","seed":` + strconv.FormatUint(uint64(seed), 10) + `}`)
	httperrors.RespondJSON(w, http.StatusOK, AssembleMatrixOptions(raw))
}

func parseSeed(raw string) (uint32, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

func parseCoord(raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 || v > 2 {
		return 0, false
	}
	return v, true
}
