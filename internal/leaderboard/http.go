package leaderboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	httperrors "github.com/gokatarajesh/iqtest/pkg/http/errors"
	ws "github.com/gokatarajesh/iqtest/pkg/http/ws"
)

const maxLimit = 100

// HTTPHandler exposes REST and WebSocket endpoints for leaderboard queries.
type HTTPHandler struct {
	reader   *Reader
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHTTPHandler constructs a leaderboard HTTP handler.
func NewHTTPHandler(reader *Reader, hub *ws.Hub, upgrader websocket.Upgrader, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		reader:   reader,
		hub:      hub,
		upgrader: upgrader,
		logger:   logger.With().Str("component", "leaderboard_http").Logger(),
	}
}

// HandleGet responds with the current leaderboard for a filter.
// Route: GET /v1/leaderboards/{filter}?limit=20
func (h *HTTPHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	filter := r.PathValue("filter")
	if !ValidFilter(filter) {
		httperrors.RespondNotFound(w, httperrors.ErrCodeUnknownFilter, "unknown leaderboard filter")
		return
	}

	limit := DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= maxLimit {
			limit = parsed
		}
	}

	res, err := h.reader.Read(r.Context(), filter, limit)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			httperrors.RespondErrorWithDetails(w, http.StatusServiceUnavailable, httperrors.ErrCodeLeaderboardFetchFailed,
				"leaderboard unavailable", map[string]interface{}{"attempts": res.Attempts})
			return
		}
		httperrors.RespondInternalError(w, "failed to fetch leaderboard")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, res)
}

// HandleWebSocket streams leaderboard updates. The initial filter comes
// from ?filter= and can be changed with a subscribe message.
// Route: GET /ws/leaderboard
func (h *HTTPHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = FilterAll
	}
	if !ValidFilter(filter) {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeUnknownFilter, "unknown leaderboard filter")
		return
	}

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := ws.NewConnection(raw, h.logger)
	id := h.hub.Register(conn, filter)
	defer h.hub.Unregister(id)

	go conn.WritePump()
	h.sendCurrent(r, conn, filter)

	conn.ReadPump(func(msg ws.Message) error {
		switch msg.Type {
		case ws.TypeSubscribe:
			var payload ws.SubscribePayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil || !ValidFilter(payload.Filter) {
				return h.sendError(conn, httperrors.ErrCodeUnknownFilter, "unknown leaderboard filter")
			}
			h.hub.Subscribe(id, payload.Filter)
			h.sendCurrent(r, conn, payload.Filter)
			return nil
		case ws.TypePing:
			return conn.Send(ws.Message{Type: ws.TypePong, RequestID: msg.RequestID})
		default:
			return h.sendError(conn, httperrors.ErrCodeUnknownMessageType, "unknown message type")
		}
	})
}

func (h *HTTPHandler) sendCurrent(r *http.Request, conn *ws.Connection, filter string) {
	res, err := h.reader.Read(r.Context(), filter, DefaultLimit)
	if err != nil {
		h.logger.Warn().Err(err).Str("filter", filter).Msg("initial leaderboard read failed")
		return
	}
	msg, err := updateMessage(res)
	if err != nil {
		return
	}
	if err := conn.Send(msg); err != nil {
		h.logger.Warn().Err(err).Msg("initial leaderboard send failed")
	}
}

func (h *HTTPHandler) sendError(conn *ws.Connection, code, message string) error {
	msg, err := ws.NewMessage(ws.TypeError, ws.ErrorPayload{Code: code, Message: message})
	if err != nil {
		return err
	}
	return conn.Send(msg)
}
