package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ws "github.com/gokatarajesh/iqtest/pkg/http/ws"
)

func newTestMux(h *HTTPHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/leaderboards/{filter}", h.HandleGet)
	mux.HandleFunc("GET /ws/leaderboard", h.HandleWebSocket)
	return mux
}

func TestHandleGet(t *testing.T) {
	svc, _ := newTestService(t)
	require.NoError(t, svc.Record(context.Background(), Entry{UserID: "a", Nickname: "Ann", Difficulty: FilterEasy, Score: 21}))

	logger := zerolog.New(io.Discard)
	h := NewHTTPHandler(NewReader(logger, DefaultStrategies(svc, nil, nil)...), ws.NewHub(logger), websocket.Upgrader{}, logger)
	mux := newTestMux(h)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leaderboards/easy?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, SourceRedis, body.Source)
	assert.Equal(t, FilterEasy, body.Filter)
	require.Len(t, body.Entries, 1)
	assert.Equal(t, "Ann", body.Entries[0].Nickname)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leaderboards/weekly", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetUnavailable(t *testing.T) {
	logger := zerolog.New(io.Discard)
	reader := NewReader(logger, Strategy{Name: SourceRedis, Fetch: fixed(nil, errors.New("down"))})
	mux := newTestMux(NewHTTPHandler(reader, ws.NewHub(logger), websocket.Upgrader{}, logger))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leaderboards/all", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "leaderboard_fetch_failed")
}

func TestWebSocketStreamAndBroadcast(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Record(ctx, Entry{UserID: "a", Nickname: "Ann", Difficulty: FilterEasy, Score: 5}))

	logger := zerolog.New(io.Discard)
	hub := ws.NewHub(logger)
	reader := NewReader(logger, DefaultStrategies(svc, nil, nil)...)
	srv := httptest.NewServer(newTestMux(NewHTTPHandler(reader, hub, websocket.Upgrader{}, logger)))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/leaderboard?filter=easy", nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readUpdate(t, conn)
	assert.Equal(t, FilterEasy, first.Filter)
	require.Len(t, first.Top, 1)
	assert.Equal(t, 1, first.Top[0].Rank)

	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, svc.Record(ctx, Entry{UserID: "b", Nickname: "Bob", Difficulty: FilterEasy, Score: 9}))
	NewBroadcaster(client, hub, reader, svc.Channel(), logger).forward(ctx, `{"userId":"b","difficulty":"easy"}`)

	second := readUpdate(t, conn)
	require.Len(t, second.Top, 2)
	assert.Equal(t, "Bob", second.Top[0].Nickname)

	require.NoError(t, conn.WriteJSON(ws.Message{Type: "bogus"}))
	var errMsg ws.Message
	require.NoError(t, conn.ReadJSON(&errMsg))
	assert.Equal(t, ws.TypeError, errMsg.Type)
}

func readUpdate(t *testing.T, conn *websocket.Conn) ws.LeaderboardUpdatePayload {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ws.Message
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, ws.TypeLeaderboardUpdate, msg.Type)
	var payload ws.LeaderboardUpdatePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	return payload
}
