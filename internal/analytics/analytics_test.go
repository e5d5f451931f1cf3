package analytics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilHandleIsNoop(t *testing.T) {
	var h *Handle
	assert.NotPanics(t, func() {
		h.SessionStarted("easy")
		h.Answer(ResultCorrect)
		h.SessionFinished("easy")
		h.ScoreSubmitted("easy")
		FromContext(context.Background()).Answer(ResultWrong)
	})
	assert.Nil(t, (*Pending)(nil).Handle())
}

func TestInitResolvesAfterDelay(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := Init(context.Background(), Options{Enabled: true, InitDelay: 20 * time.Millisecond}, reg)

	assert.Nil(t, p.Handle(), "not resolved yet")

	h, err := p.Wait(context.Background())
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Same(t, h, p.Handle())

	h.SessionStarted("hard")
	h.Answer(ResultTimeout)
	h.Answer(ResultTimeout)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.sessionsStarted.WithLabelValues("hard")))
	assert.Equal(t, 2.0, testutil.ToFloat64(h.answers.WithLabelValues(ResultTimeout)))
}

func TestInitDisabled(t *testing.T) {
	p := Init(context.Background(), Options{}, prometheus.NewRegistry())
	h, err := p.Wait(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, h)
}

func TestInitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Init(ctx, Options{Enabled: true, InitDelay: time.Hour}, prometheus.NewRegistry())
	cancel()
	h, err := p.Wait(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, h)
}

func TestInitReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := Init(context.Background(), Options{Enabled: true}, reg).Wait(context.Background())
	require.NoError(t, err)
	second, err := Init(context.Background(), Options{Enabled: true}, reg).Wait(context.Background())
	require.NoError(t, err)

	first.ScoreSubmitted("easy")
	second.ScoreSubmitted("easy")
	assert.Equal(t, 2.0, testutil.ToFloat64(first.scoresSubmitted.WithLabelValues("easy")))
}

func TestMiddlewareCarriesHandle(t *testing.T) {
	h, err := newHandle("test", prometheus.NewRegistry())
	require.NoError(t, err)

	var seen *Handle
	handler := Middleware(Resolved(h))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Same(t, h, seen)
}
