// Package analytics counts gameplay events. The handle resolves in the
// background and every method is a no-op until it does, so callers never
// wait on it.
package analytics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Answer results.
const (
	ResultCorrect = "correct"
	ResultWrong   = "wrong"
	ResultTimeout = "timeout"
)

// Options configures Init.
type Options struct {
	Enabled   bool
	InitDelay time.Duration
	Namespace string
}

// Handle records events. A nil *Handle is valid and records nothing.
type Handle struct {
	sessionsStarted  *prometheus.CounterVec
	answers          *prometheus.CounterVec
	sessionsFinished *prometheus.CounterVec
	scoresSubmitted  *prometheus.CounterVec
}

func (h *Handle) SessionStarted(difficulty string) {
	if h == nil {
		return
	}
	h.sessionsStarted.WithLabelValues(difficulty).Inc()
}

func (h *Handle) Answer(result string) {
	if h == nil {
		return
	}
	h.answers.WithLabelValues(result).Inc()
}

func (h *Handle) SessionFinished(difficulty string) {
	if h == nil {
		return
	}
	h.sessionsFinished.WithLabelValues(difficulty).Inc()
}

func (h *Handle) ScoreSubmitted(difficulty string) {
	if h == nil {
		return
	}
	h.scoresSubmitted.WithLabelValues(difficulty).Inc()
}

// Pending is a handle that may not have resolved yet.
type Pending struct {
	done   chan struct{}
	handle *Handle
	err    error
}

// Init starts resolving a handle after opts.InitDelay. When analytics is
// disabled, or ctx ends first, the handle resolves to nil.
func Init(ctx context.Context, opts Options, reg prometheus.Registerer) *Pending {
	p := &Pending{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		if !opts.Enabled {
			return
		}
		if opts.InitDelay > 0 {
			timer := time.NewTimer(opts.InitDelay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				p.err = ctx.Err()
				return
			case <-timer.C:
			}
		}
		p.handle, p.err = newHandle(opts.Namespace, reg)
	}()
	return p
}

// Resolved returns an already resolved pending handle.
func Resolved(h *Handle) *Pending {
	p := &Pending{done: make(chan struct{}), handle: h}
	close(p.done)
	return p
}

// Wait blocks until the handle resolves or ctx ends.
func (p *Pending) Wait(ctx context.Context) (*Handle, error) {
	select {
	case <-p.done:
		return p.handle, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Handle returns the handle if resolved, else nil. It never blocks.
func (p *Pending) Handle() *Handle {
	if p == nil {
		return nil
	}
	select {
	case <-p.done:
		return p.handle
	default:
		return nil
	}
}

func newHandle(namespace string, reg prometheus.Registerer) (*Handle, error) {
	if namespace == "" {
		namespace = "iqtest"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	counter := func(name, help, label string) (*prometheus.CounterVec, error) {
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, []string{label})
		if err := reg.Register(vec); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
					return existing, nil
				}
			}
			return nil, err
		}
		return vec, nil
	}

	var (
		h   Handle
		err error
	)
	if h.sessionsStarted, err = counter("session_started_total", "Quiz sessions started.", "difficulty"); err != nil {
		return nil, err
	}
	if h.answers, err = counter("answer_total", "Answers by result.", "result"); err != nil {
		return nil, err
	}
	if h.sessionsFinished, err = counter("session_finished_total", "Quiz sessions finished.", "difficulty"); err != nil {
		return nil, err
	}
	if h.scoresSubmitted, err = counter("score_submitted_total", "Scores submitted to the leaderboard.", "difficulty"); err != nil {
		return nil, err
	}
	return &h, nil
}

type handleKey struct{}

// IntoContext attaches h to ctx.
func IntoContext(ctx context.Context, h *Handle) context.Context {
	return context.WithValue(ctx, handleKey{}, h)
}

// FromContext returns the handle on ctx, or nil.
func FromContext(ctx context.Context) *Handle {
	if ctx == nil {
		return nil
	}
	h, _ := ctx.Value(handleKey{}).(*Handle)
	return h
}

// Middleware attaches whatever the pending handle has resolved to.
func Middleware(p *Pending) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(IntoContext(r.Context(), p.Handle())))
		})
	}
}
