package question

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const defaultPrefetchInterval = 5 * time.Minute

// PrefetchWorker keeps the configured packs warm in the cache.
type PrefetchWorker struct {
	service   *Service
	names     []string
	logger    zerolog.Logger
	timeout   time.Duration
	interval  time.Duration
	shutdownC chan struct{}
}

func NewPrefetchWorker(service *Service, names []string, logger zerolog.Logger, timeout, interval time.Duration) *PrefetchWorker {
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	if interval <= 0 {
		interval = defaultPrefetchInterval
	}
	return &PrefetchWorker{
		service:   service,
		names:     names,
		logger:    logger.With().Str("component", "pack_prefetch").Logger(),
		timeout:   timeout,
		interval:  interval,
		shutdownC: make(chan struct{}),
	}
}

// Run warms every pack once, then again on each tick until Stop.
func (w *PrefetchWorker) Run() {
	if len(w.names) == 0 {
		return
	}
	w.warm()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.shutdownC:
			w.logger.Info().Msg("pack prefetch stopping")
			return
		case <-ticker.C:
			w.warm()
		}
	}
}

func (w *PrefetchWorker) warm() {
	for _, name := range w.names {
		w.handle(name)
	}
}

func (w *PrefetchWorker) handle(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	pack, err := w.service.Pack(ctx, name)
	if err != nil {
		w.logger.Warn().Err(err).Str("pack", name).Msg("prefetch failed")
		return
	}
	w.logger.Debug().Str("pack", name).Int("questions", len(pack.Questions)).Msg("pack warmed")
}

func (w *PrefetchWorker) Stop() {
	close(w.shutdownC)
}
