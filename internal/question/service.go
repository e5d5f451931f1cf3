package question

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/iqtest/internal/logging"
)

// PackCache defines cache behavior (implemented by Redis-backed Cache).
type PackCache interface {
	Get(ctx context.Context, name string) (*Pack, error)
	Set(ctx context.Context, name string, pack Pack) error
}

// PackLoader fetches unnormalised pack documents.
type PackLoader interface {
	Load(ctx context.Context, name string) (Document, error)
}

// Service resolves named packs: cache first, then the loader.
type Service struct {
	loader PackLoader
	cache  PackCache
	logger zerolog.Logger
}

func NewService(loader PackLoader, cache PackCache, logger zerolog.Logger) *Service {
	return &Service{
		loader: loader,
		cache:  cache,
		logger: logger.With().Str("component", "packs").Logger(),
	}
}

// Pack returns the named pack with every question normalised. Entries that
// are not question objects are skipped.
func (s *Service) Pack(ctx context.Context, name string) (Pack, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, name)
		if err != nil {
			s.logger.Warn().Err(err).Str("pack", name).Msg("pack cache read failed")
		} else if cached != nil {
			return *cached, nil
		}
	}

	doc, err := s.loader.Load(ctx, name)
	if err != nil {
		return Pack{}, fmt.Errorf("load pack: %w", err)
	}

	ctx = logging.IntoContext(ctx, s.logger.With().Str("pack", name).Logger())
	pack := Pack{
		Version:    doc.Version,
		Name:       name,
		Title:      doc.Title,
		Difficulty: doc.Difficulty,
		Questions:  make([]Question, 0, len(doc.Questions)),
	}
	if pack.Version == "" {
		pack.Version = packVersion
	}
	if pack.Title == "" {
		pack.Title = name
	}
	if pack.Difficulty == "" {
		pack.Difficulty = DifficultyMixed
	}
	for _, raw := range doc.Questions {
		if q, ok := Normalize(ctx, raw); ok {
			pack.Questions = append(pack.Questions, q)
		}
	}
	if len(pack.Questions) == 0 {
		return Pack{}, fmt.Errorf("%w: %q has no usable questions", ErrInvalidPack, name)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, name, pack); err != nil {
			s.logger.Warn().Err(err).Str("pack", name).Msg("pack cache write failed")
		}
	}
	return pack, nil
}
