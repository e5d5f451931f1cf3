package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/iqtest/internal/auth/jwt"
)

// ErrTokenReused is returned when a refresh token is presented twice.
var ErrTokenReused = errors.New("refresh token already used")

// Service issues anonymous identities.
type Service struct {
	tokenMgr *jwt.Manager
	redis    *redis.Client
	logger   zerolog.Logger
}

// ServiceOptions configures the auth service.
type ServiceOptions struct {
	TokenConfig jwt.TokenConfig
	// Redis, when set, makes refresh tokens single-use.
	Redis *redis.Client
}

// NewService creates an authentication service.
func NewService(opts ServiceOptions, logger zerolog.Logger) *Service {
	return &Service{
		tokenMgr: jwt.NewManager(opts.TokenConfig),
		redis:    opts.Redis,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// Anonymous mints a new user id and its token pair.
func (s *Service) Anonymous(ctx context.Context) (*TokenPair, error) {
	userID := uuid.New()
	tokens, err := s.generateTokenPair(userID)
	if err != nil {
		return nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info().Str("user_id", userID.String()).Msg("anonymous user created")
	return tokens, nil
}

// RefreshToken exchanges a refresh token for a new pair.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenMgr.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	if s.redis != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if ttl <= 0 {
			ttl = time.Second
		}
		fresh, err := s.redis.SetNX(ctx, "auth:refresh:used:"+claims.ID, claims.UserID.String(), ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("record refresh: %w", err)
		}
		if !fresh {
			s.logger.Warn().Str("user_id", claims.UserID.String()).Msg("refresh token reuse")
			return nil, ErrTokenReused
		}
	}

	return s.generateTokenPair(claims.UserID)
}

// ValidateToken validates an access token and returns user claims.
func (s *Service) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return s.tokenMgr.ValidateAccessToken(tokenString)
}

func (s *Service) generateTokenPair(userID uuid.UUID) (*TokenPair, error) {
	accessToken, err := s.tokenMgr.GenerateAccessToken(userID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokenMgr.GenerateRefreshToken(userID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		UserID:       userID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenMgr.AccessTTL().Seconds()),
	}, nil
}
