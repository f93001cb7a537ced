package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const revokedTokenKeyPrefix = "revoked_token:"

type revocationServiceImpl struct {
	logger zerolog.Logger
	client redis.Cmdable
}

func NewRevocationService(
	logger zerolog.Logger,
	client redis.Cmdable,
) RevocationService {
	return &revocationServiceImpl{
		logger: logger,
		client: client,
	}
}

// Revoke keeps the token id on the denylist until the token would have
// expired anyway.
func (s *revocationServiceImpl) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		s.logger.Debug().
			Str("token_id", tokenID).
			Msg("token already expired, nothing to revoke")
		return nil
	}

	err := s.client.Set(ctx, revokedTokenKeyPrefix+tokenID, 1, ttl).Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("token_id", tokenID).
			Msg("failed to revoke token")
		return err
	}

	s.logger.Info().
		Str("token_id", tokenID).
		Time("expires_at", expiresAt).
		Msg("revoked token")
	return nil
}

func (s *revocationServiceImpl) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedTokenKeyPrefix+tokenID).Result()
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("token_id", tokenID).
			Msg("failed to check token revocation")
		return false, err
	}
	return n > 0, nil
}
