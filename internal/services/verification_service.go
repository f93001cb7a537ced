package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/models"
)

const verificationCodeKeyPrefix = "email_verification:"

type verificationServiceImpl struct {
	logger  zerolog.Logger
	client  redis.Cmdable
	users   UserService
	mailer  Mailer
	codeTTL time.Duration
	baseURL string
}

func NewVerificationService(
	logger zerolog.Logger,
	client redis.Cmdable,
	users UserService,
	mailer Mailer,
	codeTTL time.Duration,
	baseURL string,
) VerificationService {
	return &verificationServiceImpl{
		logger:  logger,
		client:  client,
		users:   users,
		mailer:  mailer,
		codeTTL: codeTTL,
		baseURL: baseURL,
	}
}

func (s *verificationServiceImpl) SendCode(ctx context.Context, user *models.User) error {
	code, err := generateVerificationCode()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate verification code")
		return err
	}

	err = s.client.Set(ctx, verificationCodeKeyPrefix+code, user.ID, s.codeTTL).Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to store verification code")
		return err
	}

	link := s.baseURL + "/verify-email?code=" + url.QueryEscape(code)
	err = s.mailer.SendVerificationEmail(ctx, user, link)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to send verification email")
		return err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("sent verification code")
	return nil
}

func (s *verificationServiceImpl) Redeem(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", fmt.Errorf("%w: code is required", ErrValidation)
	}

	key := verificationCodeKeyPrefix + code
	userID, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.logger.Error().Msg("verification code not found")
			return "", ErrVerificationCodeInvalid
		}

		s.logger.Error().
			Err(err).
			Msg("failed to look up verification code")
		return "", err
	}

	// The code stays redeemable until the user is marked as verified.
	err = s.users.MarkVerified(ctx, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to mark user as verified")
		return "", err
	}

	err = s.client.Del(ctx, key).Err()
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("user_id", userID).
			Msg("failed to delete redeemed verification code")
	}
	return userID, nil
}

func generateVerificationCode() (string, error) {
	const length = 32
	bytes := make([]byte, length)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
