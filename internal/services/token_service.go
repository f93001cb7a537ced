package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the payload of an identity token.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type tokenServiceImpl struct {
	issuer     string
	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time
}

func NewTokenService(
	issuer string,
	signingKey string,
	tokenTTL time.Duration,
) TokenService {
	return &tokenServiceImpl{
		issuer:     issuer,
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
		now:        time.Now,
	}
}

func (s *tokenServiceImpl) Issue(userID, email string) (*IssuedToken, error) {
	if len(s.signingKey) == 0 {
		return nil, ErrSigningKeyNotConfigured
	}

	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenUUID.String(),
			Issuer:    s.issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &IssuedToken{
		Token:     signed,
		TokenID:   tokenUUID.String(),
		ExpiresAt: expiresAt,
	}, nil
}

func (s *tokenServiceImpl) Verify(token string) (*Claims, error) {
	if len(s.signingKey) == 0 {
		return nil, ErrSigningKeyNotConfigured
	}
	if token == "" {
		return nil, fmt.Errorf("%w: token is empty", ErrInvalidToken)
	}

	t, err := jwt.ParseWithClaims(
		token,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithIssuer(s.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token is expired: %w", ErrInvalidToken, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing identity claims", ErrInvalidToken)
	}
	return claims, nil
}
