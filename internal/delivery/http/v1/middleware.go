package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/services"
)

const (
	userIDCtxKey         = "user_id"
	emailCtxKey          = "email"
	tokenIDCtxKey        = "token_id"
	tokenExpiresAtCtxKey = "token_expires_at"
)

func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	token, err := c.Cookie(tokenCookie)
	if err != nil || token == "" {
		h.logger.Error().Msg("identity cookie not found")
		abort(c, newUnauthorizedError(errMandatoryCookieNotFound.Error()))
		return
	}

	claims, err := h.tokens.Verify(token)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to verify token")
		abort(c, newServiceError(err))
		return
	}

	revoked, err := h.revocations.IsRevoked(c, claims.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to check token revocation")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}
	if revoked {
		h.logger.Warn().
			Str("token_id", claims.ID).
			Msg("revoked token used")
		abort(c, newServiceError(services.ErrTokenRevoked))
		return
	}

	c.Set(userIDCtxKey, claims.UserID)
	c.Set(emailCtxKey, claims.Email)
	c.Set(tokenIDCtxKey, claims.ID)
	if claims.ExpiresAt != nil {
		c.Set(tokenExpiresAtCtxKey, claims.ExpiresAt.Time)
	}
	c.Next()
}

// RequestLogger logs one line per request in place of gin.Logger.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = logger.Error()
		case status >= http.StatusBadRequest:
			event = logger.Warn()
		}

		if len(c.Errors) > 0 {
			event = event.Err(errors.New(c.Errors.String()))
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("handled request")
	}
}

func getStringFromContext(c *gin.Context, key string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

func (h *handlerImpl) mustGetUserID(c *gin.Context) (string, bool) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok || userID == "" {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError(errMandatoryCookieNotFound.Error()))
		return "", false
	}
	return userID, true
}
