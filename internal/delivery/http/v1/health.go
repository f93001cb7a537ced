package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

func (h *handlerImpl) HandleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.healthChecks))
	healthy := true
	for name, ping := range h.healthChecks {
		if err := ping(ctx); err != nil {
			h.logger.Error().
				Err(err).
				Str("check", name).
				Msg("health check failed")
			checks[name] = err.Error()
			healthy = false
			continue
		}
		checks[name] = "ok"
	}

	status, message := http.StatusOK, "healthy"
	if !healthy {
		status, message = http.StatusServiceUnavailable, "unhealthy"
	}
	c.JSON(status, envelope{
		Success: healthy,
		Message: message,
		Data:    checks,
	})
}
