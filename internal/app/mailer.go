package app

import (
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/config"
	"github.com/adanyl0v/taskboard/internal/services"
)

// NewMailer falls back to logging verification links when SendGrid is
// not configured.
func NewMailer(logger zerolog.Logger, cfg config.SendGridConfig) services.Mailer {
	if cfg.APIKey == "" {
		logger.Warn().Msg("SENDGRID_API_KEY is not set, verification emails will only be logged")
		return services.NewLogMailer(logger)
	}
	return services.NewSendGridMailer(logger, cfg.APIKey, cfg.FromName, cfg.FromEmail)
}
