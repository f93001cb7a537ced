package app

import (
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/config"
)

// MustReadEnv reads the config from the environment and a .env file, if
// any. Missing secrets are only reported here; the operations that need
// them fail on their own.
func MustReadEnv(logger zerolog.Logger) *config.Config {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	logger.Info().
		Str("env", cfg.Env).
		Str("http_port", cfg.HTTP.Port).
		Bool("sendgrid", cfg.SendGrid.APIKey != "").
		Msg("read env")

	if cfg.JWT.SigningKey == "" {
		logger.Warn().Msg("JWT_SECRET is not set, login will fail")
	}
	return cfg
}
