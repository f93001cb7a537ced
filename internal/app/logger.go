package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/config"
)

// NewDefaultLogger returns the logger used until the config is read.
func NewDefaultLogger() zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimestampFieldName = "timestamp"

	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Str("service", "taskboard").
		Int("pid", os.Getpid()).
		Logger()

	logger.Info().Msg("initialized default logger")
	return logger
}

// MustNewApplicationLogger picks the output and level for the env.
// LOG_LEVEL, when set, wins over the env's default level.
func MustNewApplicationLogger(logger zerolog.Logger, cfg *config.Config) zerolog.Logger {
	var (
		level zerolog.Level
		w     io.Writer = os.Stdout
	)
	switch cfg.Env {
	case config.EnvDev:
		level = zerolog.DebugLevel
	case config.EnvProd:
		level = zerolog.InfoLevel
	case config.EnvLocal:
		level = zerolog.TraceLevel
		w = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.DateTime,
		}
	default:
		logger.Error().
			Str("env", cfg.Env).
			Msg("unknown env")
		panic(fmt.Errorf("unknown env: %s", cfg.Env))
	}

	if cfg.LogLevel != "" {
		parsed, err := zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			logger.Error().
				Err(err).
				Str("log_level", cfg.LogLevel).
				Msg("invalid log level")
			panic(err)
		}
		level = parsed
	}
	zerolog.SetGlobalLevel(level)

	logger = logger.Output(w)
	logger.Info().
		Str("level", level.String()).
		Msg("initialized application logger")
	return logger
}
