package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	gorillahandlers "github.com/gorilla/handlers"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/config"
	v1 "github.com/adanyl0v/taskboard/internal/delivery/http/v1"
)

// NewHTTPHandler builds the router for h and wraps it with CORS. Cookies
// are sent cross-origin, so the allowed origins are listed explicitly.
func NewHTTPHandler(logger zerolog.Logger, cfg *config.Config, h v1.Handler) http.Handler {
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.ContextWithFallback = true
	router.Use(v1.RequestLogger(logger))
	router.Use(gin.Recovery())
	v1.RegisterRoutes(router, h)

	headers := gorillahandlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type"})
	methods := gorillahandlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"})
	origins := gorillahandlers.AllowedOrigins(cfg.HTTP.AllowedOrigins)
	logger.Info().
		Strs("origins", cfg.HTTP.AllowedOrigins).
		Msg("configured cors")

	return gorillahandlers.CORS(headers, methods, origins, gorillahandlers.AllowCredentials())(router)
}

func MustListenAndServeHTTP(logger zerolog.Logger, cfg config.HTTPConfig, handler http.Handler) {
	server := &http.Server{
		Addr:    net.JoinHostPort(cfg.Host, cfg.Port),
		Handler: handler,
	}

	go func() {
		logger.Info().
			Str("host", cfg.Host).
			Str("port", cfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	logger.Info().Msg("shut down http server")
}
