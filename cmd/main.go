package main

import (
	"context"

	"github.com/adanyl0v/taskboard/internal/app"
	v1 "github.com/adanyl0v/taskboard/internal/delivery/http/v1"
	"github.com/adanyl0v/taskboard/internal/services"
)

func main() {
	logger := app.NewDefaultLogger()
	cfg := app.MustReadEnv(logger)
	logger = app.MustNewApplicationLogger(logger, cfg)

	pool := app.MustConnectPostgres(logger, cfg.Postgres)
	defer app.DisconnectPostgres(logger, pool)
	db := app.NewDB(pool)

	rdb := app.MustConnectRedis(logger, cfg.Redis)
	defer app.DisconnectRedis(logger, rdb)

	userService := services.NewUserService(logger, db)
	taskService := services.NewTaskService(logger, db)
	verificationService := services.NewVerificationService(
		logger,
		rdb,
		userService,
		app.NewMailer(logger, cfg.SendGrid),
		cfg.Verification.CodeTTL,
		cfg.Verification.BaseURL,
	)

	handler := v1.New(
		logger,
		services.NewTokenService(cfg.JWT.Issuer, cfg.JWT.SigningKey, cfg.JWT.TokenTTL),
		userService,
		taskService,
		services.NewRevocationService(logger, rdb),
		verificationService,
		cfg.JWT.SecureCookie,
		map[string]v1.PingFunc{
			"postgres": app.PingPostgres(pool),
			"redis": func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
		},
	)

	app.MustListenAndServeHTTP(logger, cfg.HTTP, app.NewHTTPHandler(logger, cfg, handler))
}
