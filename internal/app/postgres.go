package app

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/config"
	"github.com/adanyl0v/taskboard/internal/services"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id          TEXT PRIMARY KEY,
    username    TEXT        NOT NULL UNIQUE,
    email       TEXT        NOT NULL UNIQUE,
    password    TEXT        NOT NULL,
    is_verified BOOLEAN     NOT NULL DEFAULT FALSE,
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS tasks (
    id             TEXT PRIMARY KEY,
    task_id        TEXT        NOT NULL UNIQUE,
    user_id        TEXT        NOT NULL REFERENCES users (id),
    title          TEXT        NOT NULL,
    description    TEXT        NOT NULL,
    deadline       TIMESTAMPTZ NOT NULL,
    priority       TEXT        NOT NULL DEFAULT 'medium'
        CHECK (priority IN ('high', 'medium', 'low')),
    current_status TEXT        NOT NULL DEFAULT 'pending'
        CHECK (current_status IN ('pending', 'ongoing', 'completed')),
    created_at     TIMESTAMPTZ NOT NULL,
    updated_at     TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS user_tasks (
    user_id  TEXT        NOT NULL REFERENCES users (id),
    task_id  TEXT        NOT NULL REFERENCES tasks (id),
    added_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (user_id, task_id)
)`,
	`CREATE TABLE IF NOT EXISTS task_status_history (
    task_id  TEXT        NOT NULL REFERENCES tasks (id),
    status   TEXT        NOT NULL
        CHECK (status IN ('pending', 'ongoing', 'completed')),
    added_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (task_id, status)
)`,
	`CREATE INDEX IF NOT EXISTS tasks_user_id_idx ON tasks (user_id)`,
}

// MustConnectPostgres returns nil when no connection string is configured.
func MustConnectPostgres(logger zerolog.Logger, cfg config.PostgresConfig) *pgxpool.Pool {
	if cfg.URI == "" {
		logger.Warn().Msg("POSTGRES_URI is not set, database operations will fail")
		return nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URI)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to parse postgres config")
		panic(err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to connect to postgres")
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = pool.Ping(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to ping postgres")
		panic(err)
	}
	logger.Info().
		Str("host", poolCfg.ConnConfig.Host).
		Uint16("port", poolCfg.ConnConfig.Port).
		Str("database", poolCfg.ConnConfig.Database).
		Msg("connected to postgres")

	for _, stmt := range schema {
		_, err = pool.Exec(ctx, stmt)
		if err != nil {
			logger.Error().
				Err(err).
				Msg("failed to apply schema")
			panic(err)
		}
	}
	logger.Info().Msg("applied schema")

	return pool
}

func DisconnectPostgres(logger zerolog.Logger, pool *pgxpool.Pool) {
	if pool == nil {
		return
	}
	pool.Close()
	logger.Info().Msg("disconnected from postgres")
}

// NewDB hands out pool, or a stand-in that fails every call when the
// pool was never configured.
func NewDB(pool *pgxpool.Pool) services.DB {
	if pool == nil {
		return unconfiguredDB{}
	}
	return pool
}

func PingPostgres(pool *pgxpool.Pool) func(ctx context.Context) error {
	if pool == nil {
		return unconfiguredDB{}.Ping
	}
	return pool.Ping
}

type unconfiguredDB struct{}

func (unconfiguredDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, services.ErrDatabaseNotConfigured
}

func (unconfiguredDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, services.ErrDatabaseNotConfigured
}

func (unconfiguredDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{err: services.ErrDatabaseNotConfigured}
}

func (unconfiguredDB) Begin(context.Context) (pgx.Tx, error) {
	return nil, services.ErrDatabaseNotConfigured
}

func (unconfiguredDB) Ping(context.Context) error {
	return services.ErrDatabaseNotConfigured
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error {
	return r.err
}
