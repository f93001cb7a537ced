package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

type Config struct {
	Env          string `env:"ENV" env-required:"true"`
	LogLevel     string `env:"LOG_LEVEL"`
	HTTP         HTTPConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	JWT          JWTConfig
	SendGrid     SendGridConfig
	Verification VerificationConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	AllowedOrigins  []string      `env:"HTTP_CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

// PostgresConfig leaves URI optional so that a missing connection string
// surfaces as an error response rather than a crash on startup.
type PostgresConfig struct {
	URI            string        `env:"POSTGRES_URI"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

type RedisConfig struct {
	URL         string        `env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
	PingTimeout time.Duration `env:"REDIS_PING_TIMEOUT" env-default:"5s"`
}

type JWTConfig struct {
	SigningKey   string        `env:"JWT_SECRET"`
	Issuer       string        `env:"JWT_ISSUER" env-default:"taskboard"`
	TokenTTL     time.Duration `env:"JWT_TOKEN_TTL" env-default:"24h"`
	SecureCookie bool          `env:"JWT_SECURE_COOKIE" env-default:"false"`
}

type SendGridConfig struct {
	APIKey    string `env:"SENDGRID_API_KEY"`
	FromName  string `env:"SENDGRID_FROM_NAME" env-default:"Taskboard"`
	FromEmail string `env:"SENDGRID_FROM_EMAIL" env-default:"donotreply@taskboard.local"`
}

type VerificationConfig struct {
	CodeTTL time.Duration `env:"VERIFICATION_CODE_TTL" env-default:"24h"`
	// BaseURL is prepended to the verification link sent by email.
	BaseURL string `env:"VERIFICATION_BASE_URL" env-default:"http://localhost:8080"`
}
