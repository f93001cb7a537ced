package config

import (
	"testing"
	"time"
)

func TestEnvReaderRead(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:    "missing env fails",
			env:     map[string]string{"ENV": ""},
			wantErr: true,
		},
		{
			name:    "unknown env fails",
			env:     map[string]string{"ENV": "staging"},
			wantErr: true,
		},
		{
			name: "defaults are applied",
			env:  map[string]string{"ENV": EnvProd},
			check: func(t *testing.T, cfg *Config) {
				if cfg.JWT.TokenTTL != 24*time.Hour {
					t.Errorf("JWT.TokenTTL = %v, want 24h", cfg.JWT.TokenTTL)
				}
				if cfg.HTTP.Port != "8080" {
					t.Errorf("HTTP.Port = %q, want 8080", cfg.HTTP.Port)
				}
				if cfg.HTTP.ShutdownTimeout != 5*time.Second {
					t.Errorf("HTTP.ShutdownTimeout = %v, want 5s", cfg.HTTP.ShutdownTimeout)
				}
			},
		},
		{
			name: "explicit values override defaults",
			env: map[string]string{
				"ENV":                       EnvDev,
				"JWT_SECRET":                "s3cret",
				"JWT_TOKEN_TTL":             "1h",
				"POSTGRES_URI":              "postgres://u:p@localhost:5432/tasks",
				"HTTP_CORS_ALLOWED_ORIGINS": "http://a.test,http://b.test",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.JWT.SigningKey != "s3cret" {
					t.Errorf("JWT.SigningKey = %q, want s3cret", cfg.JWT.SigningKey)
				}
				if cfg.JWT.TokenTTL != time.Hour {
					t.Errorf("JWT.TokenTTL = %v, want 1h", cfg.JWT.TokenTTL)
				}
				if cfg.Postgres.URI == "" {
					t.Error("Postgres.URI is empty")
				}
				if len(cfg.HTTP.AllowedOrigins) != 2 {
					t.Errorf("HTTP.AllowedOrigins = %v, want 2 entries", cfg.HTTP.AllowedOrigins)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := NewEnvReader().Read()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Read() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
