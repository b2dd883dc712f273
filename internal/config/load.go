package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var envBindings = []struct {
	key    string
	envVar string
}{
	{"supabase.url", "SUPABASE_URL"},
	{"supabase.anon_key", "SUPABASE_ANON_KEY"},
	{"supabase.jwt_secret", "SUPABASE_JWT_SECRET"},
	{"supabase.http_timeout", "HTTP_CLIENT_TIMEOUT"},
	{"server.addr", "APP_ADDR"},
	{"server.cors_allowed_origins", "CORS_ALLOWED_ORIGINS"},
	{"server.rate_limit_rps", "RATE_LIMIT_RPS"},
	{"server.rate_limit_burst", "RATE_LIMIT_BURST"},
	{"server.max_body_bytes", "MAX_BODY_BYTES"},
	{"server.enable_hsts", "ENABLE_HSTS"},
	{"server.shutdown_timeout", "SHUTDOWN_TIMEOUT"},
	{"store.driver", "STORE_DRIVER"},
	{"store.dsn", "DB_DSN"},
	{"store.timeout", "DB_TIMEOUT"},
	{"log.level", "LOG_LEVEL"},
	{"log.format", "LOG_FORMAT"},
	{"covers.enabled", "COVER_LOOKUP_ENABLED"},
	{"covers.user_agent", "OPENLIBRARY_USER_AGENT"},
	{"covers.rps", "OPENLIBRARY_RPS"},
	{"covers.timeout", "OPENLIBRARY_TIMEOUT"},
}

// Load reads .env files from the working directory, then the process
// environment, and validates the result. Variables already set in the
// environment are never overridden by the files.
func Load() (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetDefault("supabase.http_timeout", 10*time.Second)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rate_limit_rps", 10.0)
	v.SetDefault("server.rate_limit_burst", 20)
	v.SetDefault("server.max_body_bytes", int64(1<<20))
	v.SetDefault("server.enable_hsts", false)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("store.driver", "postgrest")
	v.SetDefault("store.timeout", 5*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("covers.enabled", false)
	v.SetDefault("covers.user_agent", "bookshelf/0.1")
	v.SetDefault("covers.rps", 1.0)
	v.SetDefault("covers.timeout", 3*time.Second)

	for _, b := range envBindings {
		if err := v.BindEnv(b.key, b.envVar); err != nil {
			return nil, fmt.Errorf("bind %s: %w", b.envVar, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	cfg.Server.CORSAllowedOrigins = cleanList(cfg.Server.CORSAllowedOrigins)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func loadEnvFiles() {
	// .env.local is read first so its values win over .env.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")
}

func cleanList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, s := range strings.Split(item, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
