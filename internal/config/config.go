package config

import "time"

// Config holds all application configuration.
type Config struct {
	Supabase SupabaseConfig `mapstructure:"supabase"`
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Log      LogConfig      `mapstructure:"log"`
	Covers   CoversConfig   `mapstructure:"covers"`
}

type SupabaseConfig struct {
	URL     string `mapstructure:"url" validate:"required,url"`
	AnonKey string `mapstructure:"anon_key" validate:"required"`
	// JWTSecret enables local verification of access tokens when set.
	JWTSecret   string        `mapstructure:"jwt_secret"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout" validate:"gt=0"`
}

type ServerConfig struct {
	Addr               string        `mapstructure:"addr" validate:"required"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
	RateLimitRPS       float64       `mapstructure:"rate_limit_rps" validate:"gt=0"`
	RateLimitBurst     int           `mapstructure:"rate_limit_burst" validate:"gt=0"`
	MaxBodyBytes       int64         `mapstructure:"max_body_bytes" validate:"gt=0"`
	EnableHSTS         bool          `mapstructure:"enable_hsts"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

type StoreConfig struct {
	Driver  string        `mapstructure:"driver" validate:"oneof=postgrest postgres"`
	DSN     string        `mapstructure:"dsn" validate:"required_if=Driver postgres"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json logfmt"`
}

// CoversConfig controls the Open Library cover lookup for new catalog books.
type CoversConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	UserAgent  string        `mapstructure:"user_agent" validate:"required_if=Enabled true"`
	RPS        float64       `mapstructure:"rps" validate:"gt=0"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
}
