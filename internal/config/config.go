package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort  string
	DatabaseURL string

	JWT struct {
		Secret string
		TTL    time.Duration
	}

	RedisAddr string

	Log struct {
		Level string
		Mode  string
		File  string
	}

	RateLimit struct {
		RPS   float64
		Burst int
	}

	Login struct {
		MaxStrikes  int
		BanDuration time.Duration
	}

	DashboardBackendURL string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", "8080")
	v.SetDefault("jwt_ttl", 30*time.Minute)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_mode", "production")
	v.SetDefault("rate_limit_rps", 1.0)
	v.SetDefault("rate_limit_burst", 5)
	v.SetDefault("login_max_strikes", 5)
	v.SetDefault("login_ban_duration", 15*time.Minute)
	v.SetDefault("dashboard_backend_url", "http://127.0.0.1:8080")
}

// Load reads configuration from the environment. A .env file in the working
// directory, if present, is loaded first and never overrides variables that
// are already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{"database_url", "jwt_secret", "redis_addr", "log_file"} {
		_ = v.BindEnv(key)
	}

	cfg := &Config{
		ServerPort:          v.GetString("server_port"),
		DatabaseURL:         v.GetString("database_url"),
		RedisAddr:           v.GetString("redis_addr"),
		DashboardBackendURL: strings.TrimRight(v.GetString("dashboard_backend_url"), "/"),
	}
	cfg.JWT.Secret = v.GetString("jwt_secret")
	cfg.JWT.TTL = v.GetDuration("jwt_ttl")
	cfg.Log.Level = v.GetString("log_level")
	cfg.Log.Mode = v.GetString("log_mode")
	cfg.Log.File = v.GetString("log_file")
	cfg.RateLimit.RPS = v.GetFloat64("rate_limit_rps")
	cfg.RateLimit.Burst = v.GetInt("rate_limit_burst")
	cfg.Login.MaxStrikes = v.GetInt("login_max_strikes")
	cfg.Login.BanDuration = v.GetDuration("login_ban_duration")

	if cfg.JWT.TTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be positive, got %s", cfg.JWT.TTL)
	}
	if cfg.RateLimit.RPS <= 0 || cfg.RateLimit.Burst <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	return cfg, nil
}

// ValidateServer checks the settings only the API server needs.
func (c *Config) ValidateServer() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	return nil
}
