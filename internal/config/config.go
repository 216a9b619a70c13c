package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPPort       string `envconfig:"HTTP_PORT" default:"8080"`
	BackendBaseURL string `envconfig:"BACKEND_BASE_URL" default:"http://localhost:9000/api"`

	// RedisAddr selects the Redis-backed session store; empty falls back to
	// the file store under DataDir.
	RedisAddr string `envconfig:"REDIS_ADDR"`
	DataDir   string `envconfig:"DATA_DIR" default:"./data"`

	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Payment view timers.
	CountdownInterval time.Duration `envconfig:"COUNTDOWN_INTERVAL" default:"1s"`
	PollInterval      time.Duration `envconfig:"POLL_INTERVAL" default:"10s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	// A local .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
