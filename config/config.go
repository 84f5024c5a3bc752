package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        int64       `envconfig:"PORT" default:"5000"`
	RedisServer RedisServer `envconfig:"REDIS"`

	SweepInterval       time.Duration `envconfig:"SWEEP_INTERVAL" default:"15s"`
	StaleAfter          time.Duration `envconfig:"STALE_AFTER" default:"10s"`
	ParticipantCacheTTL time.Duration `envconfig:"PARTICIPANT_CACHE_TTL" default:"500ms"`
}

type RedisServer struct {
	Addr     string `envconfig:"ADDR" default:"localhost:6379"`
	User     string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0"`
}

// LoadConfig loads the configuration from the environment. A local .env
// file is applied first when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("fail to process environment config, err: %w", err)
	}
	return &cfg, nil
}
