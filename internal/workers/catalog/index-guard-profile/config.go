package indexguardprofile

import (
	"time"

	"guard-matching/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(wc config.WorkerConfig) *Config {
	cfg := &Config{Timeout: 15 * time.Second}
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}
