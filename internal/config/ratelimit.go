package config

import (
	"time"

	"github.com/webvibe/supportdesk/pkg/logger"
)

type RateLimitConfig struct {
	Enabled bool
	MaxHits int
	Window  time.Duration
}

func GetRateLimitConfig(key string) RateLimitConfig {
	enabled := GetEnvOrDefault("RATELIMIT_ENABLED", "false") == "true"

	configs := map[string]RateLimitConfig{
		"question": {
			Enabled: enabled,
			MaxHits: parseEnvInt("RATELIMIT_QUESTION", 60), // 60 questions per minute
			Window:  time.Minute,
		},
		"websocket": {
			Enabled: enabled,
			MaxHits: parseEnvInt("RATELIMIT_WEBSOCKET", 10), // 10 new sockets per minute
			Window:  time.Minute,
		},
	}

	if config, exists := configs[key]; exists {
		return config
	}

	logger.Warn(logger.CONFIG, "No rate limit config found for key: %s", key)
	return RateLimitConfig{Enabled: false}
}
