package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nightdial/sunrise-engine/pkg/engine"
	"github.com/nightdial/sunrise-engine/pkg/state"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level
	RedisURL    string

	// Session tuning, all overridable per deployment.
	DebounceMs          int
	DebounceFloorMs     int
	MinSpeechConfidence float64
	AmbientFearPerMin   float64
	NightEventChance    int
	MinutesPerTick      int
	TickIntervalMs      int
	PruneSpentItems     bool
	SessionTTL          time.Duration
}

func Load() *Config {
	return &Config{
		Port:                getEnv("PORT", "8080"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		LogLevel:            parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:            getEnv("REDIS_URL", "localhost:6379"),
		DebounceMs:          getEnvInt("DEBOUNCE_MS", 1000),
		DebounceFloorMs:     getEnvInt("DEBOUNCE_FLOOR_MS", 800),
		MinSpeechConfidence: getEnvFloat("MIN_SPEECH_CONFIDENCE", 0),
		AmbientFearPerMin:   getEnvFloat("AMBIENT_FEAR_PER_MINUTE", 0.05),
		NightEventChance:    getEnvInt("NIGHT_EVENT_CHANCE", 70),
		MinutesPerTick:      getEnvInt("MINUTES_PER_TICK", 1),
		TickIntervalMs:      getEnvInt("TICK_INTERVAL_MS", 2000),
		PruneSpentItems:     getEnvBool("PRUNE_SPENT_ITEMS", false),
		SessionTTL:          time.Duration(getEnvInt("SESSION_TTL_MINUTES", 120)) * time.Minute,
	}
}

// Engine maps the deployment tuning onto an engine configuration.
func (c *Config) Engine() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.DebounceWindow = time.Duration(c.DebounceMs) * time.Millisecond
	cfg.DebounceFloor = time.Duration(c.DebounceFloorMs) * time.Millisecond
	cfg.MinSpeechConfidence = c.MinSpeechConfidence
	cfg.AmbientFearPerMinute = c.AmbientFearPerMin
	cfg.NightEventChance = c.NightEventChance
	cfg.MinutesPerTick = c.MinutesPerTick
	cfg.TickInterval = time.Duration(c.TickIntervalMs) * time.Millisecond
	cfg.Use = state.UseOptions{
		DurabilityCost: cfg.Use.DurabilityCost,
		PruneSpent:     c.PruneSpentItems,
	}
	return cfg
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
