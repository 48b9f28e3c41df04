package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds process-wide configuration, supplied via environment.
type Config struct {
	BotToken     string `envconfig:"BOT_TOKEN" required:"true"`
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY" required:"true"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"models/gemini-1.5-flash"`
	AdminIDs     string `envconfig:"ADMIN_IDS"`
	DBPath       string `envconfig:"BOT_DB" default:"users.db"`
	HTTPAddr     string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from the environment. It fails when a required
// credential is missing so the process never starts with null clients.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	// envconfig only rejects unset variables; a credential exported as an
	// empty string must fail the same way.
	if strings.TrimSpace(cfg.BotToken) == "" {
		return Config{}, fmt.Errorf("load config: BOT_TOKEN is required")
	}
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return Config{}, fmt.Errorf("load config: GEMINI_API_KEY is required")
	}
	return cfg, nil
}

// AdminIDSet parses the comma-separated ADMIN_IDS value into a lookup set.
// Malformed entries are skipped.
func (c Config) AdminIDSet() map[int64]bool {
	admins := make(map[int64]bool)
	for _, part := range strings.Split(c.AdminIDs, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		admins[id] = true
	}
	return admins
}
