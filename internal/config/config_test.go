package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("GEMINI_API_KEY", "key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "123:abc", cfg.BotToken)
	require.Equal(t, "key", cfg.GeminiAPIKey)
	require.Equal(t, "models/gemini-1.5-flash", cfg.GeminiModel)
	require.Equal(t, "users.db", cfg.DBPath)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_MissingBotToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("GEMINI_API_KEY", "key")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "BOT_TOKEN")
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoad_BlankCredentialRejected(t *testing.T) {
	// set but whitespace-only must behave like absent
	t.Setenv("BOT_TOKEN", "   ")
	t.Setenv("GEMINI_API_KEY", "key")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "BOT_TOKEN")
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("GEMINI_MODEL", "models/gemini-2.0-pro")
	t.Setenv("BOT_DB", "/tmp/bot.db")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "models/gemini-2.0-pro", cfg.GeminiModel)
	require.Equal(t, "/tmp/bot.db", cfg.DBPath)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestAdminIDSet(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want map[int64]bool
	}{
		{"empty", "", map[int64]bool{}},
		{"single", "123", map[int64]bool{123: true}},
		{"multiple with spaces", " 123, 456 ,789", map[int64]bool{123: true, 456: true, 789: true}},
		{"malformed entries skipped", "123,abc,,456", map[int64]bool{123: true, 456: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{AdminIDs: tc.raw}
			require.Equal(t, tc.want, cfg.AdminIDSet())
		})
	}
}
