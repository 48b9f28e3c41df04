package log

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{" INFO ", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, parseLevel(tc.in), "level=%q", tc.in)
	}
}

func TestNew(t *testing.T) {
	logger := New("debug")
	require.NotNil(t, logger)
	require.Equal(t, zerolog.DebugLevel, logger.GetLevel())
}
