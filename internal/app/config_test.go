package app

import (
	"testing"
	"time"

	"github.com/specialistvlad/equigrid/internal/publish"
	"github.com/specialistvlad/equigrid/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	// --- Act ---
	cfg, err := NewConfig(Config{Inline: []string{"x = 1"}})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, report.FormatText, cfg.Format)
}

func TestNewConfig_NormalizesFormat(t *testing.T) {
	cfg, err := NewConfig(Config{Paths: []string{"."}, Format: "JSON"})
	require.NoError(t, err)
	assert.Equal(t, report.FormatJSON, cfg.Format)
}

func TestNewConfig_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"no input", Config{}, "at least one workspace path or inline equation is required"},
		{"log level", Config{Paths: []string{"."}, LogLevel: "trace"}, "invalid log-level"},
		{"log format", Config{Paths: []string{"."}, LogFormat: "xml"}, "invalid log-format"},
		{"report format", Config{Paths: []string{"."}, Format: "toml"}, "unknown format"},
		{"port", Config{Paths: []string{"."}, HealthcheckPort: -1}, "invalid healthcheck-port"},
		{"debounce", Config{Paths: []string{"."}, Debounce: -time.Second}, "invalid debounce"},
		{"publish", Config{Paths: []string{"."}, Publish: publish.Options{URL: "not a url"}}, "invalid publish options"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConfig(tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
