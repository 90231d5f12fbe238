package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("INFO"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(""))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("bogus"))
	assert.Equal(t, zerolog.Disabled, ParseLevel("off"))
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Format: "json", Output: &buf})

	logger.Info().Str("side", "source").Int("records", 3).Msg("extracted")
	logger.Debug().Msg("hidden")

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `"side":"source"`)
	assert.Contains(t, out, `"records":3`)
	assert.NotContains(t, out, "hidden")
}

func TestNew_AutoFormatNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Format: "auto", Output: &buf})

	logger.Warn().Msg("duplicates found")
	assert.Contains(t, buf.String(), `"message":"duplicates found"`)
}

func TestConfigure(t *testing.T) {
	original := *Default()
	defer SetDefault(original)

	var buf bytes.Buffer
	Configure(Config{Level: "debug", Format: "json", Output: &buf})
	Default().Debug().Msg("configured")

	assert.Contains(t, buf.String(), "configured")
}
