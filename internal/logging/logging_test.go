package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "debug", Format: FormatJSON, Output: &buf})

	logger.Info().Str("operation", "test").Msg("hello")

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "info", event["level"])
	assert.Equal(t, "hello", event["message"])
	assert.Equal(t, "test", event["operation"])
	assert.Contains(t, event, "time")
}

func TestNewLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "warn", Format: FormatJSON, Output: &buf})

	logger.Debug().Msg("dropped")
	logger.Info().Msg("dropped too")
	assert.Zero(t, buf.Len())

	logger.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "chatty", Format: FormatJSON, Output: &buf})

	logger.Debug().Msg("dropped")
	assert.Zero(t, buf.Len())
	logger.Info().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	root := NewLogger(Config{Format: FormatJSON, Output: &buf})

	engineLogger := ComponentLogger(root, "engine")
	engineLogger.Info().Msg("tagged")

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "engine", event["component"])
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: FormatJSON, Output: &buf})

	ctx := WithContext(context.Background(), logger)
	FromContext(ctx).Info().Msg("via context")
	assert.Contains(t, buf.String(), "via context")
}

func TestFromContextWithoutLogger(t *testing.T) {
	log := FromContext(context.Background())
	require.NotNil(t, log)
	assert.Equal(t, zerolog.Disabled, log.GetLevel())
	log.Info().Msg("discarded") // must not panic
}
