package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestNewWithWriterFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "warn")
	l.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), `"message":"shown"`)
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info")
	ctx := WithContext(context.Background(), l)

	fromCtx := FromContext(ctx)
	fromCtx.Info().Msg("from ctx")
	assert.Contains(t, buf.String(), "from ctx")

	// No logger in context: disabled logger, no panic.
	dropped := FromContext(context.Background())
	dropped.Info().Msg("dropped")
}
