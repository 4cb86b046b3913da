package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	appCtx "github.com/innerlight-app/otp-service/internal/pkg/context"
	"github.com/stretchr/testify/assert"
)

func TestInitWithWriter_JSONFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")

	var buf bytes.Buffer
	InitWithWriter(&buf)

	Logger.Debug().Msg("hello")
	assert.True(t, strings.Contains(buf.String(), `"message":"hello"`))
}

func TestInitWithWriter_LevelFiltering(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "warn")

	var buf bytes.Buffer
	InitWithWriter(&buf)

	Logger.Info().Msg("dropped")
	assert.Empty(t, buf.String())

	Logger.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestWithCtx_AttachesRequestID(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "info")

	var buf bytes.Buffer
	InitWithWriter(&buf)

	ctx := appCtx.WithRequestID(context.Background(), "req-123")
	l := WithCtx(ctx)
	l.Info().Msg("with id")

	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
}
