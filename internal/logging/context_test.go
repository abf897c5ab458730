package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHandler_AddsContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&ContextHandler{Handler: slog.NewJSONHandler(&buf, nil)})

	ctx := AppendCtx(context.Background(), slog.String("requestId", "req-1"))
	ctx = AppendCtx(ctx, slog.String("invoiceId", "inv-1"))

	logger.InfoContext(ctx, "Fetching invoice")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Fetching invoice", entry["msg"])
	assert.Equal(t, "req-1", entry["requestId"])
	assert.Equal(t, "inv-1", entry["invoiceId"])
}

func TestAppendCtx_DoesNotLeakIntoParent(t *testing.T) {
	parent := AppendCtx(context.Background(), slog.String("requestId", "req-1"))
	_ = AppendCtx(parent, slog.String("invoiceId", "inv-1"))

	assert.Len(t, attrsFromContext(parent), 1)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}
