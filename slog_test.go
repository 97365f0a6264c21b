package rotlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogHandler(t *testing.T) {
	svc := NewService()
	buf := &bytes.Buffer{}
	require.NoError(t, svc.StartLoggingToStream(buf, LevelInfo, "%l"))

	logger := slog.New(NewSlogHandler(svc.ContextLogger))
	logger.Debug("filtered")
	logger.Info("hello", "user", "ann", "n", 3)
	logger.Warn("spaced", "msg", "two words", "empty", "")
	logger.With("req", 7).WithGroup("db").Error("failed", "table", "users", slog.Group("pool", "size", 4))
	logger.Log(context.Background(), slog.LevelError+4, "boom", "at", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))

	assert.Equal(t,
		"INFO hello user=ann n=3\n"+
			"WARN spaced msg=\"two words\" empty=\"\"\n"+
			"ERROR failed req=7 db.table=users db.pool.size=4\n"+
			"CRIT boom at=2024-01-02T03:04:05Z\n",
		buf.String())
}

func TestSlogHandler_Enabled(t *testing.T) {
	svc := NewService()
	h := NewSlogHandler(svc.Context(3))
	assert.False(t, h.Enabled(context.Background(), slog.LevelError), "inactive logging enables nothing")

	require.NoError(t, svc.StartLoggingToStream(&bytes.Buffer{}, LevelWarning, ""))
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.Same(t, h, h.WithGroup(""))
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, slogLevel(slog.LevelDebug-4))
	assert.Equal(t, LevelDebug, slogLevel(slog.LevelDebug))
	assert.Equal(t, LevelInfo, slogLevel(slog.LevelInfo))
	assert.Equal(t, LevelWarning, slogLevel(slog.LevelWarn))
	assert.Equal(t, LevelError, slogLevel(slog.LevelError))
	assert.Equal(t, LevelCritical, slogLevel(slog.LevelError+1))
}
