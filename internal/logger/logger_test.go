package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"retail-ledger/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, config.LogConfig{Level: "debug", Format: "json"}))
	l.Debug("sale recorded", "sale_id", 7)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "{"), "expected JSON output, got %q", out)
	assert.Contains(t, out, `"sale_id":7`)
}

func TestNewHandler_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, config.LogConfig{Level: "warn"}))
	l.Info("hidden")
	l.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	l, closer, err := New(config.LogConfig{File: path, Level: "info"})
	require.NoError(t, err)

	l.Info("opened ledger")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "opened ledger")
}

func TestGorm_ReachesInfoLevelHandler(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, config.LogConfig{Level: "info"}))
	g := Gorm(l, false)

	g.Error(ctx, "open %s", "ledger.db")
	g.Warn(ctx, "deprecated pragma")
	g.Trace(ctx, time.Now(), func() (string, int64) { return "UPDATE products SET sold = sold + 1", 0 },
		errors.New("disk I/O error"))

	out := buf.String()
	assert.Contains(t, out, "level=ERROR msg=\"open ledger.db\"")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "disk I/O error")
	assert.Contains(t, out, "UPDATE products")
}

func TestGorm_StatementsOnlyWhenVerbose(t *testing.T) {
	ctx := context.Background()
	stmt := func() (string, int64) { return "SELECT * FROM categories", 3 }

	var quiet bytes.Buffer
	Gorm(slog.New(NewHandler(&quiet, config.LogConfig{Level: "info"})), false).Trace(ctx, time.Now(), stmt, nil)
	assert.Empty(t, quiet.String())

	var loud bytes.Buffer
	Gorm(slog.New(NewHandler(&loud, config.LogConfig{Level: "info"})), true).Trace(ctx, time.Now(), stmt, nil)
	assert.Contains(t, loud.String(), "SELECT * FROM categories")

	var slow bytes.Buffer
	Gorm(slog.New(NewHandler(&slow, config.LogConfig{Level: "info"})), false).
		Trace(ctx, time.Now().Add(-time.Second), stmt, nil)
	assert.Contains(t, slow.String(), "slow sql")
}

func TestGorm_RecordNotFoundIsQuiet(t *testing.T) {
	var buf bytes.Buffer
	g := Gorm(slog.New(NewHandler(&buf, config.LogConfig{Level: "info"})), false)
	g.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, gormlogger.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	silent := g.LogMode(gormlogger.Silent)
	silent.Error(context.Background(), "hidden")
	assert.Empty(t, buf.String())
}
