package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/relabs-tech/fake_humans/internal/config"
)

func TestInitializeJSON(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "fake-humans"}, zapcore.AddSync(&buf))

	log := GetLogger()
	log.Debug("hidden")
	log.Warn("published", zap.String("topic", "humans"))
	Sync()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "fake-humans", entry["logger"])
	assert.Equal(t, "published", entry["msg"])
	assert.Equal(t, "humans", entry["topic"])
}

func TestInitializeConsole(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(config.LoggerConfig{Level: "debug", Format: "console"}, zapcore.AddSync(&buf))
	GetLogger().Debug("tick")

	assert.Contains(t, buf.String(), "tick")
	assert.Contains(t, buf.String(), "DEBUG")
}

func TestInitializeWritesLogFile(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	path := filepath.Join(t.TempDir(), "fake_humans.log")
	var buf bytes.Buffer
	Initialize(config.LoggerConfig{Level: "info", Format: "console", LogFile: path, MaxSize: 1}, zapcore.AddSync(&buf))
	GetLogger().Info("to file")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
}

func TestGetLoggerFallback(t *testing.T) {
	ResetForTest()
	assert.NotNil(t, GetLogger())
}
