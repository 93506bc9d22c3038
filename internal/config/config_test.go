package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1.0, cfg.StartX)
	assert.Equal(t, 1.0, cfg.StartY)
	assert.Equal(t, 2.0, cfg.EndX)
	assert.Equal(t, 2.0, cfg.EndY)
	assert.Equal(t, DefaultEndX, DefaultEndY, "END_Y default follows the END_X constant")
	assert.False(t, cfg.PublishMarkers)
	assert.Equal(t, "humans", cfg.TopicHumans)
	assert.Equal(t, "humans_marker", cfg.TopicHumansMarker)
	assert.Equal(t, "humans_frame", cfg.FrameID)
	assert.NoError(t, cfg.validate())
}

func TestParse(t *testing.T) {
	t.Run("overrides only the keys present", func(t *testing.T) {
		cfg, err := Parse(strings.NewReader(`
# comment
start_x = 0
START_Y=-1.5
END_X=10
publish_markers=true
MQTT_BROKER=tcp://broker:1883
`))
		require.NoError(t, err)

		assert.Equal(t, 0.0, cfg.StartX)
		assert.Equal(t, -1.5, cfg.StartY)
		assert.Equal(t, 10.0, cfg.EndX)
		assert.Equal(t, DefaultEndY, cfg.EndY)
		assert.True(t, cfg.PublishMarkers)
		assert.Equal(t, "tcp://broker:1883", cfg.MQTTBroker)
	})

	t.Run("unknown keys are skipped and reported", func(t *testing.T) {
		cfg, err := Parse(strings.NewReader("FOO=1\nEND_X=3\nbar_baz = x\n"))
		require.NoError(t, err)
		assert.Equal(t, 3.0, cfg.EndX)
		assert.Equal(t, []string{"FOO", "BAR_BAZ"}, cfg.UnknownKeys)
	})

	t.Run("empty input gives defaults", func(t *testing.T) {
		cfg, err := Parse(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	errorCases := []struct {
		name  string
		input string
		want  string
	}{
		{"missing equals", "START_X 1", "invalid config line 1"},
		{"bad float", "END_X=abc", "invalid END_X"},
		{"bad bool", "PUBLISH_MARKERS=maybe", "invalid PUBLISH_MARKERS"},
		{"NaN coordinate", "START_X=NaN", "START_X must be a finite number"},
		{"infinite coordinate", "END_Y=-Inf", "END_Y must be a finite number"},
		{"huge segment", "START_X=-1e308\nEND_X=1e308", "START_X must be within"},
		{"coordinate out of range", "END_X=2e9", "END_X must be within"},
		{"bad queue size", "MARKER_QUEUE_SIZE=0", "MARKER_QUEUE_SIZE must be at least 1"},
		{"bad log format", "LOG_FORMAT=xml", "LOG_FORMAT must be console or json"},
		{"empty broker", "MQTT_BROKER=", "MQTT_BROKER must not be empty"},
		{"bad port", "WEB_SERVER_PORT=70000", "WEB_SERVER_PORT must be 1-65535"},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.Equal(t, Default(), cfg)
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.txt")
		require.NoError(t, os.WriteFile(path, []byte("END_Y=5\nLOG_LEVEL=DEBUG\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 5.0, cfg.EndY)
		assert.Equal(t, "debug", cfg.Logger.Level)
	})
}

func TestApplyOverrides(t *testing.T) {
	t.Run("viper values and environment", func(t *testing.T) {
		t.Setenv("FAKE_HUMANS_END_Y", "7.25")
		v := NewViper()
		v.Set("start_x", 3.5)
		v.Set("publish_markers", true)

		cfg := Default()
		require.NoError(t, ApplyOverrides(cfg, v))

		assert.Equal(t, 3.5, cfg.StartX)
		assert.Equal(t, 7.25, cfg.EndY)
		assert.True(t, cfg.PublishMarkers)
		assert.Equal(t, DefaultStartY, cfg.StartY, "unset keys are untouched")
	})

	t.Run("non-finite override", func(t *testing.T) {
		t.Setenv("FAKE_HUMANS_START_Y", "NaN")
		err := ApplyOverrides(Default(), NewViper())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "START_Y must be a finite number")
	})

	t.Run("invalid override", func(t *testing.T) {
		v := NewViper()
		v.Set("end_x", "left")
		err := ApplyOverrides(Default(), v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "override end_x")
	})
}

func TestInitGlobal(t *testing.T) {
	resetForTest()
	t.Cleanup(resetForTest)

	assert.Nil(t, Get())

	v := NewViper()
	v.Set("start_y", 4)
	err := InitGlobal(filepath.Join(t.TempDir(), "missing.txt"), v)
	assert.True(t, errors.Is(err, ErrNotFound))

	cfg := Get()
	require.NotNil(t, cfg)
	assert.Equal(t, 4.0, cfg.StartY)

	// second call is a no-op
	require.NoError(t, InitGlobal("ignored", nil))
	assert.Same(t, cfg, Get())
}
