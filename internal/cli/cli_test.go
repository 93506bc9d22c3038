package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/relabs-tech/fake_humans/internal/config"
)

func TestFlagName(t *testing.T) {
	assert.Equal(t, "start-x", flagName("start_x"))
	assert.Equal(t, "topic-humans-marker", flagName("topic_humans_marker"))
}

func TestEveryOverrideKeyHasAFlag(t *testing.T) {
	cmd := NewCommand("test", "test", func(context.Context, *config.Config, *zap.Logger) error { return nil })
	for _, key := range config.OverrideKeys {
		assert.NotNil(t, cmd.Flags().Lookup(flagName(key)), key)
	}
}

func TestCommandAppliesFlagsOverDefaults(t *testing.T) {
	var got *config.Config
	cmd := NewCommand("test", "test", func(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
		require.NotNil(t, ctx)
		require.NotNil(t, log)
		got = cfg
		return nil
	})
	cmd.SetArgs([]string{
		"--config", filepath.Join(t.TempDir(), "missing.txt"),
		"--start-x", "0",
		"--end-x", "10",
		"--end-y", "0",
		"--publish-markers",
	})

	require.NoError(t, cmd.Execute())
	require.NotNil(t, got)
	assert.Equal(t, 0.0, got.StartX)
	assert.Equal(t, config.DefaultStartY, got.StartY)
	assert.Equal(t, 10.0, got.EndX)
	assert.Equal(t, 0.0, got.EndY)
	assert.True(t, got.PublishMarkers)
}
