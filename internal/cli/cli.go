// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package cli builds the cobra command shared by the binaries in cmd/.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/relabs-tech/fake_humans/internal/config"
	"github.com/relabs-tech/fake_humans/internal/observability"
)

// DefaultConfigPath is read when --config is not given.
const DefaultConfigPath = "./fake_humans_config.txt"

// RunFunc is the body of a command, called once config and logging are ready.
type RunFunc func(ctx context.Context, cfg *config.Config, log *zap.Logger) error

// NewCommand returns a command that loads the config file, applies flag and
// FAKE_HUMANS_* environment overrides, sets up logging and calls run with a
// context cancelled on SIGINT/SIGTERM.
func NewCommand(use, short string, run RunFunc) *cobra.Command {
	v := config.NewViper()
	var configPath string

	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loadErr := config.InitGlobal(configPath, v)
			cfg := config.Get()
			if cfg == nil {
				return fmt.Errorf("failed to load config: %w", loadErr)
			}

			observability.InitializeLogger(cfg.Logger)
			defer observability.Sync()
			log := observability.GetLogger()

			if errors.Is(loadErr, config.ErrNotFound) {
				log.Warn("config file not found, using defaults", zap.String("path", configPath))
			}
			for _, key := range cfg.UnknownKeys {
				log.Warn("ignoring unknown config key", zap.String("key", key), zap.String("path", configPath))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("starting " + use)
			return run(ctx, cfg, log)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", DefaultConfigPath, "path to configuration file")
	flags.Float64("start-x", config.DefaultStartX, "segment start X (m)")
	flags.Float64("start-y", config.DefaultStartY, "segment start Y (m)")
	flags.Float64("end-x", config.DefaultEndX, "segment end X (m)")
	flags.Float64("end-y", config.DefaultEndY, "segment end Y (m)")
	flags.Bool("publish-markers", config.DefaultPublishMarkers, "also publish a visualization marker")
	flags.String("mqtt-broker", config.DefaultMQTTBroker, "MQTT broker URL")
	flags.String("topic-humans", config.DefaultTopicHumans, "topic for tracked humans")
	flags.String("topic-humans-marker", config.DefaultTopicHumansMarker, "topic for markers")
	flags.Int("web-server-port", config.DefaultWebServerPort, "web viewer port")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-format", "console", "console or json")
	flags.String("log-file", "", "also write JSON logs to this rotated file")

	for _, key := range config.OverrideKeys {
		if err := v.BindPFlag(key, flags.Lookup(flagName(key))); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", key, err))
		}
	}
	return cmd
}

// flagName turns an override key such as start_x into start-x.
func flagName(key string) string {
	b := []byte(key)
	for i, c := range b {
		if c == '_' {
			b[i] = '-'
		}
	}
	return string(b)
}

// Execute runs cmd and exits non-zero on error.
func Execute(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		observability.GetLogger().Error("command failed", zap.Error(err))
		observability.Sync()
		os.Exit(1)
	}
}
