// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/relabs-tech/fake_humans/internal/app"
	"github.com/relabs-tech/fake_humans/internal/cli"
	"github.com/relabs-tech/fake_humans/internal/config"
)

func main() {
	cli.Execute(cli.NewCommand(
		"humans_web",
		"serve the latest tracked humans over HTTP and websocket (MQTT subscriber)",
		func(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
			return app.RunWeb(ctx, cfg, "web", log)
		},
	))
}
