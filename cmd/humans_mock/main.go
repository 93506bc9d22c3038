// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/relabs-tech/fake_humans/internal/app"
	"github.com/relabs-tech/fake_humans/internal/cli"
	"github.com/relabs-tech/fake_humans/internal/config"
)

func main() {
	cli.Execute(cli.NewCommand(
		"humans_mock",
		"run the fake human locally and print it (no broker)",
		func(ctx context.Context, cfg *config.Config, _ *zap.Logger) error {
			return app.RunMockConsole(ctx, cfg, os.Stdout)
		},
	))
}
