// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"github.com/relabs-tech/fake_humans/internal/app"
	"github.com/relabs-tech/fake_humans/internal/cli"
)

func main() {
	cli.Execute(cli.NewCommand(
		"fake_humans",
		"publish a fake human walking back and forth (simulation → MQTT)",
		app.RunHumanProducer,
	))
}
