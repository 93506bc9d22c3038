// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"

	"github.com/relabs-tech/fake_humans/internal/config"
	"github.com/relabs-tech/fake_humans/internal/humans"
	"github.com/relabs-tech/fake_humans/internal/simulation"
	"github.com/relabs-tech/fake_humans/internal/transport"
)

// printSink writes every message it receives as a console line.
type printSink struct {
	out io.Writer
}

func (p printSink) Send(msg any) {
	switch m := msg.(type) {
	case humans.TrackedHumans:
		fmt.Fprintln(p.out, FormatTracks(m))
	case humans.Marker:
		fmt.Fprintln(p.out, FormatMarker(m))
	}
}

// RunMockConsole runs the simulation locally and prints it, no broker needed.
func RunMockConsole(ctx context.Context, cfg *config.Config, out io.Writer) error {
	seg := simulation.Segment{
		Start: humans.Point{X: cfg.StartX, Y: cfg.StartY},
		End:   humans.Point{X: cfg.EndX, Y: cfg.EndY},
	}
	sink := printSink{out: out}

	var markers transport.Sink
	if cfg.PublishMarkers {
		markers = sink
	}
	p := NewProducer(simulation.NewGenerator(seg, cfg.FrameID), sink, markers, nil)
	return p.Run(ctx, simulation.TickPeriod)
}
