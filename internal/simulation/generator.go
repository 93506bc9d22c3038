// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package simulation

import (
	"time"

	"github.com/relabs-tech/fake_humans/internal/humans"
)

// Source is anything that can provide human tracks over time.
type Source interface {
	Next(stamp time.Time) (humans.TrackedHumans, humans.Marker)
}

// Generator wraps a State and builds the outgoing messages for each tick.
type Generator struct {
	state   *State
	frameID string
	marker  humans.Marker
}

// NewGenerator creates a generator for one human walking seg, stamping
// messages with frameID.
func NewGenerator(seg Segment, frameID string) *Generator {
	st := NewState(seg)
	marker := humans.NewArrowMarker(st.Human.TrackID)
	marker.Pose = st.Human.Pose
	return &Generator{state: st, frameID: frameID, marker: marker}
}

// State exposes the simulation state, mainly for logging and tests.
func (g *Generator) State() *State {
	return g.state
}

// Next advances the simulation one tick. The track message always holds
// exactly one human; the marker mirrors its pose, id and header.
func (g *Generator) Next(stamp time.Time) (humans.TrackedHumans, humans.Marker) {
	human := g.state.Step()
	header := humans.Header{Stamp: stamp, FrameID: g.frameID}

	msg := humans.TrackedHumans{
		Header: header,
		Tracks: []humans.TrackedHuman{human},
	}

	g.marker.Header = header
	g.marker.ID = human.TrackID
	g.marker.Pose = human.Pose
	return msg, g.marker
}
