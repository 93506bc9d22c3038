// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package simulation moves a single fake human back and forth along a
// straight segment and derives its velocity from consecutive poses.
package simulation

import (
	"math"
	"time"

	"github.com/relabs-tech/fake_humans/internal/humans"
)

const (
	// LoopRate is the nominal publish rate in Hz.
	LoopRate = 10.0
	// PoseUpdateRate slows the oscillation relative to LoopRate.
	PoseUpdateRate = 20.0

	// TrackID is the identifier of the only simulated human.
	TrackID uint64 = 1

	// PhaseStep is the phase advance per tick.
	PhaseStep = math.Pi / LoopRate / PoseUpdateRate
)

// TickPeriod is the nominal time between ticks.
const TickPeriod = time.Second / time.Duration(LoopRate)

// Segment is the path the human walks on.
type Segment struct {
	Start humans.Point
	End   humans.Point
}

// State is the mutable simulation state, owned by the caller's loop.
type State struct {
	start        humans.Pose
	displacement humans.Vector3

	Human    humans.TrackedHuman
	Previous humans.Pose
	Phase    float64
}

// NewState places the human on the segment start, standing still.
// Z is always 0 and both endpoint orientations are the identity.
func NewState(seg Segment) *State {
	start := humans.Pose{
		Position:    humans.Point{X: seg.Start.X, Y: seg.Start.Y},
		Orientation: humans.IdentityQuaternion(),
	}
	return &State{
		start: start,
		displacement: humans.Vector3{
			X: seg.End.X - seg.Start.X,
			Y: seg.End.Y - seg.Start.Y,
		},
		Human:    humans.TrackedHuman{TrackID: TrackID, Pose: start},
		Previous: start,
	}
}

// Interpolation maps a phase to a position factor in [0, 1].
func Interpolation(phase float64) float64 {
	return (math.Sin(phase) + 1) / 2
}

// PositionAt returns the point on the segment for the given phase.
func (s *State) PositionAt(phase float64) humans.Point {
	k := Interpolation(phase)
	return humans.Point{
		X: s.start.Position.X + s.displacement.X*k,
		Y: s.start.Position.Y + s.displacement.Y*k,
	}
}

// Step moves the human to the position for the current phase, recomputes
// heading and velocity against the previous pose, then remembers the new pose
// and advances the phase. It returns the updated track.
//
// Velocities use the nominal TickPeriod, not the measured time between calls.
func (s *State) Step() humans.TrackedHuman {
	pos := s.PositionAt(s.Phase)

	dx := pos.X - s.Previous.Position.X
	dy := pos.Y - s.Previous.Position.Y
	heading := math.Atan2(dy, dx)

	period := TickPeriod.Seconds()
	s.Human.Pose = humans.Pose{
		Position:    pos,
		Orientation: humans.QuaternionFromYaw(heading),
	}
	s.Human.Twist = humans.Twist{
		Linear:  humans.Vector3{X: dx / period, Y: dy / period},
		Angular: humans.Vector3{Z: NormalizeAngle(heading-s.Previous.Orientation.Yaw()) / period},
	}

	s.Previous = s.Human.Pose
	s.Phase += PhaseStep
	return s.Human
}

// NormalizeAngle wraps a into [-π, π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
