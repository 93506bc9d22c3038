// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package humans holds the messages published for tracked humans and their
// visualization markers. Field names follow the JSON schema consumers expect.
package humans

import "time"

// Header stamps a message with its time and reference frame.
type Header struct {
	Stamp   time.Time `json:"stamp"`
	FrameID string    `json:"frame_id"`
}

// Point is a position in meters.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vector3 is a free vector (velocity, scale).
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Pose is a position plus orientation.
type Pose struct {
	Position    Point      `json:"position"`
	Orientation Quaternion `json:"orientation"`
}

// Twist is linear (m/s) and angular (rad/s) velocity.
type Twist struct {
	Linear  Vector3 `json:"linear"`
	Angular Vector3 `json:"angular"`
}

// TrackedHuman is one tracked entity and its kinematic state.
type TrackedHuman struct {
	TrackID uint64 `json:"track_id"`
	Pose    Pose   `json:"pose"`
	Twist   Twist  `json:"twist"`
}

// TrackedHumans is the message published on the humans topic.
type TrackedHumans struct {
	Header Header         `json:"header"`
	Tracks []TrackedHuman `json:"tracks"`
}
