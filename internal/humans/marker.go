// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package humans

// MarkerType is the shape drawn by a visualizer.
type MarkerType int

const (
	MarkerArrow MarkerType = iota
	MarkerCube
	MarkerSphere
	MarkerCylinder
)

// MarkerAction tells the visualizer what to do with the marker id.
type MarkerAction int

const (
	// MarkerModify adds the marker or replaces the one with the same id.
	MarkerModify MarkerAction = 0
	MarkerDelete MarkerAction = 2
)

// ColorRGBA components are in [0, 1].
type ColorRGBA struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Marker is the display-only view of a tracked human.
type Marker struct {
	Header Header       `json:"header"`
	ID     uint64       `json:"id"`
	Type   MarkerType   `json:"type"`
	Action MarkerAction `json:"action"`
	Pose   Pose         `json:"pose"`
	Scale  Vector3      `json:"scale"`
	Color  ColorRGBA    `json:"color"`
}

// NewArrowMarker returns the arrow drawn for a human track: 0.5 m long,
// olive, fully opaque.
func NewArrowMarker(id uint64) Marker {
	return Marker{
		ID:     id,
		Type:   MarkerArrow,
		Action: MarkerModify,
		Pose:   Pose{Orientation: IdentityQuaternion()},
		Scale:  Vector3{X: 0.5, Y: 0.08, Z: 0.08},
		Color:  ColorRGBA{R: 0.5, G: 0.5, B: 0.0, A: 1.0},
	}
}
