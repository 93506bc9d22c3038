// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package humans

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quaternion is a unit rotation with the scalar part in W.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// IdentityQuaternion is the zero rotation.
func IdentityQuaternion() Quaternion {
	return fromMgl(mgl64.QuatIdent())
}

// QuaternionFromYaw returns the rotation of yaw radians about +Z.
func QuaternionFromYaw(yaw float64) Quaternion {
	return fromMgl(mgl64.QuatRotate(yaw, mgl64.Vec3{0, 0, 1}))
}

// Yaw extracts the heading about +Z, in (-π, π].
func (q Quaternion) Yaw() float64 {
	siny := 2 * (q.W*q.Z + q.X*q.Y)
	cosy := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	return math.Atan2(siny, cosy)
}

func fromMgl(q mgl64.Quat) Quaternion {
	return Quaternion{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}
}
