// Package physics implements the 100 Hz rigid-body simulation: skater and
// puck kinematics, collision-ball hulls, rink/net collision, friction, and
// the puck-stick coupling.
package physics

import "hqmgo/internal/rotation"

type Vec3 = rotation.Vec3
type Mat3 = rotation.Mat3

// Body is shared state for any simulated rigid object: position,
// velocity, orientation and its rate of change.
type Body struct {
	Pos             Vec3
	LinearVelocity  Vec3
	Rot             Mat3
	AngularVelocity Vec3
	// RotMul is the per-axis angular-damping vector: it scales how
	// strongly a collision's angular impulse (offset x impulse) turns
	// into angular velocity, differing between skaters (harder to spin)
	// and pucks (free to tumble).
	RotMul Vec3
}

// Integrate advances the body by one tick: position by linear velocity,
// orientation by the rotation whose axis is angular velocity and whose
// magnitude is its norm (identity when zero). Gravity is applied by the
// caller (skaters only fall while airborne; pucks always do).
func (b *Body) Integrate() {
	b.Pos = rotation.Add(b.Pos, b.LinearVelocity)
	angle := rotation.Length(b.AngularVelocity)
	if angle != 0 {
		delta := rotation.FromAxisAngle(b.AngularVelocity, angle)
		b.Rot = rotation.MulMat(delta, b.Rot)
	}
}

// ApplyAngularImpulse turns a collision's (offset x impulse) torque into a
// change in angular velocity, scaled per axis by RotMul.
func (b *Body) ApplyAngularImpulse(offset, impulse Vec3) {
	torque := rotation.Cross(offset, impulse)
	b.AngularVelocity = rotation.Add(b.AngularVelocity, Vec3{
		torque[0] * b.RotMul[0],
		torque[1] * b.RotMul[1],
		torque[2] * b.RotMul[2],
	})
}
