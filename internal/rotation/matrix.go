package rotation

import "math"

// Identity3 is the 3x3 identity rotation.
func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// MulMatVec applies m (stored column-major) to v.
func MulMatVec(m Mat3, v Vec3) Vec3 {
	return Add(Add(Scale(m[0], v[0]), Scale(m[1], v[1])), Scale(m[2], v[2]))
}

// MulMat composes a*b (apply b, then a).
func MulMat(a, b Mat3) Mat3 {
	return Mat3{MulMatVec(a, b[0]), MulMatVec(a, b[1]), MulMatVec(a, b[2])}
}

// FromAxisAngle builds the rotation matrix for a right-handed rotation of
// angle radians about axis (which need not be normalized; a zero-length
// axis yields identity). Used by the physics integrator to turn one tick's
// angular_velocity vector (axis = direction, magnitude = angle) into the
// incremental rotation applied to a body's orientation.
func FromAxisAngle(axis Vec3, angle float32) Mat3 {
	n := Length(axis)
	if n == 0 || angle == 0 {
		return Identity3()
	}
	a := Scale(axis, 1/n)
	s := float32(math.Sin(float64(angle)))
	c := float32(math.Cos(float64(angle)))
	t := 1 - c

	x, y, z := a[0], a[1], a[2]
	// Row-major Rodrigues construction, then transposed into our
	// column-major Mat3 storage.
	r00, r01, r02 := t*x*x+c, t*x*y-s*z, t*x*z+s*y
	r10, r11, r12 := t*x*y+s*z, t*y*y+c, t*y*z-s*x
	r20, r21, r22 := t*x*z-s*y, t*y*z+s*x, t*z*z+c

	return Mat3{
		{r00, r10, r20},
		{r01, r11, r21},
		{r02, r12, r22},
	}
}
