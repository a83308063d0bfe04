package mathutil

import "math"

// Mat4 is a column-major 4x4 matrix, grounded on the reference pack's
// networking math library. The core only needs it to turn an entity's
// yaw into a facing direction (command posts, mounted machine guns),
// so only identity, rotation and transform are implemented.
type Mat4 struct {
	M [16]float64
}

// Identity4 returns the identity matrix.
func Identity4() Mat4 {
	var m Mat4
	m.M[0], m.M[5], m.M[10], m.M[15] = 1, 1, 1, 1
	return m
}

// RotateZ returns a rotation matrix of angle radians about the Z axis,
// used to turn an entity's yaw into a facing direction in the XY plane.
func RotateZ(angle float64) Mat4 {
	m := Identity4()
	c, s := math.Cos(angle), math.Sin(angle)
	m.M[0], m.M[1] = c, s
	m.M[4], m.M[5] = -s, c
	return m
}

// Transform applies m to v as a point (w=1).
func (m Mat4) Transform(v Vec3) Vec3 {
	x := m.M[0]*v.X + m.M[4]*v.Y + m.M[8]*v.Z + m.M[12]
	y := m.M[1]*v.X + m.M[5]*v.Y + m.M[9]*v.Z + m.M[13]
	z := m.M[2]*v.X + m.M[6]*v.Y + m.M[10]*v.Z + m.M[14]
	return Vec3{x, y, z}
}

// Forward returns the unit forward vector (+X, rotated by yaw) for an
// entity's facing, used by mountable machine guns to aim their hit tests.
func Forward(yaw float64) Vec3 {
	return RotateZ(yaw).Transform(Vec3{X: 1})
}
