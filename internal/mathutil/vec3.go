package mathutil

// Vec3 is a 3-component vector (value type, stack-allocated).
type Vec3 [3]float64

// Vec4 is a 4-component vector, used for RGBA colours and UV-layer offsets.
type Vec4 [4]float64

// Degrees converts each component from radians to degrees.
func (v Vec3) Degrees() Vec3 {
	return Vec3{Rad2Deg(v[0]), Rad2Deg(v[1]), Rad2Deg(v[2])}
}

// Radians converts each component from degrees to radians.
func (v Vec3) Radians() Vec3 {
	return Vec3{Deg2Rad(v[0]), Deg2Rad(v[1]), Deg2Rad(v[2])}
}
