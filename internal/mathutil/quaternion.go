package mathutil

// Quat represents a quaternion (x, y, z, w).
type Quat [4]float64
