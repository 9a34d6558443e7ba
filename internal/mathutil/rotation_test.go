package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAngleConversionIsExactThroughFloat32(t *testing.T) {
	// Values as they come off disk: float32 radians widened to float64.
	cases := []float32{0, 1, -1, 0.5235988, math.Pi, -math.Pi / 2, 3.0e-5, 1234.5678, float32(math.Copysign(0, -1))}
	for _, rad := range cases {
		deg := Rad2Deg(float64(rad))
		back := float32(Deg2Rad(deg))
		assert.Equal(t, math.Float32bits(rad), math.Float32bits(back), "radians %v", rad)
	}
}

func TestVec3Degrees(t *testing.T) {
	v := Vec3{math.Pi, math.Pi / 2, 0}.Degrees()
	assert.InDelta(t, 180, v[0], 1e-12)
	assert.InDelta(t, 90, v[1], 1e-12)
	assert.Equal(t, 0.0, v[2])

	r := v.Radians()
	assert.InDelta(t, math.Pi, r[0], 1e-12)
}
