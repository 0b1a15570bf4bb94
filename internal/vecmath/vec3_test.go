package vecmath

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func randomVec(r *rand.Rand) Vec3 {
	return V3(r.Float64()*20-10, r.Float64()*20-10, r.Float64()*20-10)
}

func TestAdd(t *testing.T) {
	assert.Equal(t, V3(5, 7, 9), V3(1, 2, 3).Add(V3(4, 5, 6)))
}

func TestSubAndScale(t *testing.T) {
	assert.Equal(t, V3(-3, -3, -3), V3(1, 2, 3).Sub(V3(4, 5, 6)))
	assert.Equal(t, V3(2, -4, 6), V3(1, -2, 3).Scale(2))
	assert.Equal(t, V3(-1, 2, -3), V3(1, -2, 3).Negate())
}

func TestCrossBasis(t *testing.T) {
	assert.Equal(t, V3(0, 0, 1), V3(1, 0, 0).Cross(V3(0, 1, 0)))
	assert.Equal(t, V3(1, 0, 0), V3(0, 1, 0).Cross(V3(0, 0, 1)))
	assert.Equal(t, V3(0, 1, 0), V3(0, 0, 1).Cross(V3(1, 0, 0)))
}

func TestMagnitude(t *testing.T) {
	assert.InDelta(t, 5.0, V3(3, 4, 0).Magnitude(), eps)
	assert.InDelta(t, 25.0, V3(3, 4, 0).MagnitudeSquared(), eps)
	assert.Zero(t, Zero().Magnitude())
}

func TestAngleBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		want float64
	}{
		{"orthogonal", V3(1, 0, 0), V3(0, 1, 0), math.Pi / 2},
		{"parallel", V3(2, 0, 0), V3(5, 0, 0), 0},
		{"opposite", V3(1, 0, 0), V3(-3, 0, 0), math.Pi},
		{"diagonal", V3(1, 0, 0), V3(1, 1, 0), math.Pi / 4},
		{"zero operand", Zero(), V3(1, 0, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.a.AngleBetween(tt.b), eps)
		})
	}
}

func TestAngleAtDegrees(t *testing.T) {
	mid := V3(1, 1, 1)
	assert.InDelta(t, 90.0, AngleAt(mid.Add(V3(1, 0, 0)), mid, mid.Add(V3(0, 0, 2))), 1e-7)
	assert.InDelta(t, 180.0, AngleAt(V3(-1, 0, 0), Zero(), V3(4, 0, 0)), 1e-7)
	assert.InDelta(t, 45.0, AngleAt(V3(1, 0, 0), Zero(), V3(1, 1, 0)), 1e-7)
	assert.Zero(t, AngleAt(mid, mid, V3(0, 0, 0)))
}

func TestNormalizeZeroVector(t *testing.T) {
	assert.Equal(t, Zero(), Zero().Normalized())

	_, err := Zero().NormalizedChecked()
	require.ErrorIs(t, err, ErrZeroLength)
}

func TestNormalizedHasUnitMagnitude(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		v := randomVec(r)
		if v.IsZero() {
			continue
		}
		assert.InDelta(t, 1.0, v.Normalized().Magnitude(), 1e-12)
		// Direction is preserved.
		assert.InDelta(t, 0.0, v.AngleBetween(v.Normalized()), 1e-6)
	}
}

func TestDotCommutes(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		a, b := randomVec(r), randomVec(r)
		assert.Equal(t, a.Dot(b), b.Dot(a))
	}
}

func TestCrossAnticommutes(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		a, b := randomVec(r), randomVec(r)
		assert.True(t, a.Cross(b).ApproxEqual(b.Cross(a).Negate(), eps), "a=%v b=%v", a, b)
		// The cross product is orthogonal to both operands.
		c := a.Cross(b)
		assert.InDelta(t, 0.0, c.Dot(a), 1e-9)
		assert.InDelta(t, 0.0, c.Dot(b), 1e-9)
	}
}

func TestDistanceSymmetric(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 500; i++ {
		a, b := randomVec(r), randomVec(r)
		assert.Equal(t, Distance(a, b), Distance(b, a))
		assert.Zero(t, Distance(a, a))
		assert.InDelta(t, Distance(a, b)*Distance(a, b), DistanceSquared(a, b), 1e-9)
	}
}

func TestLerp(t *testing.T) {
	a, b := V3(0, 0, 0), V3(2, 4, -6)
	assert.Equal(t, a, Lerp(a, b, 0))
	assert.Equal(t, b, Lerp(a, b, 1))
	assert.Equal(t, V3(1, 2, -3), Lerp(a, b, 0.5))
}

func TestEquality(t *testing.T) {
	assert.True(t, V3(1, 2, 3).Equal(V3(1, 2, 3)))
	assert.False(t, V3(1, 2, 3).Equal(V3(1, 2, 3.0000001)))
	assert.True(t, V3(1, 2, 3).ApproxEqual(V3(1, 2, 3.0000001), 1e-6))
}
