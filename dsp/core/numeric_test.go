package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Clamp(tt.value, tt.min, tt.max), 0)
		})
	}
}

func TestClampParam(t *testing.T) {
	assert.InDelta(t, 0.4, ClampParam(math.NaN(), 0, 1, 0.4), 0, "NaN falls back to default")
	assert.InDelta(t, 1.0, ClampParam(math.Inf(1), 0, 1, 0.4), 0, "+Inf saturates to max")
	assert.InDelta(t, 0.0, ClampParam(math.Inf(-1), 0, 1, 0.4), 0, "-Inf saturates to min")
	assert.InDelta(t, 0.25, ClampParam(0.25, 0, 1, 0.4), 0)
}

func TestNearlyEqual(t *testing.T) {
	assert.True(t, NearlyEqual(1.0, 1.0+1e-13, 1e-12))
	assert.False(t, NearlyEqual(1.0, 1.1, 1e-3))
}

func TestFlushDenormals(t *testing.T) {
	assert.Zero(t, FlushDenormals(1e-35))
	assert.Zero(t, FlushDenormals(-1e-35))
	assert.InDelta(t, 1e-3, FlushDenormals(1e-3), 0)
}

func TestLinearToDB(t *testing.T) {
	assert.InDelta(t, -6.020599913279624, LinearToDB(0.5), 1e-12)
	assert.True(t, math.IsInf(LinearToDB(0), -1))
	assert.True(t, math.IsNaN(LinearToDB(-1)))
}
