package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinDimension(t *testing.T) {
	// Known value for the default tolerance.
	dim, err := MinDimension(1000, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 331, dim)
}

func TestMinDimensionMonotonicInEps(t *testing.T) {
	// For fixed n the bound is non-increasing as eps grows.
	prev := int(^uint(0) >> 1)
	for _, eps := range []float64{0.1, 0.2, 0.3, 0.5, 0.7, 0.9} {
		dim, err := MinDimension(1000, eps)
		require.NoError(t, err)
		assert.LessOrEqual(t, dim, prev, "eps=%v", eps)
		prev = dim
	}
}

func TestMinDimensionGrowsWithSamples(t *testing.T) {
	small, err := MinDimension(100, 0.5)
	require.NoError(t, err)
	large, err := MinDimension(100000, 0.5)
	require.NoError(t, err)
	assert.Greater(t, large, small)
}

func TestMinDimensionInvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		n    int
		eps  float64
	}{
		{name: "zero samples", n: 0, eps: 0.5},
		{name: "negative samples", n: -5, eps: 0.5},
		{name: "zero eps", n: 100, eps: 0},
		{name: "eps of one", n: 100, eps: 1},
		{name: "negative eps", n: 100, eps: -0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MinDimension(tt.n, tt.eps)
			assert.ErrorIs(t, err, ErrInvalidDimension)
		})
	}
}
