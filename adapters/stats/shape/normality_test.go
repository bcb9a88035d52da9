package shape

import (
	"errors"
	"testing"

	"carestats/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapiroWilk(t *testing.T) {
	tests := []struct {
		name  string
		data  []float64
		wantW float64
		wantP float64
	}{
		{"three evenly spaced", []float64{1, 2, 3}, 1, 1},
		{"three uneven", []float64{1, 2, 4}, 0.9642857142857146, 0.6368868450289714},
		{"small sample", []float64{2.1, 3.4, 1.9, 5.6, 4.4, 3.0, 2.8, 3.9}, 0.9595009259892934, 0.8053322614613856},
		{"outlier", []float64{1, 2, 2, 3, 4, 100}, 0.5205601072813076, 4.469496932557604e-05},
		{"uniform twenty", seq(1, 20), 0.9603751831064349, 0.5513717430400848},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, p, err := ShapiroWilk(tt.data)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantW, w, 1e-6)
			assert.InDelta(t, tt.wantP, p, 1e-6)
		})
	}
}

func TestShapiroWilkRejectsDegenerateSamples(t *testing.T) {
	_, _, err := ShapiroWilk([]float64{1, 2})
	assert.True(t, errors.Is(err, core.ErrInsufficientSample))

	_, _, err = ShapiroWilk([]float64{5, 5, 5, 5})
	assert.True(t, errors.Is(err, core.ErrInsufficientSample))
}

func TestShapiroWilkDoesNotReorderInput(t *testing.T) {
	data := []float64{3, 1, 2, 5}
	_, _, err := ShapiroWilk(data)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2, 5}, data)
}

func TestSWCoefficientsUnitNorm(t *testing.T) {
	for _, n := range []int{4, 5, 6, 11, 12, 50, 5000} {
		a := swCoefficients(n)
		sum := 0.0
		for _, v := range a {
			assert.Greater(t, v, 0.0)
			sum += 2 * v * v
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "n=%d", n)
	}
}

func seq(from, to int) []float64 {
	out := make([]float64, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, float64(i))
	}
	return out
}
