package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogReturns(t *testing.T) {
	r, err := LogReturns([]float64{100, 110, 99})
	require.NoError(t, err)
	require.Len(t, r, 2)
	assert.InDelta(t, math.Log(1.1), r[0], 1e-15)
	assert.InDelta(t, math.Log(0.9), r[1], 1e-15)
}

func TestLogReturns_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
	}{
		{"empty", nil},
		{"single", []float64{100}},
		{"zero", []float64{100, 0, 100}},
		{"negative", []float64{-1, 100}},
		{"nan", []float64{100, math.NaN()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LogReturns(tt.prices)
			assert.Error(t, err)
		})
	}
}

func TestMeanStdDev(t *testing.T) {
	mean, std, err := MeanStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, mean, 1e-12)
	// sample (n-1) estimator: sqrt(32/7)
	assert.InDelta(t, math.Sqrt(32.0/7.0), std, 1e-12)
}

func TestMeanStdDev_SingleObservation(t *testing.T) {
	mean, std, err := MeanStdDev([]float64{0.25})
	require.NoError(t, err)
	assert.Equal(t, 0.25, mean)
	assert.Equal(t, 0.0, std)

	_, _, err = MeanStdDev(nil)
	assert.Error(t, err)
}

func TestPercentileSorted_Linear(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	tests := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{2.5, 1.1},
		{25, 2},
		{50, 3},
		{62.5, 3.5},
		{97.5, 4.9},
		{100, 5},
	}
	for _, tt := range tests {
		got, err := PercentileSorted(x, tt.q)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-12, "q=%v", tt.q)
	}
}

func TestPercentileSorted_EvenCountMedian(t *testing.T) {
	got, err := PercentileSorted([]float64{10, 20, 30, 40}, 50)
	require.NoError(t, err)
	assert.Equal(t, 25.0, got)
}

func TestPercentileSorted_Degenerate(t *testing.T) {
	x := []float64{100, 100, 100}
	for _, q := range []float64{2.5, 50, 97.5} {
		got, err := PercentileSorted(x, q)
		require.NoError(t, err)
		assert.Equal(t, 100.0, got)
	}
	got, err := PercentileSorted([]float64{7}, 97.5)
	require.NoError(t, err)
	assert.Equal(t, 7.0, got)
}

func TestPercentileSorted_Invalid(t *testing.T) {
	_, err := PercentileSorted(nil, 50)
	assert.Error(t, err)
	_, err = PercentileSorted([]float64{1}, 101)
	assert.Error(t, err)
	_, err = PercentileSorted([]float64{1}, -1)
	assert.Error(t, err)
}
