package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		baseline    []float64
		speculative []float64
		want        []float64
	}{
		{"empty", nil, nil, []float64{}},
		{"faster", []float64{100, 50, 25, 12.5}, []float64{60, 30, 15, 7.5}, []float64{0.6, 0.6, 0.6, 0.6}},
		{"slower", []float64{2, 4}, []float64{3, 4}, []float64{1.5, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.baseline, tt.speculative)
			require.NoError(t, err)
			require.Len(t, got, len(tt.baseline))
			assert.InDeltaSlice(t, tt.want, got, 1e-12)
			for i := range got {
				assert.Equal(t, tt.speculative[i]/tt.baseline[i], got[i])
			}
		})
	}
}

func TestNormalize_LengthMismatch(t *testing.T) {
	got, err := Normalize([]float64{1, 2, 3}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrLengthMismatch)
	assert.Nil(t, got)
}

func TestNormalize_ZeroBaseline(t *testing.T) {
	_, err := Normalize([]float64{1, 0}, []float64{1, 1})
	assert.ErrorIs(t, err, ErrZeroBaseline)
}
