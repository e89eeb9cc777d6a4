package windowing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAllTypes(t *testing.T) {
	for _, windowType := range []Type{
		TypeBlackman,
		TypeHamming,
		TypeHanningNormalized,
		TypeHanningDenormalized,
		TypeRectangular,
	} {
		w, err := New(windowType, 64)
		require.NoError(t, err, "window type %s", windowType)
		assert.Equal(t, 64, w.GetSize())
		assert.Equal(t, string(windowType), w.GetType())
		assert.Len(t, w.GetCoefficients(), 64)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(Type("triangular"), 64)
	assert.Error(t, err)

	_, err = New(TypeBlackman, 0)
	assert.Error(t, err)

	_, err = New(TypeBlackman, -8)
	assert.Error(t, err)
}

func TestParseType(t *testing.T) {
	parsed, err := ParseType("blackman")
	require.NoError(t, err)
	assert.Equal(t, TypeBlackman, parsed)

	_, err = ParseType("bogus")
	assert.Error(t, err)
}

func TestRectangularIsIdentity(t *testing.T) {
	w := NewRectangular(8)

	signal := []float64{0.5, -1.0, 0.25, 0.0, 1.0, -0.75, 0.1, 0.9}
	windowed := w.Apply(signal)
	assert.Equal(t, signal, windowed)

	for _, c := range w.GetCoefficients() {
		assert.Equal(t, 1.0, c)
	}
}

func TestWindowSymmetry(t *testing.T) {
	for _, windowType := range []Type{TypeBlackman, TypeHamming, TypeHanningNormalized, TypeHanningDenormalized} {
		w, err := New(windowType, 65)
		require.NoError(t, err)

		coeffs := w.GetCoefficients()
		for i := 0; i < len(coeffs)/2; i++ {
			assert.InDelta(t, coeffs[i], coeffs[len(coeffs)-1-i], 1e-12,
				"%s coefficient %d not mirrored", windowType, i)
		}
	}
}

func TestHanningPeaks(t *testing.T) {
	// Odd size puts the exact peak at the center coefficient
	normalized := NewHanningNormalized(1025)
	assert.InDelta(t, 1.0, normalized.GetCoefficients()[512], 1e-12)

	denormalized := NewHanningDenormalized(1025)
	assert.InDelta(t, 2.0, denormalized.GetCoefficients()[512], 1e-12)
}

func TestBlackmanEndpoints(t *testing.T) {
	coeffs := NewBlackman(64).GetCoefficients()

	// 0.42 - 0.5 + 0.08 at both edges
	assert.InDelta(t, 0.0, coeffs[0], 1e-12)
	assert.InDelta(t, 0.0, coeffs[63], 1e-12)
}

func TestHammingEndpoints(t *testing.T) {
	coeffs := NewHamming(64).GetCoefficients()

	assert.InDelta(t, 0.08, coeffs[0], 1e-12)
	assert.InDelta(t, 0.08, coeffs[63], 1e-12)
}

func TestApplyInPlaceLengthMismatch(t *testing.T) {
	w := NewHamming(16)

	err := w.ApplyInPlace(make([]float64, 8))
	assert.Error(t, err)

	assert.Nil(t, w.Apply(make([]float64, 8)))
}

func TestSingleSampleWindowIsIdentity(t *testing.T) {
	for _, windowType := range []Type{TypeBlackman, TypeHamming, TypeHanningNormalized, TypeHanningDenormalized, TypeRectangular} {
		table, err := Generate(windowType, 1)
		require.NoError(t, err)
		require.Len(t, table, 1)
		assert.Equal(t, 1.0, table[0], "window type %s", windowType)
	}
}

func TestGetCoefficientsReturnsCopy(t *testing.T) {
	w := NewHanningNormalized(8)

	coeffs := w.GetCoefficients()
	coeffs[3] = 42.0

	assert.NotEqual(t, 42.0, w.GetCoefficients()[3])
}
