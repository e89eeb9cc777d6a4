package windowing

import (
	"math"
)

// Hanning represents a Hann (raised cosine) window function.
// The normalized form peaks at 1.0; the denormalized form is the
// unscaled 1-cos shape peaking at 2.0, which preserves overall signal
// energy when averaged over a full period.
type Hanning struct {
	size         int
	normalized   bool
	coefficients []float64
}

// NewHanningNormalized creates a Hann window scaled to a 1.0 peak
func NewHanningNormalized(size int) *Hanning {
	h := &Hanning{size: size, normalized: true}
	h.generate()
	return h
}

// NewHanningDenormalized creates an unscaled Hann window with a 2.0 peak
func NewHanningDenormalized(size int) *Hanning {
	h := &Hanning{size: size, normalized: false}
	h.generate()
	return h
}

// generate creates Hann window coefficients
func (h *Hanning) generate() {
	h.coefficients = make([]float64, h.size)

	if h.size == 1 {
		h.coefficients[0] = 1.0
		return
	}

	scale := 1.0
	if h.normalized {
		scale = 0.5
	}

	denominator := float64(h.size - 1)

	for i := 0; i < h.size; i++ {
		h.coefficients[i] = scale * (1.0 - math.Cos(2*math.Pi*float64(i)/denominator))
	}
}

// Apply applies the window to a signal (creates new array)
func (h *Hanning) Apply(signal []float64) []float64 {
	return applyWindow(signal, h.coefficients)
}

// ApplyInPlace applies the window to a signal in-place
func (h *Hanning) ApplyInPlace(signal []float64) error {
	return applyWindowInPlace(signal, h.coefficients)
}

// GetCoefficients returns a copy of the window coefficients
func (h *Hanning) GetCoefficients() []float64 {
	coeffs := make([]float64, len(h.coefficients))
	copy(coeffs, h.coefficients)
	return coeffs
}

// GetSize returns the window size
func (h *Hanning) GetSize() int {
	return h.size
}

// GetType returns the window type
func (h *Hanning) GetType() string {
	if h.normalized {
		return string(TypeHanningNormalized)
	}
	return string(TypeHanningDenormalized)
}
