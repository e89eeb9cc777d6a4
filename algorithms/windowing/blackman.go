package windowing

import (
	"math"
)

// Blackman represents a Blackman window function
type Blackman struct {
	size         int
	coefficients []float64
}

// NewBlackman creates a new Blackman window
func NewBlackman(size int) *Blackman {
	b := &Blackman{size: size}
	b.generate()
	return b
}

// generate creates Blackman window coefficients
func (b *Blackman) generate() {
	b.coefficients = make([]float64, b.size)

	if b.size == 1 {
		// degenerate single-sample window is identity
		b.coefficients[0] = 1.0
		return
	}

	a0, a1, a2 := 0.42, 0.5, 0.08
	denominator := float64(b.size - 1)

	for i := 0; i < b.size; i++ {
		arg := 2 * math.Pi * float64(i) / denominator
		b.coefficients[i] = a0 - a1*math.Cos(arg) + a2*math.Cos(2*arg)
	}
}

// Apply applies the window to a signal (creates new array)
func (b *Blackman) Apply(signal []float64) []float64 {
	return applyWindow(signal, b.coefficients)
}

// ApplyInPlace applies the window to a signal in-place
func (b *Blackman) ApplyInPlace(signal []float64) error {
	return applyWindowInPlace(signal, b.coefficients)
}

// GetCoefficients returns a copy of the window coefficients
func (b *Blackman) GetCoefficients() []float64 {
	coeffs := make([]float64, len(b.coefficients))
	copy(coeffs, b.coefficients)
	return coeffs
}

// GetSize returns the window size
func (b *Blackman) GetSize() int {
	return b.size
}

// GetType returns the window type
func (b *Blackman) GetType() string {
	return string(TypeBlackman)
}
