package spectral

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
)

// GonumFFT is a FourierEngine backed by gonum's planned real FFT. The
// plan and coefficient buffer are tied to one transform size; a new
// engine is built when the size changes.
type GonumFFT struct {
	plan   *fourier.FFT
	coeffs []complex128
}

// NewGonumFFT creates a planned FFT engine for the given size
func NewGonumFFT(size int) (*GonumFFT, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: fft size must be positive, got %d", ErrEngineUnavailable, size)
	}

	return &GonumFFT{
		plan:   fourier.NewFFT(size),
		coeffs: make([]complex128, size/2+1),
	}, nil
}

// Forward computes the forward transform of signal via the preplanned
// FFT and splits the first len(re) coefficients
func (g *GonumFFT) Forward(signal []float64, re, im []float64) error {
	if len(signal) != g.plan.Len() {
		return fmt.Errorf("signal length (%d) doesn't match plan size (%d)", len(signal), g.plan.Len())
	}
	if len(re) != len(im) || len(re) > len(g.coeffs) {
		return fmt.Errorf("output length mismatch: re=%d im=%d coeffs=%d", len(re), len(im), len(g.coeffs))
	}

	g.plan.Coefficients(g.coeffs, signal)
	for k := range re {
		re[k] = real(g.coeffs[k])
		im[k] = imag(g.coeffs[k])
	}

	return nil
}
