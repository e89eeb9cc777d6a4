package spectral

import (
	"fmt"

	"github.com/mjibson/go-dsp/fft"
)

// FourierEngine performs the forward real-to-half-complex transform.
// Forward consumes a real signal of length N (power of two) and fills
// re and im, each of length N/2, with the one-sided spectrum. For a
// fixed engine configuration the output is a pure function of the
// input.
type FourierEngine interface {
	Forward(signal []float64, re, im []float64) error
}

// EngineFactory builds a FourierEngine for a given transform size. The
// analyzer calls it on construction and again whenever the sample
// count changes.
type EngineFactory func(size int) (FourierEngine, error)

// FFT is the default FourierEngine, backed by mjibson/go-dsp. It is
// stateless and valid for any power-of-two length.
type FFT struct{}

// NewFFT creates a new FFT engine
func NewFFT() *FFT {
	return &FFT{}
}

// Forward computes the forward transform of signal and splits the
// first len(re) coefficients into real and imaginary parts
func (f *FFT) Forward(signal []float64, re, im []float64) error {
	if len(re) != len(im) {
		return fmt.Errorf("output length mismatch: re=%d im=%d", len(re), len(im))
	}
	if len(re) > len(signal)/2 {
		return fmt.Errorf("requested %d bins from %d samples", len(re), len(signal))
	}

	bins := fft.FFTReal(signal)
	for k := range re {
		re[k] = real(bins[k])
		im[k] = imag(bins[k])
	}

	return nil
}
