package windowing

import (
	"fmt"
)

// Type identifies a window function kind
type Type string

const (
	TypeBlackman            Type = "blackman"
	TypeHamming             Type = "hamming"
	TypeHanningNormalized   Type = "hanning-normalized"
	TypeHanningDenormalized Type = "hanning-denormalized"
	TypeRectangular         Type = "none"
)

// Window is the common interface implemented by all window functions
type Window interface {
	// Apply applies the window to a signal (creates new array)
	Apply(signal []float64) []float64

	// ApplyInPlace applies the window to a signal in-place
	ApplyInPlace(signal []float64) error

	// GetCoefficients returns a copy of the window coefficients
	GetCoefficients() []float64

	// GetSize returns the window size
	GetSize() int

	// GetType returns the window type
	GetType() string
}

// ParseType converts a window name into a Type
func ParseType(name string) (Type, error) {
	switch Type(name) {
	case TypeBlackman, TypeHamming, TypeHanningNormalized, TypeHanningDenormalized, TypeRectangular:
		return Type(name), nil
	default:
		return "", fmt.Errorf("unknown window type: %q", name)
	}
}

// New creates a window of the given type and size
func New(windowType Type, size int) (Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", size)
	}

	switch windowType {
	case TypeBlackman:
		return NewBlackman(size), nil
	case TypeHamming:
		return NewHamming(size), nil
	case TypeHanningNormalized:
		return NewHanningNormalized(size), nil
	case TypeHanningDenormalized:
		return NewHanningDenormalized(size), nil
	case TypeRectangular:
		return NewRectangular(size), nil
	default:
		return nil, fmt.Errorf("unknown window type: %q", windowType)
	}
}

// Generate returns the coefficient table for the given window type and size
func Generate(windowType Type, size int) ([]float64, error) {
	w, err := New(windowType, size)
	if err != nil {
		return nil, err
	}
	return w.GetCoefficients(), nil
}

// applyWindow multiplies a signal by coefficients into a new slice.
// Shared by all window implementations.
func applyWindow(signal, coefficients []float64) []float64 {
	if len(signal) != len(coefficients) {
		return nil
	}

	windowed := make([]float64, len(signal))
	for i := range signal {
		windowed[i] = signal[i] * coefficients[i]
	}

	return windowed
}

// applyWindowInPlace multiplies a signal by coefficients in place
func applyWindowInPlace(signal, coefficients []float64) error {
	if len(signal) != len(coefficients) {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), len(coefficients))
	}

	for i := range signal {
		signal[i] *= coefficients[i]
	}

	return nil
}
