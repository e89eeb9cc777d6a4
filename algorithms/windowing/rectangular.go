package windowing

// Rectangular is the identity window: every coefficient is 1.0, so
// applying it leaves the signal untouched.
type Rectangular struct {
	size         int
	coefficients []float64
}

// NewRectangular creates a new rectangular (no-op) window
func NewRectangular(size int) *Rectangular {
	r := &Rectangular{size: size}
	r.generate()
	return r
}

func (r *Rectangular) generate() {
	r.coefficients = make([]float64, r.size)
	for i := range r.coefficients {
		r.coefficients[i] = 1.0
	}
}

// Apply applies the window to a signal (creates new array)
func (r *Rectangular) Apply(signal []float64) []float64 {
	return applyWindow(signal, r.coefficients)
}

// ApplyInPlace applies the window to a signal in-place
func (r *Rectangular) ApplyInPlace(signal []float64) error {
	return applyWindowInPlace(signal, r.coefficients)
}

// GetCoefficients returns a copy of the window coefficients
func (r *Rectangular) GetCoefficients() []float64 {
	coeffs := make([]float64, len(r.coefficients))
	copy(coeffs, r.coefficients)
	return coeffs
}

// GetSize returns the window size
func (r *Rectangular) GetSize() int {
	return r.size
}

// GetType returns the window type
func (r *Rectangular) GetType() string {
	return string(TypeRectangular)
}
