package spectral

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/audiolens/spectro/algorithms/common"
	"github.com/audiolens/spectro/algorithms/windowing"
	"github.com/audiolens/spectro/logging"
)

var (
	// ErrInvalidConfiguration indicates a sample count that is not a
	// power of two, an unknown window type, or an out-of-range
	// smoothing factor. The analyzer keeps its previous configuration.
	ErrInvalidConfiguration = errors.New("invalid analyzer configuration")

	// ErrLengthMismatch indicates an input signal whose length differs
	// from the configured sample count. Previous results are untouched.
	ErrLengthMismatch = errors.New("signal length mismatch")

	// ErrEngineUnavailable indicates the Fourier engine could not be
	// built for otherwise valid parameters. No usable analyzer exists.
	ErrEngineUnavailable = errors.New("fourier engine unavailable")
)

// SpectrumAnalyzer computes a smoothed magnitude spectrum from
// fixed-length blocks of a real-valued signal. Each Analyze call runs
// window -> forward transform -> magnitude -> scale -> smooth over
// buffers allocated once per configuration.
//
// An analyzer is not safe for concurrent use; callers feeding it from
// multiple goroutines must serialize externally.
type SpectrumAnalyzer struct {
	sampleCount int
	windowType  windowing.Type
	smoothing   float64
	scale       float64

	windowTable []float64
	windowed    []float64
	realParts   []float64
	imagParts   []float64
	spectrum    []float64
	smoothed    []float64

	engine    FourierEngine
	newEngine EngineFactory
	logger    logging.Logger
}

// Option configures a SpectrumAnalyzer at construction time
type Option func(*SpectrumAnalyzer)

// WithEngineFactory overrides the Fourier engine used for the forward
// transform. The default is the go-dsp backed FFT; NewGonumFFT is the
// planned alternative.
func WithEngineFactory(factory EngineFactory) Option {
	return func(a *SpectrumAnalyzer) {
		a.newEngine = factory
	}
}

// WithLogger sets the logger used by the analyzer
func WithLogger(logger logging.Logger) Option {
	return func(a *SpectrumAnalyzer) {
		a.logger = logger
	}
}

// NewSpectrumAnalyzer creates an analyzer for blocks of sampleCount
// samples. sampleCount must be a power of two; smoothingFactor must be
// in [0, 1), where 0 disables temporal smoothing.
func NewSpectrumAnalyzer(sampleCount int, windowType windowing.Type, smoothingFactor float64, opts ...Option) (*SpectrumAnalyzer, error) {
	a := &SpectrumAnalyzer{
		newEngine: func(int) (FourierEngine, error) { return NewFFT(), nil },
		logger: logging.WithFields(logging.Fields{
			"component": "spectrum_analyzer",
		}),
	}

	for _, opt := range opts {
		opt(a)
	}

	if err := validateSmoothing(smoothingFactor); err != nil {
		return nil, err
	}
	a.smoothing = smoothingFactor

	if err := a.configure(sampleCount, windowType); err != nil {
		return nil, err
	}

	return a, nil
}

// configure validates sampleCount, rebuilds the engine and re-derives
// every buffer. Nothing is committed until all steps succeed, so a
// failed reconfiguration leaves the previous state intact.
func (a *SpectrumAnalyzer) configure(sampleCount int, windowType windowing.Type) error {
	if !common.IsPowerOfTwo(sampleCount) {
		return fmt.Errorf("%w: sample count %d is not a power of two", ErrInvalidConfiguration, sampleCount)
	}

	table, err := windowing.Generate(windowType, sampleCount)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	engine, err := a.newEngine(sampleCount)
	if err != nil {
		if errors.Is(err, ErrEngineUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}

	bins := sampleCount / 2

	a.sampleCount = sampleCount
	a.windowType = windowType
	a.windowTable = table
	a.windowed = make([]float64, sampleCount)
	a.realParts = make([]float64, bins)
	a.imagParts = make([]float64, bins)
	a.spectrum = make([]float64, bins)
	a.smoothed = make([]float64, bins)
	a.engine = engine

	// Display scale: maps typical full-scale input into roughly [0, 1].
	// A full-scale sine concentrates N/2 of raw magnitude into one bin,
	// so 2/(N/2) puts that bin at 2.0 before windowing losses.
	a.scale = 0.0
	if bins > 0 {
		a.scale = 2.0 / float64(bins)
	}

	a.logger.Debug("analyzer configured", logging.Fields{
		"sample_count": sampleCount,
		"window":       string(windowType),
		"bins":         bins,
	})

	return nil
}

func validateSmoothing(factor float64) error {
	if factor < 0 || factor >= 1 {
		return fmt.Errorf("%w: smoothing factor %g outside [0, 1)", ErrInvalidConfiguration, factor)
	}
	return nil
}

// Analyze runs the analysis pipeline over one signal block. The signal
// length must equal the configured sample count. On error no internal
// state changes and previous spectra remain readable.
func (a *SpectrumAnalyzer) Analyze(signal []float64) error {
	if len(signal) != a.sampleCount {
		return fmt.Errorf("%w: got %d samples, configured for %d", ErrLengthMismatch, len(signal), a.sampleCount)
	}

	floats.MulTo(a.windowed, signal, a.windowTable)

	if err := a.engine.Forward(a.windowed, a.realParts, a.imagParts); err != nil {
		return fmt.Errorf("forward transform: %w", err)
	}

	for k := range a.spectrum {
		a.spectrum[k] = math.Hypot(a.realParts[k], a.imagParts[k]) * a.scale
	}

	if a.smoothing > 0 {
		// Peak hold with geometric decay: rise instantly to a new
		// peak, otherwise decay the held value.
		for k := range a.smoothed {
			decayed := a.smoothed[k] * a.smoothing
			if a.spectrum[k] > decayed {
				a.smoothed[k] = a.spectrum[k]
			} else {
				a.smoothed[k] = decayed
			}
		}
	}

	return nil
}

// SetWindowType switches the window function, recomputing only the
// coefficient table. All other buffers and the engine are untouched.
func (a *SpectrumAnalyzer) SetWindowType(windowType windowing.Type) error {
	table, err := windowing.Generate(windowType, a.sampleCount)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	a.windowType = windowType
	a.windowTable = table
	return nil
}

// SetSampleCount changes the block size, re-deriving every buffer and
// the engine. The previous configuration survives a failed call.
func (a *SpectrumAnalyzer) SetSampleCount(sampleCount int) error {
	return a.configure(sampleCount, a.windowType)
}

// SetSmoothingFactor updates the smoothing factor, which must be in
// [0, 1). Setting 0 disables smoothing; the held values are retained
// and resume decaying if smoothing is re-enabled.
func (a *SpectrumAnalyzer) SetSmoothingFactor(factor float64) error {
	if err := validateSmoothing(factor); err != nil {
		return err
	}
	a.smoothing = factor
	return nil
}

// Reset zeroes the raw spectrum and the smoothing state
func (a *SpectrumAnalyzer) Reset() {
	for k := range a.spectrum {
		a.spectrum[k] = 0
		a.smoothed[k] = 0
	}
}

// GetSpectrum returns a copy of the current magnitude spectrum: the
// smoothed view when smoothing is enabled, the raw view otherwise.
func (a *SpectrumAnalyzer) GetSpectrum() []float64 {
	if a.smoothing > 0 {
		return copySlice(a.smoothed)
	}
	return copySlice(a.spectrum)
}

// GetRawSpectrum returns a copy of the unsmoothed spectrum from the
// most recent Analyze call
func (a *SpectrumAnalyzer) GetRawSpectrum() []float64 {
	return copySlice(a.spectrum)
}

// GetReal returns a copy of the real parts of the last transform output
func (a *SpectrumAnalyzer) GetReal() []float64 {
	return copySlice(a.realParts)
}

// GetImaginary returns a copy of the imaginary parts of the last
// transform output
func (a *SpectrumAnalyzer) GetImaginary() []float64 {
	return copySlice(a.imagParts)
}

// GetWindow returns a copy of the window coefficient table
func (a *SpectrumAnalyzer) GetWindow() []float64 {
	return copySlice(a.windowTable)
}

// GetSpectrumDB returns the active spectrum in decibels, flooring
// every bin at floorDB
func (a *SpectrumAnalyzer) GetSpectrumDB(floorDB float64) []float64 {
	spectrum := a.smoothed
	if a.smoothing == 0 {
		spectrum = a.spectrum
	}

	db := make([]float64, len(spectrum))
	for k, mag := range spectrum {
		db[k] = floorDB
		if mag > 0 {
			if v := 20.0 * math.Log10(mag); v > floorDB {
				db[k] = v
			}
		}
	}
	return db
}

// GetPeakBin returns the index and magnitude of the strongest bin of
// the active spectrum. An empty spectrum yields (0, 0).
func (a *SpectrumAnalyzer) GetPeakBin() (int, float64) {
	spectrum := a.smoothed
	if a.smoothing == 0 {
		spectrum = a.spectrum
	}

	peakBin := 0
	peakMag := 0.0
	for k, mag := range spectrum {
		if mag > peakMag {
			peakMag = mag
			peakBin = k
		}
	}
	return peakBin, peakMag
}

// BinFrequency returns the center frequency in Hz of a bin for the
// given sample rate
func (a *SpectrumAnalyzer) BinFrequency(bin int, sampleRate float64) float64 {
	return float64(bin) * sampleRate / float64(a.sampleCount)
}

// GetSampleCount returns the configured block size
func (a *SpectrumAnalyzer) GetSampleCount() int {
	return a.sampleCount
}

// GetBinCount returns the number of spectrum bins (sample count / 2)
func (a *SpectrumAnalyzer) GetBinCount() int {
	return a.sampleCount / 2
}

// GetWindowType returns the configured window type
func (a *SpectrumAnalyzer) GetWindowType() windowing.Type {
	return a.windowType
}

// GetSmoothingFactor returns the configured smoothing factor
func (a *SpectrumAnalyzer) GetSmoothingFactor() float64 {
	return a.smoothing
}

func copySlice(src []float64) []float64 {
	dst := make([]float64, len(src))
	copy(dst, src)
	return dst
}
