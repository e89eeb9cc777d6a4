package spectral

// Centroid returns the spectral centroid in Hz of a one-sided
// magnitude spectrum of len(spectrum) == N/2 bins. A silent spectrum
// has centroid 0.
func Centroid(spectrum []float64, sampleRate float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}

	binWidth := sampleRate / float64(len(spectrum)*2)

	numerator := 0.0
	denominator := 0.0
	for k, mag := range spectrum {
		numerator += float64(k) * binWidth * mag
		denominator += mag
	}

	if denominator == 0 {
		return 0.0
	}

	return numerator / denominator
}
