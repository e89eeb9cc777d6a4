package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/audiolens/spectro/algorithms/common"
	"github.com/audiolens/spectro/algorithms/spectral"
	"github.com/audiolens/spectro/transcode"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.wav>",
	Short: "Analyze a WAV file and print its spectrum summary",
	Long: `Analyze decodes a WAV file, runs every full block through the
spectrum analyzer and reports the resulting spectrum. With smoothing
enabled the reported spectrum is the peak-hold view accumulated over
the whole file.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

// analyzeResult is the JSON output shape of the analyze command
type analyzeResult struct {
	File          string    `json:"file"`
	SampleRate    int       `json:"sample_rate"`
	Channels      int       `json:"channels"`
	DurationSec   float64   `json:"duration_sec"`
	Frames        int       `json:"frames"`
	FFTSize       int       `json:"fft_size"`
	Window        string    `json:"window"`
	Smoothing     float64   `json:"smoothing"`
	RMS           float64   `json:"rms"`
	PeakFrequency float64   `json:"peak_frequency_hz"`
	PeakMagnitude float64   `json:"peak_magnitude"`
	CentroidHz    float64   `json:"spectral_centroid_hz"`
	Spectrum      []float64 `json:"spectrum"`
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false,
		"emit the full result as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	audio, err := transcode.NewWAVDecoder().DecodeFile(path)
	if err != nil {
		return err
	}

	analyzer, err := newAnalyzer()
	if err != nil {
		return err
	}

	frames := transcode.Frames(audio.PCM, analyzer.GetSampleCount())
	if len(frames) == 0 {
		return fmt.Errorf("%s is shorter than one %d-sample block", path, analyzer.GetSampleCount())
	}

	for _, frame := range frames {
		if err := analyzer.Analyze(frame); err != nil {
			return err
		}
	}

	spectrum := analyzer.GetSpectrum()
	peakBin, peakMag := analyzer.GetPeakBin()
	sampleRate := float64(audio.SampleRate)

	result := analyzeResult{
		File:          path,
		SampleRate:    audio.SampleRate,
		Channels:      audio.Channels,
		DurationSec:   audio.Duration.Seconds(),
		Frames:        len(frames),
		FFTSize:       analyzer.GetSampleCount(),
		Window:        string(analyzer.GetWindowType()),
		Smoothing:     analyzer.GetSmoothingFactor(),
		RMS:           common.RMS(audio.PCM),
		PeakFrequency: analyzer.BinFrequency(peakBin, sampleRate),
		PeakMagnitude: peakMag,
		CentroidHz:    spectral.Centroid(spectrum, sampleRate),
		Spectrum:      spectrum,
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("File:              %s\n", result.File)
	fmt.Printf("Sample rate:       %d Hz (%d channel(s))\n", result.SampleRate, result.Channels)
	fmt.Printf("Duration:          %.2fs (%d blocks of %d samples)\n", result.DurationSec, result.Frames, result.FFTSize)
	fmt.Printf("Window:            %s\n", result.Window)
	fmt.Printf("Smoothing:         %.2f\n", result.Smoothing)
	fmt.Printf("Signal RMS:        %.4f\n", result.RMS)
	fmt.Printf("Peak frequency:    %.1f Hz (magnitude %.4f)\n", result.PeakFrequency, result.PeakMagnitude)
	fmt.Printf("Spectral centroid: %.1f Hz\n", result.CentroidHz)
	printSpectrumBars(spectrum)

	return nil
}

// printSpectrumBars renders a coarse text view of the spectrum, one
// row per group of bins
func printSpectrumBars(spectrum []float64) {
	peak := common.Max(spectrum)
	if peak <= 0 {
		return
	}

	const width = 50
	fmt.Println("Spectrum:")
	step := len(spectrum) / 32
	if step < 1 {
		step = 1
	}

	for start := 0; start < len(spectrum); start += step {
		end := min(start+step, len(spectrum))
		bandPeak := common.Max(spectrum[start:end])
		bar := int(bandPeak / peak * width)
		fmt.Printf("%5d %s\n", start, strings.Repeat("#", bar))
	}
}
