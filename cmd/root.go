package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/audiolens/spectro/algorithms/spectral"
	"github.com/audiolens/spectro/algorithms/windowing"
	"github.com/audiolens/spectro/logging"
)

var (
	configFile string
	verbose    bool
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spectro",
	Short: "Smoothed magnitude spectrum analysis for audio files",
	Long: `spectro computes display-ready magnitude spectra from WAV files.

Each power-of-two block of samples is windowed, transformed with a
forward real FFT, scaled into a [0, 1] display range and optionally
blended with the previous spectrum via peak-hold decay smoothing.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $HOME/.config/spectro/spectro.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")

	rootCmd.PersistentFlags().Int("fft-size", 1024,
		"samples per analysis block (power of two)")
	rootCmd.PersistentFlags().String("window", string(windowing.TypeHanningNormalized),
		"window function (blackman, hamming, hanning-normalized, hanning-denormalized, none)")
	rootCmd.PersistentFlags().Float64("smoothing", 0.9,
		"peak-hold decay factor in [0, 1); 0 disables smoothing")
	rootCmd.PersistentFlags().String("engine", "go-dsp",
		"fourier engine (go-dsp, gonum)")

	viper.BindPFlag("fft_size", rootCmd.PersistentFlags().Lookup("fft-size"))
	viper.BindPFlag("window", rootCmd.PersistentFlags().Lookup("window"))
	viper.BindPFlag("smoothing", rootCmd.PersistentFlags().Lookup("smoothing"))
	viper.BindPFlag("engine", rootCmd.PersistentFlags().Lookup("engine"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and environment variables if set
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "spectro"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("spectro")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SPECTRO")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func setupLogging() {
	level := logging.ParseLevel(viper.GetString("log_level"))
	if verbose {
		level = logging.DebugLevel
	}
	logging.SetLevel(level)
}

// newAnalyzer builds a SpectrumAnalyzer from the active configuration
func newAnalyzer() (*spectral.SpectrumAnalyzer, error) {
	windowType, err := windowing.ParseType(viper.GetString("window"))
	if err != nil {
		return nil, err
	}

	opts := []spectral.Option{}
	switch engine := viper.GetString("engine"); engine {
	case "go-dsp":
		// analyzer default
	case "gonum":
		opts = append(opts, spectral.WithEngineFactory(func(size int) (spectral.FourierEngine, error) {
			return spectral.NewGonumFFT(size)
		}))
	default:
		return nil, fmt.Errorf("unknown fourier engine: %q", engine)
	}

	return spectral.NewSpectrumAnalyzer(
		viper.GetInt("fft_size"),
		windowType,
		viper.GetFloat64("smoothing"),
		opts...,
	)
}
