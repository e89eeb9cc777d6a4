package transcode

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"

	"github.com/audiolens/spectro/logging"
)

// AudioData represents decoded audio data
type AudioData struct {
	PCM        []float64     `json:"-"` // Mono PCM in [-1, 1]
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"` // Channel count of the source before downmix
	Duration   time.Duration `json:"duration"`
}

// WAVDecoder decodes PCM WAV files into mono float64 samples
type WAVDecoder struct {
	logger logging.Logger
}

// NewWAVDecoder creates a new WAV decoder
func NewWAVDecoder() *WAVDecoder {
	return &WAVDecoder{
		logger: logging.WithFields(logging.Fields{
			"component": "wav_decoder",
		}),
	}
}

// DecodeFile reads an entire WAV file, normalizes samples by the source
// bit depth and downmixes multi-channel audio to mono by averaging.
func (d *WAVDecoder) DecodeFile(path string) (*AudioData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav file: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("not a valid wav file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read pcm data: %w", err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("invalid channel count %d in %s", channels, path)
	}

	sampleRate := buf.Format.SampleRate
	bitDepth := int(decoder.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	fullScale := float64(int(1) << (bitDepth - 1))

	frames := len(buf.Data) / channels
	pcm := make([]float64, frames)

	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c])
		}
		pcm[i] = sum / float64(channels) / fullScale
	}

	duration := time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second))

	d.logger.Debug("decoded wav file", logging.Fields{
		"path":        path,
		"sample_rate": sampleRate,
		"channels":    channels,
		"bit_depth":   bitDepth,
		"frames":      frames,
		"duration":    duration.String(),
	})

	return &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   channels,
		Duration:   duration,
	}, nil
}

// Frames cuts pcm into consecutive non-overlapping blocks of frameSize
// samples, dropping the trailing partial block
func Frames(pcm []float64, frameSize int) [][]float64 {
	if frameSize <= 0 || len(pcm) < frameSize {
		return nil
	}

	count := len(pcm) / frameSize
	frames := make([][]float64, count)
	for i := 0; i < count; i++ {
		frames[i] = pcm[i*frameSize : (i+1)*frameSize]
	}
	return frames
}
