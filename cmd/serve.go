package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/audiolens/spectro/logging"
	"github.com/audiolens/spectro/stream"
	"github.com/audiolens/spectro/transcode"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve <file.wav>",
	Short: "Loop a WAV file and broadcast spectrum frames over WebSocket",
	Long: `Serve replays a WAV file at real-time pace, analyzing one block per
tick and broadcasting each spectrum as a JSON frame to every WebSocket
client connected at /ws. The file loops until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8793",
		"listen address for the WebSocket server")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	audio, err := transcode.NewWAVDecoder().DecodeFile(args[0])
	if err != nil {
		return err
	}

	analyzer, err := newAnalyzer()
	if err != nil {
		return err
	}

	frames := transcode.Frames(audio.PCM, analyzer.GetSampleCount())
	if len(frames) == 0 {
		return fmt.Errorf("%s is shorter than one %d-sample block", args[0], analyzer.GetSampleCount())
	}

	broadcaster := stream.NewBroadcaster()
	broadcaster.Serve(serveAddr)
	defer broadcaster.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.WithFields(logging.Fields{"component": "serve"})
	logger.Info("streaming spectrum frames", logging.Fields{
		"file":   args[0],
		"addr":   serveAddr,
		"frames": len(frames),
	})

	// One block of samples per tick keeps playback at the file's pace
	frameDuration := time.Duration(float64(analyzer.GetSampleCount()) / float64(audio.SampleRate) * float64(time.Second))
	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	var seq uint64
	idx := 0

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case <-ticker.C:
			if err := analyzer.Analyze(frames[idx]); err != nil {
				return err
			}
			idx = (idx + 1) % len(frames)
			seq++

			broadcaster.Send(stream.SpectrumFrame{
				Seq:        seq,
				Bins:       analyzer.GetBinCount(),
				SampleRate: audio.SampleRate,
				Spectrum:   analyzer.GetSpectrum(),
			})
		}
	}
}
