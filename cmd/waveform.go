package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jvegaf/decklib/internal/catalog"
	"github.com/jvegaf/decklib/internal/waveform"
	"github.com/jvegaf/decklib/pkg/decoders"

	"github.com/spf13/cobra"
)

var waveformDBPath string

var waveformCmd = &cobra.Command{
	Use:   "waveform",
	Short: "Generate and inspect cached waveform peaks",
	Long: `Generate coarse waveform peak data for a catalog track and cache it in
the database, or print a previously cached waveform.

Examples:
  decklib waveform generate <track_id>
  decklib waveform show <track_id>`,
}

func init() {
	rootCmd.AddCommand(waveformCmd)
	waveformCmd.PersistentFlags().StringVar(&waveformDBPath, "db", "decklib.db", "Path to the catalog database file")

	waveformCmd.AddCommand(waveformGenerateCmd)
	waveformCmd.AddCommand(waveformShowCmd)
}

var waveformGenerateCmd = &cobra.Command{
	Use:   "generate <track_id>",
	Short: "Generate (or reuse cached) waveform peaks for a catalog track",
	Args:  cobra.ExactArgs(1),
	Run:   runWaveformGenerate,
}

var waveformShowCmd = &cobra.Command{
	Use:   "show <track_id>",
	Short: "Print the cached peak count and range for a track",
	Args:  cobra.ExactArgs(1),
	Run:   runWaveformShow,
}

func runWaveformGenerate(cmd *cobra.Command, args []string) {
	trackID := args[0]

	store, err := catalog.Open(waveformDBPath, slog.Default())
	if err != nil {
		slog.Error("Failed to open catalog", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	track, err := store.GetTrack(trackID)
	if err != nil {
		slog.Error("Failed to fetch track", "id", trackID, "error", err)
		os.Exit(1)
	}

	source, err := waveform.NewDecoderSource(track.Path, decoders.NewDecoder)
	if err != nil {
		slog.Error("Failed to open track for waveform generation", "path", track.Path, "error", err)
		os.Exit(1)
	}
	defer source.Close()

	gen := waveform.NewGenerator(slog.Default())
	peaks, err := gen.Generate(trackID, track.Duration, source, store, func(e waveform.Event) {
		switch e.Status {
		case "progress":
			slog.Debug("waveform progress", "track_id", trackID, "peaks_so_far", e.PeaksSoFar, "progress", e.Progress)
		case "error":
			slog.Error("waveform generation failed", "track_id", trackID, "error", e.Error)
		}
	})
	if err != nil {
		slog.Error("Waveform generation failed", "track_id", trackID, "error", err)
		os.Exit(1)
	}

	slog.Info("Waveform generated", "track_id", trackID, "peak_count", len(peaks))
}

func runWaveformShow(cmd *cobra.Command, args []string) {
	trackID := args[0]

	store, err := catalog.Open(waveformDBPath, slog.Default())
	if err != nil {
		slog.Error("Failed to open catalog", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	w, err := store.GetWaveform(trackID)
	if err != nil {
		slog.Error("Failed to fetch waveform", "track_id", trackID, "error", err)
		os.Exit(1)
	}

	var min, max float32
	for i, p := range w.Peaks {
		if i == 0 || p < min {
			min = p
		}
		if i == 0 || p > max {
			max = p
		}
	}

	fmt.Printf("Track:     %s\n", trackID)
	fmt.Printf("Peaks:     %d\n", len(w.Peaks))
	fmt.Printf("Range:     [%.3f, %.3f]\n", min, max)
	fmt.Printf("Generated: %s\n", w.DateGenerated)
}
