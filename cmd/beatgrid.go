package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jvegaf/decklib/internal/beatgrid"
	"github.com/jvegaf/decklib/internal/catalog"

	"github.com/spf13/cobra"
)

var beatgridDBPath string

var beatgridCmd = &cobra.Command{
	Use:   "beatgrid",
	Short: "Detect tempo and beat offset for a catalog track",
	Long: `Run offline onset-detection tempo analysis on a catalog track and cache
the result (BPM, beat offset, confidence) in the database.

Examples:
  decklib beatgrid detect <track_id>
  decklib beatgrid show <track_id>`,
}

func init() {
	rootCmd.AddCommand(beatgridCmd)
	beatgridCmd.PersistentFlags().StringVar(&beatgridDBPath, "db", "decklib.db", "Path to the catalog database file")

	beatgridCmd.AddCommand(beatgridDetectCmd)
	beatgridCmd.AddCommand(beatgridShowCmd)
}

var beatgridDetectCmd = &cobra.Command{
	Use:   "detect <track_id>",
	Short: "Analyze and cache the tempo/beat offset for a track",
	Args:  cobra.ExactArgs(1),
	Run:   runBeatgridDetect,
}

var beatgridShowCmd = &cobra.Command{
	Use:   "show <track_id>",
	Short: "Print the cached beatgrid for a track",
	Args:  cobra.ExactArgs(1),
	Run:   runBeatgridShow,
}

func runBeatgridDetect(cmd *cobra.Command, args []string) {
	trackID := args[0]

	store, err := catalog.Open(beatgridDBPath, slog.Default())
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

	slog.Info("Decoding track for beatgrid analysis", "path", track.Path)
	samples, rate, channels, err := decodeAllSamples(track.Path)
	if err != nil {
		slog.Error("Failed to decode track", "error", err)
		os.Exit(1)
	}

	analysis, err := beatgrid.Analyze(samples, rate, channels)
	if err != nil {
		slog.Error("Beatgrid analysis failed", "track_id", trackID, "error", err)
		os.Exit(1)
	}

	if err := store.SaveBeatgrid(trackID, analysis.BPM, analysis.Offset, &analysis.Confidence); err != nil {
		slog.Error("Failed to save beatgrid", "error", err)
		os.Exit(1)
	}

	slog.Info("Beatgrid detected",
		"track_id", trackID,
		"bpm", fmt.Sprintf("%.1f", analysis.BPM),
		"offset", fmt.Sprintf("%.3fs", analysis.Offset),
		"confidence", fmt.Sprintf("%.0f%%", analysis.Confidence))
}

func runBeatgridShow(cmd *cobra.Command, args []string) {
	trackID := args[0]

	store, err := catalog.Open(beatgridDBPath, slog.Default())
	if err != nil {
		slog.Error("Failed to open catalog", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	b, err := store.GetBeatgrid(trackID)
	if err != nil {
		slog.Error("Failed to fetch beatgrid", "track_id", trackID, "error", err)
		os.Exit(1)
	}

	fmt.Printf("Track:      %s\n", trackID)
	fmt.Printf("BPM:        %.1f\n", b.BPM)
	fmt.Printf("Offset:     %.3fs\n", b.Offset)
	if b.Confidence != nil {
		fmt.Printf("Confidence: %.0f%%\n", *b.Confidence)
	}
	fmt.Printf("Analyzed:   %s\n", b.AnalyzedAt)
}
