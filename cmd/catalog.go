package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jvegaf/decklib/internal/catalog"

	"github.com/spf13/cobra"
)

var catalogDBPath string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the track and playlist catalog",
	Long: `Manage the SQLite-backed track and playlist catalog: add files, list
entries, inspect a single track, rate it, or remove it.

Examples:
  decklib catalog add song.mp3 song2.flac
  decklib catalog list
  decklib catalog show <track_id>
  decklib catalog rate <track_id> 4
  decklib catalog rm <track_id>`,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.PersistentFlags().StringVar(&catalogDBPath, "db", "decklib.db", "Path to the catalog database file")

	catalogCmd.AddCommand(catalogAddCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogRateCmd)
	catalogCmd.AddCommand(catalogRmCmd)
}

var catalogAddCmd = &cobra.Command{
	Use:   "add <audio_file> [audio_file...]",
	Short: "Add one or more audio files to the catalog",
	Args:  cobra.MinimumNArgs(1),
	Run:   runCatalogAdd,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all catalog tracks",
	Args:  cobra.NoArgs,
	Run:   runCatalogList,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <track_id>",
	Short: "Show full details for a single track",
	Args:  cobra.ExactArgs(1),
	Run:   runCatalogShow,
}

var catalogRateCmd = &cobra.Command{
	Use:   "rate <track_id> <0-5>",
	Short: "Set a track's star rating",
	Args:  cobra.ExactArgs(2),
	Run:   runCatalogRate,
}

var catalogRmCmd = &cobra.Command{
	Use:   "rm <track_id>",
	Short: "Remove a track from the catalog",
	Args:  cobra.ExactArgs(1),
	Run:   runCatalogRm,
}

func openCatalog() *catalog.Store {
	store, err := catalog.Open(catalogDBPath, slog.Default())
	if err != nil {
		slog.Error("Failed to open catalog", "db", catalogDBPath, "error", err)
		os.Exit(1)
	}
	return store
}

func runCatalogAdd(cmd *cobra.Command, args []string) {
	store := openCatalog()
	defer store.Close()

	for _, path := range args {
		id, err := addTrack(store, path)
		if err != nil {
			slog.Error("Failed to add track", "file", path, "error", err)
			continue
		}
		slog.Info("Track added", "id", id, "file", path)
	}
}

func addTrack(store *catalog.Store, path string) (string, error) {
	rate, channels, bits, duration, err := probeDuration(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	base := filepath.Base(path)
	title := base[:len(base)-len(filepath.Ext(base))]

	return store.InsertTrack(catalog.Track{
		Path:       path,
		Title:      title,
		Artist:     "Unknown Artist",
		Duration:   duration,
		Bitrate:    rate * bits * channels / 1000,
		SampleRate: rate,
		FileSize:   info.Size(),
	})
}

func runCatalogList(cmd *cobra.Command, args []string) {
	store := openCatalog()
	defer store.Close()

	tracks, err := store.GetAllTracks()
	if err != nil {
		slog.Error("Failed to list tracks", "error", err)
		os.Exit(1)
	}

	for _, t := range tracks {
		fmt.Printf("%s  %-30s %-20s %6.1fs  %dHz\n", t.ID, t.Title, t.Artist, t.Duration, t.SampleRate)
	}
}

func runCatalogShow(cmd *cobra.Command, args []string) {
	store := openCatalog()
	defer store.Close()

	t, err := store.GetTrack(args[0])
	if err != nil {
		slog.Error("Failed to fetch track", "id", args[0], "error", err)
		os.Exit(1)
	}

	fmt.Printf("ID:          %s\n", t.ID)
	fmt.Printf("Path:        %s\n", t.Path)
	fmt.Printf("Title:       %s\n", t.Title)
	fmt.Printf("Artist:      %s\n", t.Artist)
	fmt.Printf("Duration:    %.1fs\n", t.Duration)
	fmt.Printf("Sample rate: %dHz\n", t.SampleRate)
	fmt.Printf("Play count:  %d\n", t.PlayCount)
	if t.BPM != nil {
		fmt.Printf("BPM:         %.1f\n", *t.BPM)
	}
	if t.Rating != nil {
		fmt.Printf("Rating:      %d/5\n", *t.Rating)
	}
}

func runCatalogRate(cmd *cobra.Command, args []string) {
	store := openCatalog()
	defer store.Close()

	var rating int
	if _, err := fmt.Sscanf(args[1], "%d", &rating); err != nil {
		slog.Error("Invalid rating", "value", args[1])
		os.Exit(1)
	}

	if err := store.UpdateTrackRating(args[0], &rating); err != nil {
		slog.Error("Failed to update rating", "error", err)
		os.Exit(1)
	}
	slog.Info("Rating updated", "id", args[0], "rating", rating)
}

func runCatalogRm(cmd *cobra.Command, args []string) {
	store := openCatalog()
	defer store.Close()

	if err := store.DeleteTrack(args[0]); err != nil {
		slog.Error("Failed to delete track", "error", err)
		os.Exit(1)
	}
	slog.Info("Track removed", "id", args[0])
}
