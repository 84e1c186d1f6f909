package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "decklib",
	Short: "DJ library engine: playback, waveforms, beatgrids, and catalog",
	Long: `decklib - the playback and library engine behind a DJ music-management
application: a lock-free ringbuffer playback path, asynchronous waveform
generation, offline beatgrid detection, and a pooled SQLite catalog store.

Features:
  - Lock-free SPSC ringbuffer with zero-copy audio processing
  - Event-driven playback controller (play/pause/seek/device switch)
  - Support for MP3, FLAC, WAV, OGG, and Opus audio formats
  - Progressive, cancellable waveform peak generation with on-disk caching
  - Offline onset-detection based beatgrid/BPM analysis
  - Pooled, migrated SQLite catalog with settings and playlists

Commands:
  - play: Play audio files with real-time monitoring
  - playlist: Play a sequence of audio files back to back
  - transform: Convert audio files to different sample rates and WAV format
  - catalog: Manage the track/playlist catalog
  - waveform: Generate and inspect cached waveform peaks
  - beatgrid: Detect tempo and beat offset for a track`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
