package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConsolidateLibraryRemovesOrphans(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.InsertTrack(sampleTrack("/nonexistent/path/track.mp3")); err != nil {
		t.Fatalf("InsertTrack: %v", err)
	}

	result, err := s.ConsolidateLibrary(nil, nil)
	if err != nil {
		t.Fatalf("ConsolidateLibrary: %v", err)
	}
	if result.OrphansRemoved != 1 {
		t.Fatalf("OrphansRemoved = %d, want 1", result.OrphansRemoved)
	}
	if result.TotalTracks != 0 {
		t.Fatalf("TotalTracks = %d, want 0", result.TotalTracks)
	}
}

func TestConsolidateLibraryRemovesDuplicates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.mp3")
	if err := os.WriteFile(path, []byte("fake"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s := newTestStore(t)

	earlier := sampleTrack(path)
	earlier.DateAdded = "2023-01-01T00:00:00Z"
	if _, err := s.InsertTrack(earlier); err != nil {
		t.Fatalf("InsertTrack: %v", err)
	}

	later := sampleTrack(path)
	later.DateAdded = "2024-01-01T00:00:00Z"
	if _, err := s.InsertTrack(later); err != nil {
		t.Fatalf("InsertTrack: %v", err)
	}

	result, err := s.ConsolidateLibrary(nil, nil)
	if err != nil {
		t.Fatalf("ConsolidateLibrary: %v", err)
	}
	if result.DuplicatesRemoved != 1 {
		t.Fatalf("DuplicatesRemoved = %d, want 1", result.DuplicatesRemoved)
	}
	if result.TotalTracks != 1 {
		t.Fatalf("TotalTracks = %d, want 1", result.TotalTracks)
	}
}

func TestConsolidateLibraryAddsNewTracks(t *testing.T) {
	dir := t.TempDir()
	mp3Path := filepath.Join(dir, "2401 - song.mp3")
	if err := os.WriteFile(mp3Path, []byte("fake"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	txtPath := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txtPath, []byte("ignore me"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s := newTestStore(t)

	result, err := s.ConsolidateLibrary([]string{dir}, nil)
	if err != nil {
		t.Fatalf("ConsolidateLibrary: %v", err)
	}
	if result.NewTracksAdded != 1 {
		t.Fatalf("NewTracksAdded = %d, want 1", result.NewTracksAdded)
	}

	tracks, err := s.GetAllTracks()
	if err != nil {
		t.Fatalf("GetAllTracks: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("tracks = %+v", tracks)
	}
	if tracks[0].Artist != "Unknown" {
		t.Fatalf("Artist = %q, want Unknown (no extractor supplied)", tracks[0].Artist)
	}
}
