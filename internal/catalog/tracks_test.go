package catalog

import (
	"errors"
	"testing"

	"github.com/jvegaf/decklib/internal/apperr"
)

func sampleTrack(path string) Track {
	return Track{
		Path:       path,
		Title:      "Test Track",
		Artist:     "Test Artist",
		Duration:   180.0,
		Bitrate:    320,
		SampleRate: 44100,
		FileSize:   8388608,
		DateAdded:  "2024-01-01T00:00:00Z",
	}
}

func TestInsertAndGetTrack(t *testing.T) {
	s := newTestStore(t)

	id, err := s.InsertTrack(sampleTrack("/music/test.mp3"))
	if err != nil {
		t.Fatalf("InsertTrack: %v", err)
	}

	got, err := s.GetTrack(id)
	if err != nil {
		t.Fatalf("GetTrack: %v", err)
	}
	if got.Title != "Test Track" || got.Artist != "Test Artist" {
		t.Fatalf("got = %+v", got)
	}
}

func TestGetTrackNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetTrack("missing")
	if !errors.Is(err, apperr.ErrFileNotFound) {
		t.Fatalf("err = %v, want ErrFileNotFound", err)
	}
}

func TestRecordPlayIncrementsCount(t *testing.T) {
	s := newTestStore(t)
	id, _ := s.InsertTrack(sampleTrack("/music/a.mp3"))

	if err := s.RecordPlay(id); err != nil {
		t.Fatalf("RecordPlay: %v", err)
	}
	if err := s.RecordPlay(id); err != nil {
		t.Fatalf("RecordPlay: %v", err)
	}

	got, err := s.GetTrack(id)
	if err != nil {
		t.Fatalf("GetTrack: %v", err)
	}
	if got.PlayCount != 2 {
		t.Fatalf("PlayCount = %d, want 2", got.PlayCount)
	}
	if got.LastPlayed == nil {
		t.Fatal("LastPlayed should be set after RecordPlay")
	}
}

func TestUpdateTrackRatingValidation(t *testing.T) {
	s := newTestStore(t)
	id, _ := s.InsertTrack(sampleTrack("/music/b.mp3"))

	bad := 6
	if err := s.UpdateTrackRating(id, &bad); err == nil {
		t.Fatal("expected error for out-of-range rating")
	}

	good := 4
	if err := s.UpdateTrackRating(id, &good); err != nil {
		t.Fatalf("UpdateTrackRating: %v", err)
	}
	got, _ := s.GetTrack(id)
	if got.Rating == nil || *got.Rating != 4 {
		t.Fatalf("Rating = %v, want 4", got.Rating)
	}
}

func TestDeleteTrack(t *testing.T) {
	s := newTestStore(t)
	id, _ := s.InsertTrack(sampleTrack("/music/c.mp3"))

	if err := s.DeleteTrack(id); err != nil {
		t.Fatalf("DeleteTrack: %v", err)
	}
	if _, err := s.GetTrack(id); !errors.Is(err, apperr.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound after delete, got %v", err)
	}
}

func TestGetTracksByIDs(t *testing.T) {
	s := newTestStore(t)

	idA, _ := s.InsertTrack(sampleTrack("/music/a.mp3"))
	idB, _ := s.InsertTrack(sampleTrack("/music/b.mp3"))
	_, _ = s.InsertTrack(sampleTrack("/music/c.mp3"))

	got, err := s.GetTracksByIDs([]string{idA, idB})
	if err != nil {
		t.Fatalf("GetTracksByIDs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}

	ids := map[string]bool{got[0].ID: true, got[1].ID: true}
	if !ids[idA] || !ids[idB] {
		t.Fatalf("got ids = %+v, want %v and %v", ids, idA, idB)
	}
}

func TestGetTracksByIDsEmpty(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetTracksByIDs(nil)
	if err != nil {
		t.Fatalf("GetTracksByIDs: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len(got) = %d, want 0", len(got))
	}
}

func TestGetAllTracksOrdering(t *testing.T) {
	s := newTestStore(t)

	trackB := sampleTrack("/music/b.mp3")
	trackB.Artist = "B Artist"
	trackA := sampleTrack("/music/a.mp3")
	trackA.Artist = "A Artist"

	if _, err := s.InsertTrack(trackB); err != nil {
		t.Fatalf("InsertTrack: %v", err)
	}
	if _, err := s.InsertTrack(trackA); err != nil {
		t.Fatalf("InsertTrack: %v", err)
	}

	all, err := s.GetAllTracks()
	if err != nil {
		t.Fatalf("GetAllTracks: %v", err)
	}
	if len(all) != 2 || all[0].Artist != "A Artist" {
		t.Fatalf("unexpected order: %+v", all)
	}
}
