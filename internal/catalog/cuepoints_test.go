package catalog

import "testing"

func TestInsertCuePointHotkeyValidation(t *testing.T) {
	s := newTestStore(t)
	trackID, _ := s.InsertTrack(sampleTrack("/music/a.mp3"))

	bad := 9
	if _, err := s.InsertCuePoint(trackID, 1.0, "drop", "#ff0000", "drop", &bad); err == nil {
		t.Fatal("expected error for out-of-range hotkey")
	}

	good := 1
	id, err := s.InsertCuePoint(trackID, 1.0, "drop", "#ff0000", "drop", &good)
	if err != nil {
		t.Fatalf("InsertCuePoint: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty id")
	}
}

func TestInsertCuePointMaxLimit(t *testing.T) {
	s := newTestStore(t)
	trackID, _ := s.InsertTrack(sampleTrack("/music/b.mp3"))

	for i := 0; i < maxCuePointsPerTrack; i++ {
		if _, err := s.InsertCuePoint(trackID, float64(i), "cue", "#fff", "custom", nil); err != nil {
			t.Fatalf("InsertCuePoint #%d: %v", i, err)
		}
	}

	if _, err := s.InsertCuePoint(trackID, 999, "overflow", "#fff", "custom", nil); err == nil {
		t.Fatal("expected error after exceeding max cue points")
	}
}

func TestGetCuePointsOrderedByPosition(t *testing.T) {
	s := newTestStore(t)
	trackID, _ := s.InsertTrack(sampleTrack("/music/c.mp3"))

	if _, err := s.InsertCuePoint(trackID, 10.0, "b", "#fff", "custom", nil); err != nil {
		t.Fatalf("InsertCuePoint: %v", err)
	}
	if _, err := s.InsertCuePoint(trackID, 2.0, "a", "#fff", "custom", nil); err != nil {
		t.Fatalf("InsertCuePoint: %v", err)
	}

	cues, err := s.GetCuePoints(trackID)
	if err != nil {
		t.Fatalf("GetCuePoints: %v", err)
	}
	if len(cues) != 2 || cues[0].Label != "a" || cues[1].Label != "b" {
		t.Fatalf("unexpected order: %+v", cues)
	}
}
