package catalog

import "testing"

func TestSaveAndGetWaveform(t *testing.T) {
	s := newTestStore(t)
	trackID, _ := s.InsertTrack(sampleTrack("/music/a.mp3"))

	peaks := []float32{0.1, 0.5, 1.0, 0.25}
	if err := s.SaveWaveform(trackID, peaks); err != nil {
		t.Fatalf("SaveWaveform: %v", err)
	}

	got, err := s.GetWaveform(trackID)
	if err != nil {
		t.Fatalf("GetWaveform: %v", err)
	}
	if len(got.Peaks) != len(peaks) {
		t.Fatalf("peaks len = %d, want %d", len(got.Peaks), len(peaks))
	}
	for i := range peaks {
		if got.Peaks[i] != peaks[i] {
			t.Fatalf("peaks[%d] = %v, want %v", i, got.Peaks[i], peaks[i])
		}
	}
}

func TestSaveWaveformUpsert(t *testing.T) {
	s := newTestStore(t)
	trackID, _ := s.InsertTrack(sampleTrack("/music/b.mp3"))

	if err := s.SaveWaveform(trackID, []float32{0.1}); err != nil {
		t.Fatalf("SaveWaveform: %v", err)
	}
	if err := s.SaveWaveform(trackID, []float32{0.1, 0.2, 0.3}); err != nil {
		t.Fatalf("SaveWaveform update: %v", err)
	}

	got, err := s.GetWaveform(trackID)
	if err != nil {
		t.Fatalf("GetWaveform: %v", err)
	}
	if len(got.Peaks) != 3 {
		t.Fatalf("peaks len = %d, want 3 (upsert, not duplicate row)", len(got.Peaks))
	}
}

func TestGetWaveformMissing(t *testing.T) {
	s := newTestStore(t)
	trackID, _ := s.InsertTrack(sampleTrack("/music/c.mp3"))

	if _, err := s.GetWaveform(trackID); err == nil {
		t.Fatal("expected error for missing waveform")
	}
}

func TestSaveAndGetBeatgrid(t *testing.T) {
	s := newTestStore(t)
	trackID, _ := s.InsertTrack(sampleTrack("/music/d.mp3"))

	confidence := 95.5
	if err := s.SaveBeatgrid(trackID, 128.0, 0.25, &confidence); err != nil {
		t.Fatalf("SaveBeatgrid: %v", err)
	}

	got, err := s.GetBeatgrid(trackID)
	if err != nil {
		t.Fatalf("GetBeatgrid: %v", err)
	}
	if got.BPM != 128.0 || got.Offset != 0.25 || got.Confidence == nil || *got.Confidence != confidence {
		t.Fatalf("got = %+v", got)
	}
}
