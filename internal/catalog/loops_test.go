package catalog

import "testing"

func TestInsertLoopMinimumDuration(t *testing.T) {
	s := newTestStore(t)
	trackID, _ := s.InsertTrack(sampleTrack("/music/a.mp3"))

	if _, err := s.InsertLoop(trackID, "too short", 1.0, 1.05); err == nil {
		t.Fatal("expected error for sub-100ms loop")
	}

	id, err := s.InsertLoop(trackID, "ok", 1.0, 1.2)
	if err != nil {
		t.Fatalf("InsertLoop: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty id")
	}
}

func TestLoopsOrderedByStart(t *testing.T) {
	s := newTestStore(t)
	trackID, _ := s.InsertTrack(sampleTrack("/music/b.mp3"))

	if _, err := s.InsertLoop(trackID, "second", 10.0, 10.5); err != nil {
		t.Fatalf("InsertLoop: %v", err)
	}
	if _, err := s.InsertLoop(trackID, "first", 1.0, 1.5); err != nil {
		t.Fatalf("InsertLoop: %v", err)
	}

	loops, err := s.GetLoops(trackID)
	if err != nil {
		t.Fatalf("GetLoops: %v", err)
	}
	if len(loops) != 2 || loops[0].Label != "first" || loops[1].Label != "second" {
		t.Fatalf("unexpected order: %+v", loops)
	}
}

func TestSetLoopActive(t *testing.T) {
	s := newTestStore(t)
	trackID, _ := s.InsertTrack(sampleTrack("/music/c.mp3"))
	id, _ := s.InsertLoop(trackID, "loop", 1.0, 1.5)

	if err := s.SetLoopActive(id, true); err != nil {
		t.Fatalf("SetLoopActive: %v", err)
	}

	loops, err := s.GetLoops(trackID)
	if err != nil {
		t.Fatalf("GetLoops: %v", err)
	}
	if len(loops) != 1 || !loops[0].IsActive {
		t.Fatalf("loop not active: %+v", loops)
	}
}
