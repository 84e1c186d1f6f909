package waveform

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jvegaf/decklib/internal/apperr"
)

// fakeSource produces a deterministic ramp so peak values are predictable
// and depend only on the seek position, without any real decoder.
type fakeSource struct {
	rate     int
	duration float64
	position float64
}

func (f *fakeSource) SampleRate() int { return f.rate }
func (f *fakeSource) Channels() int   { return 1 }
func (f *fakeSource) Close() error    { return nil }

func (f *fakeSource) SeekTo(seconds float64) error {
	if seconds < 0 || seconds > f.duration {
		return fmt.Errorf("seek out of range: %v", seconds)
	}
	f.position = seconds
	return nil
}

func (f *fakeSource) ReadSamples(n int) ([]float32, error) {
	// Amplitude scales with position so generated peaks are distinguishable.
	amp := float32(f.position / f.duration)
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = amp
	}
	return samples, nil
}

type fakeCache struct {
	stored map[string][]float32
}

func newFakeCache() *fakeCache {
	return &fakeCache{stored: make(map[string][]float32)}
}

func (c *fakeCache) GetWaveformPeaks(trackID string) ([]float32, error) {
	peaks, ok := c.stored[trackID]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return peaks, nil
}

func (c *fakeCache) SaveWaveform(trackID string, peaks []float32) error {
	c.stored[trackID] = append([]float32(nil), peaks...)
	return nil
}

func TestGenerateProducesTargetPeakCount(t *testing.T) {
	g := NewGenerator(nil)
	source := &fakeSource{rate: 44100, duration: 180}
	cache := newFakeCache()

	peaks, err := g.Generate("track-1", 180, source, cache, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(peaks) != targetPeaks {
		t.Fatalf("len(peaks) = %d, want %d", len(peaks), targetPeaks)
	}
}

func TestGenerateCachesResult(t *testing.T) {
	g := NewGenerator(nil)
	source := &fakeSource{rate: 44100, duration: 60}
	cache := newFakeCache()

	if _, err := g.Generate("track-1", 60, source, cache, nil); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, ok := cache.stored["track-1"]; !ok {
		t.Fatal("expected peaks to be persisted to cache")
	}
}

func TestGenerateShortCircuitsOnCacheHit(t *testing.T) {
	g := NewGenerator(nil)
	cache := newFakeCache()
	cache.stored["track-1"] = []float32{0.1, 0.2, 0.3}

	var events []Event
	peaks, err := g.Generate("track-1", 60, nil, cache, func(e Event) { events = append(events, e) })
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(peaks) != 3 {
		t.Fatalf("expected cached peaks returned untouched, got %v", peaks)
	}
	if len(events) != 1 || events[0].Status != "complete" {
		t.Fatalf("expected a single complete event on cache hit, got %+v", events)
	}
}

func TestGenerateRejectsNonPositiveDuration(t *testing.T) {
	g := NewGenerator(nil)
	source := &fakeSource{rate: 44100, duration: 1}
	cache := newFakeCache()

	if _, err := g.Generate("track-1", 0, source, cache, nil); err == nil {
		t.Fatal("expected error for zero duration")
	}
}

func TestGenerateCancellation(t *testing.T) {
	g := NewGenerator(nil)
	source := &fakeSource{rate: 44100, duration: 600}
	cache := newFakeCache()

	var gotError error
	cancelled := make(chan struct{})
	emit := func(e Event) {
		if e.Status == "progress" {
			select {
			case <-cancelled:
			default:
				close(cancelled)
				g.Cancel("track-1")
			}
		}
		if e.Status == "error" {
			gotError = e.Error
		}
	}

	if _, err := g.Generate("track-1", 600, source, cache, emit); err == nil {
		t.Fatal("expected cancellation error")
	}
	if gotError == nil {
		t.Fatal("expected an error event to be emitted on cancellation")
	}
	var analysisErr *apperr.AnalysisError
	if !errors.As(gotError, &analysisErr) {
		t.Fatalf("expected an *apperr.AnalysisError, got %T: %v", gotError, gotError)
	}
	if analysisErr.Reason != "Cancelled" {
		t.Fatalf("analysisErr.Reason = %q, want %q", analysisErr.Reason, "Cancelled")
	}
}

func TestGenerateProgressEventsAreMonotonicAndBounded(t *testing.T) {
	g := NewGenerator(nil)
	source := &fakeSource{rate: 44100, duration: 120}
	cache := newFakeCache()

	var lastPeaksSoFar int
	var sawComplete bool
	emit := func(e Event) {
		switch e.Status {
		case "progress":
			if e.PeaksSoFar <= lastPeaksSoFar {
				t.Fatalf("peaks_so_far did not increase: got %d after %d", e.PeaksSoFar, lastPeaksSoFar)
			}
			lastPeaksSoFar = e.PeaksSoFar
			if e.Progress > 0.99 {
				t.Fatalf("progress event claimed %.4f, want <= 0.99", e.Progress)
			}
		case "complete":
			sawComplete = true
			if e.Progress != 1.0 {
				t.Fatalf("complete event progress = %v, want 1.0", e.Progress)
			}
		}
	}

	peaks, err := g.Generate("track-1", 120, source, cache, emit)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !sawComplete {
		t.Fatal("expected a complete event")
	}
	if lastPeaksSoFar != len(peaks) {
		t.Fatalf("last reported peaks_so_far = %d, want %d", lastPeaksSoFar, len(peaks))
	}
}

func TestGenerateEmitsProgressEvents(t *testing.T) {
	g := NewGenerator(nil)
	source := &fakeSource{rate: 44100, duration: 120}
	cache := newFakeCache()

	var progressCount, completeCount int
	emit := func(e Event) {
		switch e.Status {
		case "progress":
			progressCount++
		case "complete":
			completeCount++
		}
	}

	if _, err := g.Generate("track-1", 120, source, cache, emit); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if progressCount == 0 {
		t.Fatal("expected at least one progress event")
	}
	if completeCount != 1 {
		t.Fatalf("completeCount = %d, want 1", completeCount)
	}
}
