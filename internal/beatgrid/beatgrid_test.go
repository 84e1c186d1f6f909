package beatgrid

import (
	"math"
	"testing"
)

func TestToMonoStereo(t *testing.T) {
	// Interleaved stereo: (1,3),(2,4) -> mono averages (2,3)
	stereo := []float32{1, 3, 2, 4}
	mono := toMono(stereo, 2)
	want := []float32{2, 3}
	if len(mono) != len(want) {
		t.Fatalf("len = %d, want %d", len(mono), len(want))
	}
	for i := range want {
		if mono[i] != want[i] {
			t.Fatalf("mono[%d] = %v, want %v", i, mono[i], want[i])
		}
	}
}

func TestToMonoAlreadyMono(t *testing.T) {
	mono := []float32{1, 2, 3}
	out := toMono(mono, 1)
	for i := range mono {
		if out[i] != mono[i] {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], mono[i])
		}
	}
}

func TestDetectOnsetsTooShort(t *testing.T) {
	samples := make([]float32, 10)
	_, err := detectOnsets(samples, 44100)
	if err == nil {
		t.Fatal("expected error for too-short audio")
	}
}

// buildClickTrack builds a synthetic mono signal consisting of short bursts
// of high-amplitude noise-like samples spaced intervalSamples apart against
// a near-silent floor, so that windowed RMS energy spikes at each click.
func buildClickTrack(numClicks int, intervalSamples int, clickWidth int) []float32 {
	total := numClicks*intervalSamples + clickWidth + windowSize
	samples := make([]float32, total)
	for i := range samples {
		// low-amplitude floor
		samples[i] = 0.01 * float32(math.Sin(float64(i)*0.3))
	}
	for c := 0; c < numClicks; c++ {
		start := c * intervalSamples
		for i := 0; i < clickWidth && start+i < len(samples); i++ {
			samples[start+i] = float32(math.Sin(float64(i) * 1.5))
		}
	}
	return samples
}

func TestDetectOnsetsSimplePeaks(t *testing.T) {
	track := buildClickTrack(6, 4096, 64)
	onsets, err := detectOnsets(track, 44100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(onsets) == 0 {
		t.Fatal("expected at least one onset for a clicky signal")
	}
}

func TestCalculateBPMInsufficientOnsets(t *testing.T) {
	onsets := []int{0, 22050, 44100}
	_, _, err := calculateBPM(onsets, 44100)
	if err == nil {
		t.Fatal("expected error for insufficient onsets")
	}
}

func TestCalculateBPMConsistentTempo(t *testing.T) {
	// 120 BPM at 44100 Hz: 0.5s between beats = 22050 samples.
	const sampleRate = 44100
	const intervalSamples = 22050
	onsets := make([]int, 20)
	for i := range onsets {
		onsets[i] = i * intervalSamples
	}

	bpm, confidence, err := calculateBPM(onsets, sampleRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(bpm-120) > 0.5 {
		t.Fatalf("bpm = %v, want ~120", bpm)
	}
	if confidence <= 90 {
		t.Fatalf("confidence = %v, want > 90 for a perfectly regular click track", confidence)
	}
}

func TestCalculateBPMVariableTempo(t *testing.T) {
	const sampleRate = 44100
	intervals := []int{20000, 25000, 18000, 26000, 19000, 24000, 21000, 27000, 17000, 23000, 20500}
	onsets := make([]int, 0, len(intervals)+1)
	pos := 0
	onsets = append(onsets, pos)
	for _, iv := range intervals {
		pos += iv
		onsets = append(onsets, pos)
	}

	bpm, confidence, err := calculateBPM(onsets, sampleRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bpm <= 0 {
		t.Fatalf("bpm = %v, want > 0", bpm)
	}
	if confidence >= 90 {
		t.Fatalf("confidence = %v, want < 90 for irregular intervals", confidence)
	}
}

func TestCalculateBPMNoConsistentTempo(t *testing.T) {
	const sampleRate = 44100
	// Intervals all outside the [0.3s, 2.0s] window.
	onsets := make([]int, 12)
	for i := range onsets {
		onsets[i] = i * sampleRate * 5 // 5s apart
	}
	_, _, err := calculateBPM(onsets, sampleRate)
	if err == nil {
		t.Fatal("expected error when no intervals fall in the valid range")
	}
}

func TestFindFirstBeat(t *testing.T) {
	onsets := []int{4410, 8820}
	got := findFirstBeat(onsets, 44100)
	want := 0.1
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("findFirstBeat = %v, want %v", got, want)
	}
}

func TestFindFirstBeatEmpty(t *testing.T) {
	got := findFirstBeat(nil, 44100)
	if got != 0 {
		t.Fatalf("findFirstBeat(empty) = %v, want 0", got)
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	track := buildClickTrack(20, 22050, 64)
	analysis, err := Analyze(track, 44100, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.BPM <= 0 {
		t.Fatalf("BPM = %v, want > 0", analysis.BPM)
	}
}
