package waveform

import "testing"

func TestCalculatePeakValueEmpty(t *testing.T) {
	if got := CalculatePeakValue(nil, MethodPeak); got != 0 {
		t.Fatalf("peak(empty) = %v, want 0", got)
	}
	if got := CalculatePeakValue(nil, MethodRMS); got != 0 {
		t.Fatalf("rms(empty) = %v, want 0", got)
	}
}

func TestCalculatePeakValueSimple(t *testing.T) {
	samples := []float32{0.5, -0.8, 0.3, -0.2}
	got := CalculatePeakValue(samples, MethodPeak)
	if got != 0.8 {
		t.Fatalf("peak = %v, want 0.8", got)
	}
}

func TestCalculatePeakValueRMS(t *testing.T) {
	samples := []float32{0.5, 0.5, 0.5, 0.5}
	got := CalculatePeakValue(samples, MethodRMS)
	if got != 0.5 {
		t.Fatalf("rms = %v, want 0.5", got)
	}
}

func TestRMSLessThanPeak(t *testing.T) {
	samples := []float32{0.0, 0.0, 1.0, 0.0}
	peak := CalculatePeakValue(samples, MethodPeak)
	rms := CalculatePeakValue(samples, MethodRMS)
	if peak != 1.0 {
		t.Fatalf("peak = %v, want 1.0", peak)
	}
	if rms >= peak {
		t.Fatalf("rms = %v, want < peak (%v)", rms, peak)
	}
	if rms != 0.5 {
		t.Fatalf("rms = %v, want 0.5", rms)
	}
}

func TestNormalizePeaks(t *testing.T) {
	peaks := []float32{0.5, 1.0, 0.25, 0.75}
	NormalizePeaks(peaks)
	want := []float32{0.5, 1.0, 0.25, 0.75}
	for i := range want {
		if peaks[i] != want[i] {
			t.Fatalf("peaks[%d] = %v, want %v", i, peaks[i], want[i])
		}
	}
}

func TestNormalizePeaksEmpty(t *testing.T) {
	var peaks []float32
	NormalizePeaks(peaks)
	if len(peaks) != 0 {
		t.Fatal("expected empty slice to remain empty")
	}
}

func TestNormalizePeaksAllZero(t *testing.T) {
	peaks := []float32{0, 0, 0}
	NormalizePeaks(peaks)
	for _, p := range peaks {
		if p != 0 {
			t.Fatalf("expected all-zero input to remain zero, got %v", p)
		}
	}
}
