// Package beatgrid implements offline tempo analysis: onset detection via
// an adaptive energy threshold, followed by inter-onset-interval tempo
// estimation. Analyze is a pure function over already-decoded PCM samples.
package beatgrid

import (
	"math"

	"github.com/jvegaf/decklib/internal/apperr"
)

const (
	windowSize = 512
	hopSize    = 256

	minOnsetsRequired = 10
	minIntervalSec    = 0.3
	maxIntervalSec    = 2.0
)

// Analysis is the result of a beatgrid detection pass.
type Analysis struct {
	BPM        float64
	Offset     float64 // seconds to the first detected beat
	Confidence float64 // 0-100
}

// Analyze downmixes samples to mono (if channels > 1), detects onsets via an
// adaptive energy threshold, and estimates tempo from the resulting
// inter-onset intervals.
func Analyze(samples []float32, sampleRate int, channels int) (Analysis, error) {
	mono := toMono(samples, channels)

	onsets, err := detectOnsets(mono, sampleRate)
	if err != nil {
		return Analysis{}, err
	}

	bpm, confidence, err := calculateBPM(onsets, sampleRate)
	if err != nil {
		return Analysis{}, err
	}

	return Analysis{
		BPM:        bpm,
		Offset:     findFirstBeat(onsets, sampleRate),
		Confidence: confidence,
	}, nil
}

// toMono averages interleaved channel samples into a single channel by
// chunk, matching the original's simple block-average downmix.
func toMono(samples []float32, channels int) []float32 {
	if channels <= 1 {
		return samples
	}

	frames := len(samples) / channels
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}

// detectOnsets computes windowed RMS energy and flags onsets where energy
// crosses above an adaptive threshold (mean + 1.5*stddev) from at-or-below,
// suppressing repeat detections until energy falls back under threshold.
// Returns onset sample indices (the start of the window that crossed).
func detectOnsets(samples []float32, sampleRate int) ([]int, error) {
	if len(samples) < windowSize {
		return nil, apperr.NewAnalysisError("audio too short")
	}

	var energies []float64
	var starts []int
	for start := 0; start+windowSize <= len(samples); start += hopSize {
		window := samples[start : start+windowSize]
		var sumSquares float64
		for _, s := range window {
			v := float64(s)
			sumSquares += v * v
		}
		energies = append(energies, math.Sqrt(sumSquares/float64(windowSize)))
		starts = append(starts, start)
	}

	if len(energies) == 0 {
		return nil, apperr.NewAnalysisError("audio too short")
	}

	mean := meanOf(energies)
	stddev := stddevOf(energies, mean)
	threshold := mean + 1.5*stddev

	var onsets []int
	inPeak := false
	prevEnergy := 0.0
	for i, e := range energies {
		if e > threshold && prevEnergy <= threshold && !inPeak {
			onsets = append(onsets, starts[i])
			inPeak = true
		}
		if inPeak && e <= threshold {
			inPeak = false
		}
		prevEnergy = e
	}

	return onsets, nil
}

// calculateBPM estimates tempo from onset sample indices, filtering
// inter-onset intervals to a plausible [0.3s, 2.0s] range before averaging.
func calculateBPM(onsets []int, sampleRate int) (bpm float64, confidence float64, err error) {
	if len(onsets) < minOnsetsRequired {
		return 0, 0, apperr.NewAnalysisError("not enough beats detected")
	}

	var intervals []float64
	for i := 1; i < len(onsets); i++ {
		interval := float64(onsets[i]-onsets[i-1]) / float64(sampleRate)
		intervals = append(intervals, interval)
	}

	var valid []float64
	for _, iv := range intervals {
		if iv >= minIntervalSec && iv <= maxIntervalSec {
			valid = append(valid, iv)
		}
	}

	if len(valid) == 0 {
		return 0, 0, apperr.NewAnalysisError("no consistent tempo found")
	}

	meanInterval := meanOf(valid)
	stddev := stddevOf(valid, meanInterval)

	bpm = 60.0 / meanInterval

	ratio := stddev / meanInterval
	if ratio > 1 {
		ratio = 1
	}
	confidence = (1 - ratio) * 100
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	return bpm, confidence, nil
}

// findFirstBeat returns the time in seconds of the first onset, or 0 if
// there are none.
func findFirstBeat(onsets []int, sampleRate int) float64 {
	if len(onsets) == 0 {
		return 0
	}
	return float64(onsets[0]) / float64(sampleRate)
}

func meanOf(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddevOf(xs []float64, mean float64) float64 {
	var sumSq float64
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)))
}
