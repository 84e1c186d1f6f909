package waveform

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jvegaf/decklib/internal/apperr"
)

// targetPeaks is the number of coarse-sampled positions taken across a
// track, matching original_source/audio/waveform/generator.rs's constant.
const targetPeaks = 800

// samplesPerPosition bounds how many samples are decoded at each seek
// position before moving on, so generation cost stays roughly O(targetPeaks)
// rather than O(track length).
const samplesPerPosition = 4096

// Cache persists generated peaks, satisfied by *catalog.Store.
type Cache interface {
	GetWaveformPeaks(trackID string) ([]float32, error)
	SaveWaveform(trackID string, peaks []float32) error
}

// Event reports generation progress. Status is one of "progress",
// "complete", or "error".
type Event struct {
	TrackID    string
	Status     string
	Peaks      []float32 // delta since the previous progress event
	PeaksSoFar int       // cumulative peak count, monotonically increasing
	Progress   float64   // 0..0.99 while generating; callers infer 1.0 from "complete"
	Error      error
}

// Generator produces and caches waveform peak data, and tracks in-flight
// generations so a caller can cancel by track id.
type Generator struct {
	logger *slog.Logger

	mu     sync.RWMutex
	active map[string]context.CancelFunc
}

func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		logger: logger,
		active: make(map[string]context.CancelFunc),
	}
}

// Cancel stops an in-flight generation for trackID, if one is running. A
// no-op if no generation is active for that track.
func (g *Generator) Cancel(trackID string) {
	g.mu.Lock()
	cancel, ok := g.active[trackID]
	g.mu.Unlock()
	if ok {
		cancel()
	}
}

// progressFraction reports how far generation has gotten, capped below 1.0
// so a "progress" event never claims completion before the "complete" event
// that actually follows it.
func progressFraction(done, total int) float64 {
	if total <= 0 {
		return 0.99
	}
	f := float64(done) / float64(total)
	if f > 0.99 {
		f = 0.99
	}
	return f
}

func (g *Generator) register(trackID string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	g.mu.Lock()
	g.active[trackID] = cancel
	g.mu.Unlock()
	return ctx, func() {
		g.mu.Lock()
		delete(g.active, trackID)
		g.mu.Unlock()
		cancel()
	}
}

// Generate produces peak data for trackID by coarse-sampling source at
// targetPeaks uniform time positions, emitting progress events as it goes.
// If cache already holds peaks for trackID, they are emitted as a single
// complete event and source is never touched.
//
// emit may be nil, in which case events are simply dropped.
func (g *Generator) Generate(trackID string, duration float64, source Source, cache Cache, emit func(Event)) ([]float32, error) {
	if emit == nil {
		emit = func(Event) {}
	}

	if cached, err := cache.GetWaveformPeaks(trackID); err == nil {
		emit(Event{TrackID: trackID, Status: "complete", Peaks: cached, PeaksSoFar: len(cached), Progress: 1.0})
		return cached, nil
	}

	if duration <= 0 {
		err := apperr.NewAnalysisError("non-positive track duration %v", duration)
		emit(Event{TrackID: trackID, Status: "error", Error: err})
		return nil, err
	}

	ctx, done := g.register(trackID)
	defer done()

	timeStep := duration / float64(targetPeaks)
	peaks := make([]float32, 0, targetPeaks)

	const progressBatch = 50
	lastReported := 0

	for i := 0; i < targetPeaks; i++ {
		select {
		case <-ctx.Done():
			err := apperr.NewAnalysisError("Cancelled")
			emit(Event{TrackID: trackID, Status: "error", Error: err})
			return nil, err
		default:
		}

		position := float64(i) * timeStep
		var peak float32
		if err := source.SeekTo(position); err != nil {
			g.logger.Warn("waveform seek failed, using zero peak", "track_id", trackID, "position", position, "err", err)
			peak = 0
		} else {
			samples, readErr := source.ReadSamples(samplesPerPosition)
			if len(samples) > 0 {
				peak = CalculatePeakValue(samples, MethodRMS)
			}
			if readErr != nil && len(samples) == 0 {
				// End of stream reached early: remaining positions stay 0.
				peak = 0
			}
		}
		peaks = append(peaks, peak)

		if len(peaks)-lastReported >= progressBatch {
			emit(Event{
				TrackID:    trackID,
				Status:     "progress",
				Peaks:      append([]float32(nil), peaks[lastReported:]...),
				PeaksSoFar: len(peaks),
				Progress:   progressFraction(len(peaks), targetPeaks),
			})
			lastReported = len(peaks)
		}
	}

	if lastReported < len(peaks) {
		emit(Event{
			TrackID:    trackID,
			Status:     "progress",
			Peaks:      append([]float32(nil), peaks[lastReported:]...),
			PeaksSoFar: len(peaks),
			Progress:   progressFraction(len(peaks), targetPeaks),
		})
	}

	NormalizePeaks(peaks)

	if err := cache.SaveWaveform(trackID, peaks); err != nil {
		g.logger.Warn("failed to persist waveform cache", "track_id", trackID, "err", err)
	}

	emit(Event{TrackID: trackID, Status: "complete", Peaks: peaks, PeaksSoFar: len(peaks), Progress: 1.0})
	return peaks, nil
}
