// Package apperr defines the sentinel error taxonomy shared across the
// playback, waveform, beatgrid, and catalog components.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrFileNotFound      = errors.New("file not found")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrDecodingFailed    = errors.New("decoding failed")
	ErrPlaybackFailed    = errors.New("playback failed")
	ErrDeviceUnavailable = errors.New("audio device unavailable")
	ErrRateUnsupported   = errors.New("sample rate not supported by device")
	ErrDatabaseError     = errors.New("database error")
	ErrIO                = errors.New("i/o error")
)

// AnalysisError wraps a human-readable reason for a waveform or beatgrid
// analysis failure, mirroring original_source's AudioError::AnalysisError(String).
type AnalysisError struct {
	Reason string
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed: %s", e.Reason)
}

// NewAnalysisError builds an AnalysisError with a formatted reason.
func NewAnalysisError(format string, args ...any) error {
	return &AnalysisError{Reason: fmt.Sprintf(format, args...)}
}
