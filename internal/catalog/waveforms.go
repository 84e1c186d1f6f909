package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jvegaf/decklib/internal/apperr"
)

// GetWaveform returns the cached waveform for a track, if one exists.
func (s *Store) GetWaveform(trackID string) (Waveform, error) {
	var id, data, dateGenerated string
	var resolution int
	err := s.db.QueryRow(
		`SELECT id, data, resolution, date_generated FROM waveforms WHERE track_id = ?`, trackID,
	).Scan(&id, &data, &resolution, &dateGenerated)
	if errors.Is(err, sql.ErrNoRows) {
		return Waveform{}, fmt.Errorf("%w: waveform", apperr.ErrFileNotFound)
	}
	if err != nil {
		return Waveform{}, fmt.Errorf("%w: scan waveform: %v", apperr.ErrDatabaseError, err)
	}

	var peaks []float32
	if err := json.Unmarshal([]byte(data), &peaks); err != nil {
		return Waveform{}, fmt.Errorf("%w: decode waveform peaks: %v", apperr.ErrDatabaseError, err)
	}

	return Waveform{
		ID:            id,
		TrackID:       trackID,
		Peaks:         peaks,
		Resolution:    resolution,
		DateGenerated: dateGenerated,
	}, nil
}

// GetWaveformPeaks returns only the peak data for a track's cached
// waveform, for callers (internal/waveform.Generator) that don't need the
// surrounding row metadata.
func (s *Store) GetWaveformPeaks(trackID string) ([]float32, error) {
	w, err := s.GetWaveform(trackID)
	if err != nil {
		return nil, err
	}
	return w.Peaks, nil
}

// SaveWaveform upserts the waveform cache entry for a track. Peaks are
// serialized as JSON text, matching original_source/audio/waveform/cache.rs's
// choice (not a binary blob).
func (s *Store) SaveWaveform(trackID string, peaks []float32) error {
	data, err := json.Marshal(peaks)
	if err != nil {
		return fmt.Errorf("encode waveform peaks: %w", err)
	}

	var existingID string
	err = s.db.QueryRow(`SELECT id FROM waveforms WHERE track_id = ?`, trackID).Scan(&existingID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id := uuid.NewString()
		_, err = s.db.Exec(
			`INSERT INTO waveforms (id, track_id, data, resolution, date_generated) VALUES (?, ?, ?, ?, ?)`,
			id, trackID, string(data), len(peaks), nowString(),
		)
	case err == nil:
		_, err = s.db.Exec(
			`UPDATE waveforms SET data = ?, resolution = ?, date_generated = ? WHERE track_id = ?`,
			string(data), len(peaks), nowString(), trackID,
		)
	}
	if err != nil {
		return fmt.Errorf("%w: save waveform: %v", apperr.ErrDatabaseError, err)
	}
	return nil
}

// DeleteWaveform removes a track's cached waveform, if any.
func (s *Store) DeleteWaveform(trackID string) error {
	if _, err := s.db.Exec(`DELETE FROM waveforms WHERE track_id = ?`, trackID); err != nil {
		return fmt.Errorf("%w: delete waveform: %v", apperr.ErrDatabaseError, err)
	}
	return nil
}
