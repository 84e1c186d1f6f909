package catalog

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jvegaf/decklib/internal/apperr"
)

// GetBeatgrid returns the stored tempo analysis for a track, if any.
func (s *Store) GetBeatgrid(trackID string) (Beatgrid, error) {
	var b Beatgrid
	b.TrackID = trackID
	err := s.db.QueryRow(
		`SELECT id, bpm, offset, confidence, analyzed_at FROM beatgrids WHERE track_id = ?`, trackID,
	).Scan(&b.ID, &b.BPM, &b.Offset, &b.Confidence, &b.AnalyzedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Beatgrid{}, fmt.Errorf("%w: beatgrid", apperr.ErrFileNotFound)
	}
	if err != nil {
		return Beatgrid{}, fmt.Errorf("%w: scan beatgrid: %v", apperr.ErrDatabaseError, err)
	}
	return b, nil
}

// SaveBeatgrid upserts the tempo analysis result for a track.
func (s *Store) SaveBeatgrid(trackID string, bpm, offset float64, confidence *float64) error {
	var existingID string
	err := s.db.QueryRow(`SELECT id FROM beatgrids WHERE track_id = ?`, trackID).Scan(&existingID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id := uuid.NewString()
		_, err = s.db.Exec(
			`INSERT INTO beatgrids (id, track_id, bpm, offset, confidence, analyzed_at) VALUES (?, ?, ?, ?, ?, ?)`,
			id, trackID, bpm, offset, confidence, nowString(),
		)
	case err == nil:
		_, err = s.db.Exec(
			`UPDATE beatgrids SET bpm = ?, offset = ?, confidence = ?, analyzed_at = ? WHERE track_id = ?`,
			bpm, offset, confidence, nowString(), trackID,
		)
	}
	if err != nil {
		return fmt.Errorf("%w: save beatgrid: %v", apperr.ErrDatabaseError, err)
	}
	return nil
}

// DeleteBeatgrid removes a track's stored beatgrid, if any.
func (s *Store) DeleteBeatgrid(trackID string) error {
	if _, err := s.db.Exec(`DELETE FROM beatgrids WHERE track_id = ?`, trackID); err != nil {
		return fmt.Errorf("%w: delete beatgrid: %v", apperr.ErrDatabaseError, err)
	}
	return nil
}
