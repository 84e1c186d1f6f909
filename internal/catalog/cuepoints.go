package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jvegaf/decklib/internal/apperr"
)

const maxCuePointsPerTrack = 64

// InsertCuePoint adds a new cue point to a track, enforcing the 64-per-track
// cap and the 1-8 hotkey range from spec.md's invariants.
func (s *Store) InsertCuePoint(trackID string, position float64, label, color, cueType string, hotkey *int) (string, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM cue_points WHERE track_id = ?`, trackID).Scan(&count); err != nil {
		return "", fmt.Errorf("%w: count cue points: %v", apperr.ErrDatabaseError, err)
	}
	if count >= maxCuePointsPerTrack {
		return "", fmt.Errorf("maximum of %d cue points per track", maxCuePointsPerTrack)
	}
	if hotkey != nil && (*hotkey < 1 || *hotkey > 8) {
		return "", fmt.Errorf("hotkey must be between 1 and 8")
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO cue_points (id, track_id, position, label, color, type, hotkey, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, trackID, position, label, color, cueType, hotkey, nowString(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: insert cue point: %v", apperr.ErrDatabaseError, err)
	}
	return id, nil
}

// GetCuePoints returns a track's cue points ordered by position.
func (s *Store) GetCuePoints(trackID string) ([]CuePoint, error) {
	rows, err := s.db.Query(
		`SELECT id, track_id, position, label, color, type, hotkey, created_at
		 FROM cue_points WHERE track_id = ? ORDER BY position ASC`, trackID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query cue points: %v", apperr.ErrDatabaseError, err)
	}
	defer rows.Close()

	var out []CuePoint
	for rows.Next() {
		var c CuePoint
		if err := rows.Scan(&c.ID, &c.TrackID, &c.Position, &c.Label, &c.Color, &c.Type, &c.Hotkey, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan cue point: %v", apperr.ErrDatabaseError, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// DeleteCuePoint removes a single cue point by id.
func (s *Store) DeleteCuePoint(id string) error {
	if _, err := s.db.Exec(`DELETE FROM cue_points WHERE id = ?`, id); err != nil {
		return fmt.Errorf("%w: delete cue point: %v", apperr.ErrDatabaseError, err)
	}
	return nil
}
