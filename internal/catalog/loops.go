package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jvegaf/decklib/internal/apperr"
)

const minLoopDurationSec = 0.1

// InsertLoop adds a new playback loop region to a track, enforcing the
// minimum 100ms duration invariant from spec.md.
func (s *Store) InsertLoop(trackID, label string, start, end float64) (string, error) {
	if end < start+minLoopDurationSec {
		return "", fmt.Errorf("loop must be at least %.0fms long", minLoopDurationSec*1000)
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO loops (id, track_id, label, loop_start, loop_end, is_active, created_at) VALUES (?, ?, ?, ?, ?, 0, ?)`,
		id, trackID, label, start, end, nowString(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: insert loop: %v", apperr.ErrDatabaseError, err)
	}
	return id, nil
}

// GetLoops returns a track's loops ordered by start position.
func (s *Store) GetLoops(trackID string) ([]Loop, error) {
	rows, err := s.db.Query(
		`SELECT id, track_id, label, loop_start, loop_end, is_active, created_at
		 FROM loops WHERE track_id = ? ORDER BY loop_start ASC`, trackID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query loops: %v", apperr.ErrDatabaseError, err)
	}
	defer rows.Close()

	var out []Loop
	for rows.Next() {
		var l Loop
		var isActive int
		if err := rows.Scan(&l.ID, &l.TrackID, &l.Label, &l.Start, &l.End, &isActive, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan loop: %v", apperr.ErrDatabaseError, err)
		}
		l.IsActive = isActive == 1
		out = append(out, l)
	}
	return out, nil
}

// SetLoopActive toggles a loop's active flag.
func (s *Store) SetLoopActive(id string, active bool) error {
	value := 0
	if active {
		value = 1
	}
	if _, err := s.db.Exec(`UPDATE loops SET is_active = ? WHERE id = ?`, value, id); err != nil {
		return fmt.Errorf("%w: set loop active: %v", apperr.ErrDatabaseError, err)
	}
	return nil
}

// DeleteLoop removes a single loop by id.
func (s *Store) DeleteLoop(id string) error {
	if _, err := s.db.Exec(`DELETE FROM loops WHERE id = ?`, id); err != nil {
		return fmt.Errorf("%w: delete loop: %v", apperr.ErrDatabaseError, err)
	}
	return nil
}
