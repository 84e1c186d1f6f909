package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jvegaf/decklib/internal/apperr"
)

// InsertTrack adds a new track and returns its generated UUID. date_added is
// taken from t.DateAdded when set, otherwise from the current time.
func (s *Store) InsertTrack(t Track) (string, error) {
	id := uuid.NewString()
	now := nowString()
	dateAdded := t.DateAdded
	if dateAdded == "" {
		dateAdded = now
	}

	_, err := s.db.Exec(
		`INSERT INTO tracks (id, path, title, artist, album, genre, year, duration,
			bitrate, sample_rate, file_size, bpm, key, rating, play_count, last_played,
			date_added, date_modified, label, isrc, beatport_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, t.Path, t.Title, t.Artist, t.Album, t.Genre, t.Year, t.Duration,
		t.Bitrate, t.SampleRate, t.FileSize, t.BPM, t.Key, t.Rating, t.PlayCount,
		t.LastPlayed, dateAdded, now, t.Label, t.ISRC, t.BeatportID,
	)
	if err != nil {
		return "", fmt.Errorf("%w: insert track: %v", apperr.ErrDatabaseError, err)
	}
	return id, nil
}

// GetTrack returns a single track by id.
func (s *Store) GetTrack(id string) (Track, error) {
	row := s.db.QueryRow(trackSelectColumns+` WHERE id = ?`, id)
	return scanTrack(row)
}

// GetTracksByIDs fetches many tracks in a single round trip by expanding an
// IN (?,?,...) clause, instead of one GetTrack call per id. Returns an empty
// slice for an empty input without touching the database.
func (s *Store) GetTracksByIDs(ids []string) ([]Track, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.Query(trackSelectColumns+` WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query tracks by id: %v", apperr.ErrDatabaseError, err)
	}
	defer rows.Close()
	return scanTracks(rows)
}

// GetAllTracks returns every track ordered by artist then title.
func (s *Store) GetAllTracks() ([]Track, error) {
	rows, err := s.db.Query(trackSelectColumns + ` ORDER BY artist, title`)
	if err != nil {
		return nil, fmt.Errorf("%w: query tracks: %v", apperr.ErrDatabaseError, err)
	}
	defer rows.Close()
	return scanTracks(rows)
}

// DeleteTrack removes a track by id; cascades to waveforms, beatgrids, cue
// points, loops, and playlist entries via foreign key ON DELETE CASCADE.
func (s *Store) DeleteTrack(id string) error {
	_, err := s.db.Exec(`DELETE FROM tracks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete track: %v", apperr.ErrDatabaseError, err)
	}
	return nil
}

// UpdateTrackRating sets a track's star rating (0-5, or nil to clear).
func (s *Store) UpdateTrackRating(id string, rating *int) error {
	if rating != nil && (*rating < 0 || *rating > 5) {
		return fmt.Errorf("rating must be between 0 and 5")
	}
	_, err := s.db.Exec(`UPDATE tracks SET rating = ?, date_modified = ? WHERE id = ?`, rating, nowString(), id)
	if err != nil {
		return fmt.Errorf("%w: update rating: %v", apperr.ErrDatabaseError, err)
	}
	return nil
}

// RecordPlay increments play_count and stamps last_played with now.
func (s *Store) RecordPlay(id string) error {
	_, err := s.db.Exec(
		`UPDATE tracks SET play_count = play_count + 1, last_played = ? WHERE id = ?`,
		nowString(), id,
	)
	if err != nil {
		return fmt.Errorf("%w: record play: %v", apperr.ErrDatabaseError, err)
	}
	return nil
}

const trackSelectColumns = `SELECT id, path, title, artist, album, genre, year, duration,
	bitrate, sample_rate, file_size, bpm, key, rating, play_count, last_played,
	date_added, date_modified, label, isrc, beatport_id FROM tracks`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrack(row rowScanner) (Track, error) {
	var t Track
	err := row.Scan(
		&t.ID, &t.Path, &t.Title, &t.Artist, &t.Album, &t.Genre, &t.Year, &t.Duration,
		&t.Bitrate, &t.SampleRate, &t.FileSize, &t.BPM, &t.Key, &t.Rating, &t.PlayCount,
		&t.LastPlayed, &t.DateAdded, &t.DateModified, &t.Label, &t.ISRC, &t.BeatportID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Track{}, fmt.Errorf("%w: track", apperr.ErrFileNotFound)
	}
	if err != nil {
		return Track{}, fmt.Errorf("%w: scan track: %v", apperr.ErrDatabaseError, err)
	}
	return t, nil
}

func scanTracks(rows *sql.Rows) ([]Track, error) {
	var out []Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate tracks: %v", apperr.ErrDatabaseError, err)
	}
	return out, nil
}

func nowString() string {
	return time.Now().UTC().Format(time.RFC3339)
}
