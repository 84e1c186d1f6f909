package catalog

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jvegaf/decklib/internal/apperr"
)

// InsertPlaylist creates a new playlist and returns its UUID.
func (s *Store) InsertPlaylist(name string, description *string) (string, error) {
	id := uuid.NewString()
	now := nowString()
	_, err := s.db.Exec(
		`INSERT INTO playlists (id, name, description, date_created, date_modified) VALUES (?, ?, ?, ?, ?)`,
		id, name, description, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("%w: insert playlist: %v", apperr.ErrDatabaseError, err)
	}
	return id, nil
}

// GetPlaylist returns a single playlist by id.
func (s *Store) GetPlaylist(id string) (Playlist, error) {
	row := s.db.QueryRow(
		`SELECT id, name, description, date_created, date_modified FROM playlists WHERE id = ?`, id,
	)
	var p Playlist
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.DateCreated, &p.DateModified)
	if errors.Is(err, sql.ErrNoRows) {
		return Playlist{}, fmt.Errorf("%w: playlist", apperr.ErrFileNotFound)
	}
	if err != nil {
		return Playlist{}, fmt.Errorf("%w: scan playlist: %v", apperr.ErrDatabaseError, err)
	}
	return p, nil
}

// GetAllPlaylists returns every playlist ordered by name.
func (s *Store) GetAllPlaylists() ([]Playlist, error) {
	rows, err := s.db.Query(`SELECT id, name, description, date_created, date_modified FROM playlists ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: query playlists: %v", apperr.ErrDatabaseError, err)
	}
	defer rows.Close()

	var out []Playlist
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.DateCreated, &p.DateModified); err != nil {
			return nil, fmt.Errorf("%w: scan playlist: %v", apperr.ErrDatabaseError, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// UpdatePlaylist renames/re-describes a playlist.
func (s *Store) UpdatePlaylist(id, name string, description *string) error {
	_, err := s.db.Exec(
		`UPDATE playlists SET name = ?, description = ?, date_modified = ? WHERE id = ?`,
		name, description, nowString(), id,
	)
	if err != nil {
		return fmt.Errorf("%w: update playlist: %v", apperr.ErrDatabaseError, err)
	}
	return nil
}

// DeletePlaylist removes a playlist; cascades to playlist_tracks.
func (s *Store) DeletePlaylist(id string) error {
	_, err := s.db.Exec(`DELETE FROM playlists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete playlist: %v", apperr.ErrDatabaseError, err)
	}
	return nil
}

// AddTrackToPlaylist appends a track at the end of the playlist.
func (s *Store) AddTrackToPlaylist(playlistID, trackID string) error {
	var maxPosition sql.NullInt64
	err := s.db.QueryRow(
		`SELECT MAX(position) FROM playlist_tracks WHERE playlist_id = ?`, playlistID,
	).Scan(&maxPosition)
	if err != nil {
		return fmt.Errorf("%w: query max position: %v", apperr.ErrDatabaseError, err)
	}

	next := 0
	if maxPosition.Valid {
		next = int(maxPosition.Int64) + 1
	}

	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO playlist_tracks (id, playlist_id, track_id, position, date_added) VALUES (?, ?, ?, ?, ?)`,
		id, playlistID, trackID, next, nowString(),
	)
	if err != nil {
		return fmt.Errorf("%w: add track to playlist: %v", apperr.ErrDatabaseError, err)
	}
	return nil
}

// RemoveTrackFromPlaylist removes a track from a playlist and compacts the
// remaining positions, matching original_source's reorder-after-remove.
func (s *Store) RemoveTrackFromPlaylist(playlistID, trackID string) error {
	_, err := s.db.Exec(
		`DELETE FROM playlist_tracks WHERE playlist_id = ? AND track_id = ?`, playlistID, trackID,
	)
	if err != nil {
		return fmt.Errorf("%w: remove track from playlist: %v", apperr.ErrDatabaseError, err)
	}
	return s.reorderPlaylistTracks(playlistID)
}

func (s *Store) reorderPlaylistTracks(playlistID string) error {
	rows, err := s.db.Query(
		`SELECT id FROM playlist_tracks WHERE playlist_id = ? ORDER BY position`, playlistID,
	)
	if err != nil {
		return fmt.Errorf("%w: query playlist entries: %v", apperr.ErrDatabaseError, err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("%w: scan playlist entry: %v", apperr.ErrDatabaseError, err)
		}
		ids = append(ids, id)
	}
	rows.Close()

	for idx, id := range ids {
		if _, err := s.db.Exec(`UPDATE playlist_tracks SET position = ? WHERE id = ?`, idx, id); err != nil {
			return fmt.Errorf("%w: reorder playlist entry: %v", apperr.ErrDatabaseError, err)
		}
	}
	return nil
}

// UpdatePlaylistTrackOrder replaces the full track order for a playlist
// transactionally (delete + reinsert), matching original_source's
// update_playlist_track_order.
func (s *Store) UpdatePlaylistTrackOrder(playlistID string, trackIDs []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", apperr.ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM playlist_tracks WHERE playlist_id = ?`, playlistID); err != nil {
		return fmt.Errorf("%w: clear playlist entries: %v", apperr.ErrDatabaseError, err)
	}

	now := nowString()
	for position, trackID := range trackIDs {
		id := uuid.NewString()
		if _, err := tx.Exec(
			`INSERT INTO playlist_tracks (id, playlist_id, track_id, position, date_added) VALUES (?, ?, ?, ?, ?)`,
			id, playlistID, trackID, position, now,
		); err != nil {
			return fmt.Errorf("%w: insert playlist entry: %v", apperr.ErrDatabaseError, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit transaction: %v", apperr.ErrDatabaseError, err)
	}
	return nil
}

// GetPlaylistTracks returns the tracks in a playlist, in order.
func (s *Store) GetPlaylistTracks(playlistID string) ([]Track, error) {
	rows, err := s.db.Query(
		`SELECT t.id, t.path, t.title, t.artist, t.album, t.genre, t.year, t.duration,
			t.bitrate, t.sample_rate, t.file_size, t.bpm, t.key, t.rating, t.play_count,
			t.last_played, t.date_added, t.date_modified, t.label, t.isrc, t.beatport_id
		 FROM tracks t
		 INNER JOIN playlist_tracks pt ON t.id = pt.track_id
		 WHERE pt.playlist_id = ?
		 ORDER BY pt.position`, playlistID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query playlist tracks: %v", apperr.ErrDatabaseError, err)
	}
	defer rows.Close()
	return scanTracks(rows)
}
