package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jvegaf/decklib/internal/apperr"
	"github.com/jvegaf/decklib/internal/pathdate"
)

// supportedExtensions mirrors spec.md's supported format list.
var supportedExtensions = map[string]bool{
	".mp3": true, ".flac": true, ".wav": true, ".ogg": true, ".m4a": true, ".aac": true,
}

// MetadataExtractor reads tags from an audio file. The real implementation
// lives outside this module's scope (spec.md treats tag reading as an
// external pure function); callers inject one, and ConsolidateLibrary falls
// back to filename-derived metadata when it is nil or fails.
type MetadataExtractor func(path string) (title, artist string, album, genre *string, year *int, duration float64, bitrate, sampleRate int, err error)

// ConsolidateResult reports the outcome of a library consolidation pass,
// mirroring original_source's ConsolidateLibraryResult.
type ConsolidateResult struct {
	InitialTracks   int
	OrphansRemoved  int
	DuplicatesRemoved int
	NewTracksAdded  int
	TotalTracks     int
	MetadataErrors  int
}

// ConsolidateLibrary removes catalog entries whose file no longer exists,
// removes duplicate entries for the same path (keeping the earliest
// date_added), walks libraryPaths for new audio files, inserts them with
// best-effort metadata, and finally runs VACUUM+ANALYZE.
func (s *Store) ConsolidateLibrary(libraryPaths []string, extract MetadataExtractor) (ConsolidateResult, error) {
	var result ConsolidateResult

	initial, err := s.countTracks()
	if err != nil {
		return result, err
	}
	result.InitialTracks = initial

	orphans, err := s.removeOrphans()
	if err != nil {
		return result, err
	}
	result.OrphansRemoved = orphans

	duplicates, err := s.removeDuplicates()
	if err != nil {
		return result, err
	}
	result.DuplicatesRemoved = duplicates

	existing, err := s.existingPaths()
	if err != nil {
		return result, err
	}

	added, metaErrors := s.addNewTracks(libraryPaths, existing, extract)
	result.NewTracksAdded = added
	result.MetadataErrors = metaErrors

	total, err := s.countTracks()
	if err != nil {
		return result, err
	}
	result.TotalTracks = total

	if _, err := s.db.Exec(`VACUUM`); err != nil {
		return result, fmt.Errorf("%w: vacuum: %v", apperr.ErrDatabaseError, err)
	}
	if _, err := s.db.Exec(`ANALYZE`); err != nil {
		return result, fmt.Errorf("%w: analyze: %v", apperr.ErrDatabaseError, err)
	}

	return result, nil
}

func (s *Store) countTracks() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tracks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count tracks: %v", apperr.ErrDatabaseError, err)
	}
	return n, nil
}

func (s *Store) removeOrphans() (int, error) {
	rows, err := s.db.Query(`SELECT id, path FROM tracks`)
	if err != nil {
		return 0, fmt.Errorf("%w: query tracks: %v", apperr.ErrDatabaseError, err)
	}
	type idPath struct{ id, path string }
	var all []idPath
	for rows.Next() {
		var p idPath
		if err := rows.Scan(&p.id, &p.path); err != nil {
			rows.Close()
			return 0, fmt.Errorf("%w: scan track path: %v", apperr.ErrDatabaseError, err)
		}
		all = append(all, p)
	}
	rows.Close()

	var removed int
	for _, p := range all {
		if _, err := os.Stat(p.path); os.IsNotExist(err) {
			if _, err := s.db.Exec(`DELETE FROM tracks WHERE id = ?`, p.id); err != nil {
				return removed, fmt.Errorf("%w: delete orphan: %v", apperr.ErrDatabaseError, err)
			}
			removed++
		}
	}
	return removed, nil
}

func (s *Store) removeDuplicates() (int, error) {
	rows, err := s.db.Query(`SELECT id, path FROM tracks ORDER BY date_added ASC`)
	if err != nil {
		return 0, fmt.Errorf("%w: query tracks: %v", apperr.ErrDatabaseError, err)
	}
	type idPath struct{ id, path string }
	var all []idPath
	for rows.Next() {
		var p idPath
		if err := rows.Scan(&p.id, &p.path); err != nil {
			rows.Close()
			return 0, fmt.Errorf("%w: scan track path: %v", apperr.ErrDatabaseError, err)
		}
		all = append(all, p)
	}
	rows.Close()

	seen := make(map[string]bool)
	var removed int
	for _, p := range all {
		if seen[p.path] {
			if _, err := s.db.Exec(`DELETE FROM tracks WHERE id = ?`, p.id); err != nil {
				return removed, fmt.Errorf("%w: delete duplicate: %v", apperr.ErrDatabaseError, err)
			}
			removed++
			continue
		}
		seen[p.path] = true
	}
	return removed, nil
}

func (s *Store) existingPaths() (map[string]bool, error) {
	rows, err := s.db.Query(`SELECT path FROM tracks`)
	if err != nil {
		return nil, fmt.Errorf("%w: query paths: %v", apperr.ErrDatabaseError, err)
	}
	defer rows.Close()

	paths := make(map[string]bool)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("%w: scan path: %v", apperr.ErrDatabaseError, err)
		}
		paths[p] = true
	}
	return paths, nil
}

func (s *Store) addNewTracks(libraryPaths []string, existing map[string]bool, extract MetadataExtractor) (added int, metadataErrors int) {
	for _, root := range libraryPaths {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				s.logger.Warn("walk error", "path", path, "error", err)
				return nil
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if !supportedExtensions[ext] {
				return nil
			}
			if existing[path] {
				return nil
			}

			track := buildFallbackTrack(path)

			if extract != nil {
				title, artist, album, genre, year, duration, bitrate, sampleRate, err := extract(path)
				if err != nil {
					metadataErrors++
					if metadataErrors <= 5 {
						s.logger.Warn("metadata extraction failed, using fallback", "path", path, "error", err)
					}
				} else {
					track.Title = title
					track.Artist = artist
					track.Album = album
					track.Genre = genre
					track.Year = year
					track.Duration = duration
					track.Bitrate = bitrate
					track.SampleRate = sampleRate
				}
			}

			if _, err := s.InsertTrack(track); err != nil {
				s.logger.Warn("insert track failed", "path", path, "error", err)
				return nil
			}
			added++
			return nil
		})
	}
	return added, metadataErrors
}

func buildFallbackTrack(path string) Track {
	base := filepath.Base(path)
	title := strings.TrimSuffix(base, filepath.Ext(base))

	var dateAdded string
	if d, ok := pathdate.ExtractDate(path); ok {
		dateAdded = d.Format(time.RFC3339)
	} else {
		dateAdded = nowString()
	}

	size := int64(0)
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	return Track{
		Path:       path,
		Title:      title,
		Artist:     "Unknown",
		Duration:   0,
		Bitrate:    0,
		SampleRate: 44100,
		FileSize:   size,
		PlayCount:  0,
		DateAdded:  dateAdded,
	}
}
