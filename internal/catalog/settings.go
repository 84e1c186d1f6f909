package catalog

import (
	"database/sql"
	"errors"
	"fmt"
)

// defaultSettings seeds the typed key/value store the first time a catalog
// is opened, ported from original_source/db/queries/settings.rs verbatim.
var defaultSettings = []Setting{
	{Key: "ui.theme", Value: "system", ValueType: "string"},
	{Key: "ui.language", Value: "es", ValueType: "string"},
	{Key: "ui.waveform_resolution", Value: "1000", ValueType: "number"},

	{Key: "audio.output_device", Value: "default", ValueType: "string"},
	{Key: "audio.sample_rate", Value: "44100", ValueType: "number"},
	{Key: "audio.buffer_size", Value: "2048", ValueType: "number"},

	{Key: "library.auto_scan_on_startup", Value: "false", ValueType: "boolean"},
	{Key: "library.scan_interval_hours", Value: "0", ValueType: "number"},
	{Key: "library.import_folder", Value: "", ValueType: "string"},

	{Key: "conversion.enabled", Value: "false", ValueType: "boolean"},
	{Key: "conversion.auto_convert", Value: "false", ValueType: "boolean"},
	{Key: "conversion.bitrate", Value: "320", ValueType: "number"},
	{Key: "conversion.output_folder", Value: "", ValueType: "string"},
	{Key: "conversion.preserve_structure", Value: "true", ValueType: "boolean"},
}

// GetSetting looks up a single setting by key. Returns (Setting{}, false, nil)
// if the key does not exist.
func (s *Store) GetSetting(key string) (Setting, bool, error) {
	var out Setting
	err := s.db.QueryRow(`SELECT key, value, value_type FROM settings WHERE key = ?`, key).
		Scan(&out.Key, &out.Value, &out.ValueType)
	if errors.Is(err, sql.ErrNoRows) {
		return Setting{}, false, nil
	}
	if err != nil {
		return Setting{}, false, fmt.Errorf("get setting: %w", err)
	}
	return out, true, nil
}

// GetAllSettings returns every setting, ordered by key.
func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value, value_type FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	var out []Setting
	for rows.Next() {
		var st Setting
		if err := rows.Scan(&st.Key, &st.Value, &st.ValueType); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out = append(out, st)
	}
	return out, nil
}

// UpsertSetting inserts or updates a setting by key.
func (s *Store) UpsertSetting(key, value, valueType string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value, value_type) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, value_type = excluded.value_type`,
		key, value, valueType,
	)
	if err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}
	return nil
}

// DeleteSetting removes a setting by key; deleting a non-existent key is not
// an error, matching original_source's semantics.
func (s *Store) DeleteSetting(key string) error {
	if _, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete setting: %w", err)
	}
	return nil
}

// ResetAllSettings clears every setting and re-seeds the defaults.
func (s *Store) ResetAllSettings() error {
	if _, err := s.db.Exec(`DELETE FROM settings`); err != nil {
		return fmt.Errorf("clear settings: %w", err)
	}
	return s.seedDefaultSettings()
}

// seedDefaultSettings idempotently inserts any default setting not already
// present, matching original_source's initialize_default_settings.
func (s *Store) seedDefaultSettings() error {
	for _, d := range defaultSettings {
		var exists bool
		if err := s.db.QueryRow(`SELECT COUNT(*) > 0 FROM settings WHERE key = ?`, d.Key).Scan(&exists); err != nil {
			return fmt.Errorf("check setting %q: %w", d.Key, err)
		}
		if !exists {
			if err := s.UpsertSetting(d.Key, d.Value, d.ValueType); err != nil {
				return err
			}
		}
	}
	return nil
}
