package catalog

import "testing"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory(nil)
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenInMemoryRunsMigrations(t *testing.T) {
	s := newTestStore(t)

	var version int
	if err := s.db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		t.Fatalf("query schema_version: %v", err)
	}
	if version != len(migrations) {
		t.Fatalf("schema version = %d, want %d", version, len(migrations))
	}
}

func TestOpenInMemorySeedsDefaultSettings(t *testing.T) {
	s := newTestStore(t)

	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatalf("GetAllSettings: %v", err)
	}
	if len(settings) != len(defaultSettings) {
		t.Fatalf("settings count = %d, want %d", len(settings), len(defaultSettings))
	}
}

func TestRatingToPOPMClampsOutOfRange(t *testing.T) {
	cases := []struct {
		stars int
		want  byte
	}{
		{0, 0},
		{5, 255},
		{3, 153},
		{-1, 0},
		{9, 255},
	}
	for _, tc := range cases {
		got := RatingToPOPM(tc.stars)
		if got != tc.want {
			t.Errorf("RatingToPOPM(%d) = %d, want %d", tc.stars, got, tc.want)
		}
	}
}
