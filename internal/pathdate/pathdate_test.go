package pathdate

import (
	"testing"
	"time"
)

func TestExtractDate(t *testing.T) {
	cases := []struct {
		name string
		path string
		want time.Time
		ok   bool
	}{
		{
			name: "simple",
			path: "/music/2401 - Artist - Title.mp3",
			want: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "december",
			path: "/music/2312 - Artist - Title.mp3",
			want: time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "year_2000",
			path: "/music/0001 - Artist - Title.mp3",
			want: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "invalid_month",
			path: "/music/2413 - Artist - Title.mp3",
			ok:   false,
		},
		{
			name: "invalid_month_zero",
			path: "/music/2400 - Artist - Title.mp3",
			ok:   false,
		},
		{
			name: "no_pattern",
			path: "/music/Artist - Title.mp3",
			ok:   false,
		},
		{
			name: "multiple_patterns_takes_first",
			path: "/music/2401/3105 - Artist - Title.mp3",
			want: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "nested_path",
			path: "/library/Artists/2205/track.flac",
			want: time.Date(2022, time.May, 1, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractDate(tc.path)
			if ok != tc.ok {
				t.Fatalf("ExtractDate(%q) ok = %v, want %v", tc.path, ok, tc.ok)
			}
			if ok && !got.Equal(tc.want) {
				t.Fatalf("ExtractDate(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

func TestExtractFullDate(t *testing.T) {
	cases := []struct {
		name string
		path string
		want time.Time
		ok   bool
	}{
		{
			name: "valid",
			path: "/music/240115 - Artist - Title.mp3",
			want: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "invalid_day",
			path: "/music/240231 - Artist - Title.mp3",
			ok:   false,
		},
		{
			name: "feb_29_leap_year",
			path: "/music/240229 - Artist - Title.mp3",
			want: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "feb_29_non_leap_year",
			path: "/music/230229 - Artist - Title.mp3",
			ok:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractFullDate(tc.path)
			if ok != tc.ok {
				t.Fatalf("ExtractFullDate(%q) ok = %v, want %v", tc.path, ok, tc.ok)
			}
			if ok && !got.Equal(tc.want) {
				t.Fatalf("ExtractFullDate(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}
