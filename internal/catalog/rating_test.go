package catalog

import "testing"

func TestRatingToPOPM(t *testing.T) {
	cases := []struct {
		stars int
		want  byte
	}{
		{0, 0},
		{1, 51},
		{2, 102},
		{3, 153},
		{4, 204},
		{5, 255},
		{-1, 0},
		{6, 255},
	}
	for _, c := range cases {
		if got := RatingToPOPM(c.stars); got != c.want {
			t.Errorf("RatingToPOPM(%d) = %d, want %d", c.stars, got, c.want)
		}
	}
}

func TestRatingPOPMRoundTrip(t *testing.T) {
	for stars := 0; stars <= 5; stars++ {
		popm := RatingToPOPM(stars)
		if got := POPMToRating(popm); got != stars {
			t.Errorf("POPMToRating(RatingToPOPM(%d)) = %d, want %d", stars, got, stars)
		}
	}
}
