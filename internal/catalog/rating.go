package catalog

import "math"

// RatingToPOPM converts a 0-5 star rating to the ID3v2 POPM popularimeter
// byte value (popm = round(stars/5*255)), per spec.md's invariant. The MP3
// tag writer that would consume this value is out of scope; this mapping
// exists so the catalog's integer rating column has a documented, testable
// conversion for a future writer to use.
func RatingToPOPM(stars int) byte {
	if stars < 0 {
		stars = 0
	}
	if stars > 5 {
		stars = 5
	}
	value := math.Round(float64(stars) / 5 * 255)
	return byte(value)
}

// POPMToRating is RatingToPOPM's inverse: it converts an ID3v2 POPM
// popularimeter byte back to a 0-5 star rating (stars = round(popm/255*5)).
func POPMToRating(popm byte) int {
	stars := int(math.Round(float64(popm) / 255 * 5))
	if stars < 0 {
		stars = 0
	}
	if stars > 5 {
		stars = 5
	}
	return stars
}
