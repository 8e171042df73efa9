package card

import "math"

// MaxStars is the number of star slots drawn per card.
const MaxStars = 5

// NormalizeScore maps a popularity score onto the 0-5 scale. Upstream mixes
// fractions of one with five-point scores; values up to 1 are fractions.
func NormalizeScore(score float64) float64 {
	if score <= 1 {
		return score * MaxStars
	}
	return score
}

// FullStars is the count of filled stars for a normalized score.
func FullStars(normalized float64) int {
	n := int(math.Floor(normalized))
	switch {
	case n < 0:
		return 0
	case n > MaxStars:
		return MaxStars
	default:
		return n
	}
}
