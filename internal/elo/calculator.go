package elo

import (
	"math"
)

// Calculator produces the rating delta applied to every participant of a
// settled match: winners gain it, losers lose it. The default mode is a flat
// configured delta. Scaled mode weights the delta by the expected score of
// the winning side, so upsets move more points.
//
// Ratings are not floored; repeated losses can push a rating below zero.
type Calculator struct {
	delta  int
	scaled bool
}

func NewCalculator(delta int, scaled bool) *Calculator {
	return &Calculator{
		delta:  delta,
		scaled: scaled,
	}
}

// Delta returns the points exchanged for a match between sides with the
// given average ratings, from the winning side's perspective.
func (c *Calculator) Delta(winnerAvg, loserAvg int) int {
	if !c.scaled {
		return c.delta
	}

	// E = 1 / (1 + 10^((LoserAvg - WinnerAvg) / 400))
	exponent := float64(loserAvg-winnerAvg) / 400.0
	expected := 1.0 / (1.0 + math.Pow(10, exponent))

	// ΔR = 2K × (1 - E); equals K when the sides are even.
	delta := int(math.Round(2 * float64(c.delta) * (1.0 - expected)))
	if delta < 1 {
		delta = 1
	}
	return delta
}

// SideAverage is the mean rating of one side, rounded to nearest.
func SideAverage(ratings []int) int {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return int(math.Round(float64(sum) / float64(len(ratings))))
}
