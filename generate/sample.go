package generate

import (
	"math"
	"math/rand"
)

const (
	// probEpsilon keeps log() finite for zero-probability entries.
	probEpsilon = 1e-10

	// minTemperature is the clamp floor; sampling at the floor is
	// effectively greedy.
	minTemperature = 0.05
)

// suppressRepeat zeroes the mass of the banned id and renormalizes the
// rest in place. If the banned id holds all the mass the distribution is
// left untouched.
func suppressRepeat(probs []float64, banned int) {
	if banned < 0 || banned >= len(probs) {
		return
	}
	var rest float64
	for i, p := range probs {
		if i != banned {
			rest += p
		}
	}
	if rest <= 0 {
		return
	}
	probs[banned] = 0
	for i := range probs {
		probs[i] /= rest
	}
}

// sampleWithTemperature rescales log-probabilities by 1/T, re-applies
// softmax, then walks the cumulative distribution against a uniform
// draw. The last index absorbs any floating-point shortfall.
func sampleWithTemperature(probs []float64, temperature float64, rng *rand.Rand) int {
	t := temperature
	if t < minTemperature {
		t = minTemperature
	}

	scaled := make([]float64, len(probs))
	maxv := math.Inf(-1)
	for i, p := range probs {
		scaled[i] = math.Log(p+probEpsilon) / t
		if scaled[i] > maxv {
			maxv = scaled[i]
		}
	}

	var sum float64
	for i := range scaled {
		scaled[i] = math.Exp(scaled[i] - maxv)
		sum += scaled[i]
	}

	draw := rng.Float64() * sum
	var cum float64
	for i, w := range scaled {
		cum += w
		if cum > draw {
			return i
		}
	}
	return len(scaled) - 1
}
