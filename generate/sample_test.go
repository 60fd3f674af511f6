package generate

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuppressRepeatRenormalizes(t *testing.T) {
	probs := []float64{0.1, 0.2, 0.6, 0.1}
	suppressRepeat(probs, 2)

	assert := assert.New(t)
	assert.Equal(0.0, probs[2])

	var sum float64
	for _, p := range probs {
		assert.GreaterOrEqual(p, 0.0)
		sum += p
	}
	assert.InDelta(1.0, sum, 1e-9)
}

func TestSuppressRepeatSkipsWhenBannedHoldsAllMass(t *testing.T) {
	probs := []float64{0, 0, 1, 0}
	suppressRepeat(probs, 2)
	assert.Equal(t, []float64{0, 0, 1, 0}, probs)
}

func TestSuppressRepeatIgnoresOutOfRange(t *testing.T) {
	probs := []float64{0.5, 0.5}
	suppressRepeat(probs, -1)
	suppressRepeat(probs, 7)
	assert.Equal(t, []float64{0.5, 0.5}, probs)
}

func TestSamplingAtMinimumTemperatureIsGreedy(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	probs := []float64{0.1, 0.2, 0.6, 0.1}
	for i := 0; i < 1000; i++ {
		if got := sampleWithTemperature(probs, 0, rng); got != 2 {
			t.Fatalf("draw %v selected %v, want 2", i, got)
		}
	}
}

func TestSamplingHighTemperatureReachesEveryIndex(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	probs := []float64{0.1, 0.2, 0.6, 0.1}
	seen := make(map[int]bool)
	for i := 0; i < 5000; i++ {
		seen[sampleWithTemperature(probs, 5.0, rng)] = true
	}
	assert.Equal(t, 4, len(seen))
}

func TestSamplingNeverReturnsOutOfRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	probs := []float64{0.25, 0.25, 0.25, 0.25}
	for i := 0; i < 1000; i++ {
		got := sampleWithTemperature(probs, 1.0, rng)
		if got < 0 || got >= len(probs) {
			t.Fatalf("sampled index %v out of range", got)
		}
	}
}

func TestSamplingHandlesZeroMassDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	probs := make([]float64, 4)
	got := sampleWithTemperature(probs, 1.0, rng)
	if got < 0 || got >= len(probs) {
		t.Fatalf("sampled index %v out of range", got)
	}
	if math.IsNaN(float64(got)) {
		t.Fatal("NaN index")
	}
}
