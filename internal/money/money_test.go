package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 143.04, Round(143.04000000000002))
	assert.Equal(t, 22.81, Round(22.8076))
	assert.Equal(t, 22.80, Round(22.804))
	assert.Equal(t, 0.0, Round(0))
	assert.Equal(t, -19.5, Round(-19.495))
}

func TestRoundHalfUp(t *testing.T) {
	// Half-up on the decimal representation, not banker's rounding.
	assert.Equal(t, 0.13, Round(0.125))
	assert.Equal(t, 0.12, Round(0.1249))
}

func TestRoundNonNumeric(t *testing.T) {
	assert.Equal(t, 0.0, Round(math.NaN()))
	assert.Equal(t, 0.0, Round(math.Inf(1)))
	assert.Equal(t, 0.0, Round(math.Inf(-1)))
}

func TestRoundIdempotent(t *testing.T) {
	for _, v := range []float64{143.04000000000002, 22.8076, 19000, 0.005, 999999.999, -42.555} {
		once := Round(v)
		assert.Equal(t, once, Round(once), "Round must be idempotent for %v", v)
	}
}

func TestFromFloat(t *testing.T) {
	assert.Equal(t, "18999.99", FromFloat(18999.99).StringFixed(2))
	assert.Equal(t, "0.00", FromFloat(math.NaN()).StringFixed(2))
}
