package dian

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRateSnapsToBrackets(t *testing.T) {
	assert.Equal(t, 19.0, ClassifyRate(100, 18.7))
	assert.Equal(t, 19.0, ClassifyRate(100, 19.5))
	assert.Equal(t, 8.0, ClassifyRate(100, 7.6))
	assert.Equal(t, 5.0, ClassifyRate(100, 5.4))
	assert.Equal(t, 0.0, ClassifyRate(100, 0.3))
}

func TestClassifyRateZeroInputs(t *testing.T) {
	assert.Equal(t, 0.0, ClassifyRate(0, 19))
	assert.Equal(t, 0.0, ClassifyRate(100, 0))
}

func TestClassifyRateCustomRateRetained(t *testing.T) {
	assert.Equal(t, 12.34, ClassifyRate(100, 12.34))
	// Just outside the 19 window.
	assert.Equal(t, 19.51, ClassifyRate(100, 19.51))
}

func TestClassifyRateRoundsCustomRates(t *testing.T) {
	// 11.111/90 * 100 = 12.345...; kept as a 2-decimal custom rate.
	assert.Equal(t, 12.35, ClassifyRate(90, 11.111))
}
