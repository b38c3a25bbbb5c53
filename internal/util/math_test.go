package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	// GIVEN
	a := 0.0
	b := 100.0
	c := 50.0

	expected := 0.5

	// WHEN
	result := Ratio(c, a, b)

	// THEN
	assert.Equal(t, expected, result)
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, 0.0, Coerce(-5.0, 0, 100))
	assert.Equal(t, 100.0, Coerce(150.0, 0, 100))
	assert.Equal(t, 42, Coerce(42, 0, 100))
}

func TestRoundPercent(t *testing.T) {
	// GIVEN
	expectedInputOutput := map[float64]int{
		-10:   0,
		0:     0,
		29.4:  29,
		29.5:  30,
		99.99: 100,
		250:   100,
	}

	for input, output := range expectedInputOutput {
		// WHEN
		result := RoundPercent(input)

		// THEN
		assert.Equal(t, output, result, "input %v", input)
	}
}

func TestRoundPercent_NaN(t *testing.T) {
	assert.Equal(t, 0, RoundPercent(math.NaN()))
}
