package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetWindowAvg_Rolls(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(2)
	window.Append(10)
	window.Append(20)
	window.Append(40)

	// WHEN
	avg := GetWindowAvg(window)

	// THEN
	assert.Equal(t, 30.0, avg)
}

func TestFillWindow(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(4)

	// WHEN
	FillWindow(window, 4, 45)

	// THEN
	assert.Equal(t, 45.0, GetWindowAvg(window))
}
