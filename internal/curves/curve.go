package curves

import (
	"math"

	"github.com/markusressel/pifan/internal/configuration"
	"github.com/markusressel/pifan/internal/util"
)

// Curve is an immutable piecewise-linear mapping from a temperature in °C
// to a duty cycle in percent.
type Curve struct {
	temps  []float64
	duties []float64
}

// New creates a curve from two equal-length breakpoint sequences.
// The slices are copied, later modifications by the caller have no effect.
func New(temps []float64, duties []float64) (*Curve, error) {
	if err := configuration.ValidateBreakpoints(temps, duties); err != nil {
		return nil, err
	}

	c := &Curve{
		temps:  make([]float64, len(temps)),
		duties: make([]float64, len(duties)),
	}
	copy(c.temps, temps)
	copy(c.duties, duties)
	return c, nil
}

// FromConfig creates the curve described by the breakpoints of the given configuration
func FromConfig(config *configuration.Configuration) (*Curve, error) {
	return New(config.TempBreakpointsC, config.DutyBreakpointsPercent)
}

// Lookup returns the duty cycle for the given temperature.
// Below the first breakpoint the first duty is returned, at or above the last
// breakpoint the last duty. Two breakpoints sharing the same temperature form a
// vertical step, which resolves to the duty of the upper breakpoint.
func (c *Curve) Lookup(temp float64) float64 {
	last := len(c.temps) - 1

	if temp < c.temps[0] || math.IsNaN(temp) {
		return c.duties[0]
	}
	if temp >= c.temps[last] {
		return c.duties[last]
	}

	for i := 0; i < last; i++ {
		currentX := c.temps[i]
		nextX := c.temps[i+1]
		if temp < currentX || temp >= nextX {
			continue
		}

		currentY := c.duties[i]
		nextY := c.duties[i+1]
		if nextX == currentX {
			return nextY
		}
		ratio := util.Ratio(temp, currentX, nextX)
		return currentY + ratio*(nextY-currentY)
	}

	// unreachable for validated breakpoints
	return c.duties[last]
}

// Temps returns a copy of the temperature breakpoints
func (c *Curve) Temps() []float64 {
	result := make([]float64, len(c.temps))
	copy(result, c.temps)
	return result
}

// Duties returns a copy of the duty breakpoints
func (c *Curve) Duties() []float64 {
	result := make([]float64, len(c.duties))
	copy(result, c.duties)
	return result
}

// Sample evaluates the curve from the first to the last breakpoint (inclusive),
// in increments of step °C
func (c *Curve) Sample(step float64) []float64 {
	if !(step > 0) {
		step = 1
	}
	start := c.temps[0]
	stop := c.temps[len(c.temps)-1]

	var result []float64
	for i := 0; ; i++ {
		temp := start + float64(i)*step
		if temp > stop {
			break
		}
		result = append(result, c.Lookup(temp))
	}
	return result
}
