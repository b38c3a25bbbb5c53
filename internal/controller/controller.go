package controller

import (
	"math"
	"sync"

	"github.com/markusressel/pifan/internal/configuration"
	"github.com/markusressel/pifan/internal/curves"
	"github.com/markusressel/pifan/internal/util"
)

// Config holds the parameters of the control law
type Config struct {
	// Hysteresis is the minimum temperature change (°C) required before a new duty is computed
	Hysteresis float64
	// MinDuty is the lowest non-zero duty (%) the fan is driven with
	MinDuty float64
}

// ConfigFrom extracts the control parameters from the application configuration
func ConfigFrom(config configuration.Configuration) Config {
	return Config{
		Hysteresis: config.HysteresisC,
		MinDuty:    config.MinDutyPercent,
	}
}

// State is a snapshot of the values last applied by the controller
type State struct {
	LastTemp float64 `json:"lastTemp"`
	LastDuty float64 `json:"lastDuty"`
	HasTemp  bool    `json:"hasTemp"`
	HasDuty  bool    `json:"hasDuty"`
}

// Statistics counts the decisions taken by the controller
type Statistics struct {
	Updates              uint64 `json:"updates"`
	Commands             uint64 `json:"commands"`
	HysteresisSuppressed uint64 `json:"hysteresisSuppressed"`
	DuplicateSuppressed  uint64 `json:"duplicateSuppressed"`
	FloorClamped         uint64 `json:"floorClamped"`
}

// Controller decides which duty cycle the fan should be driven with.
// Update is meant to be called from a single goroutine; State and
// Statistics may be read concurrently.
type Controller struct {
	curve  *curves.Curve
	config Config

	mu    sync.RWMutex
	state State
	stats Statistics
}

func New(curve *curves.Curve, config Config) *Controller {
	return &Controller{
		curve:  curve,
		config: config,
	}
}

func (c *Controller) Curve() *curves.Curve {
	return c.curve
}

// Update feeds a new temperature reading into the controller.
// ok is false if the fan should keep its current duty cycle.
func (c *Controller) Update(currentTemp float64) (duty float64, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Updates++

	if c.state.HasTemp && math.Abs(currentTemp-c.state.LastTemp) <= c.config.Hysteresis {
		c.stats.HysteresisSuppressed++
		return 0, false
	}

	raw := c.curve.Lookup(currentTemp)
	if raw > 0 && raw < c.config.MinDuty {
		raw = c.config.MinDuty
		c.stats.FloorClamped++
	}

	c.state.LastTemp = currentTemp
	c.state.HasTemp = true

	if c.state.HasDuty && raw == c.state.LastDuty {
		c.stats.DuplicateSuppressed++
		return 0, false
	}

	c.state.LastDuty = raw
	c.state.HasDuty = true
	c.stats.Commands++
	return raw, true
}

// ShutdownDuty is the duty applied before the fan is released
func (c *Controller) ShutdownDuty() float64 {
	return 0
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) Statistics() Statistics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// DutyCommand converts a duty computed by the controller into the value sent to the fan
func DutyCommand(duty float64) int {
	return util.RoundPercent(duty)
}
