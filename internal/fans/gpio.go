package fans

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/markusressel/pifan/internal/configuration"
	"github.com/markusressel/pifan/internal/ui"
	"github.com/warthog618/gpiod"
)

const gpioConsumer = "pifan"

// outputLine is the part of *gpiod.Line used to drive the fan
type outputLine interface {
	SetValue(value int) error
	Close() error
}

// GpioFan drives a fan transistor with software PWM on a single GPIO line.
// A background goroutine toggles the line at the configured frequency.
type GpioFan struct {
	Config      configuration.FanConfig `json:"config"`
	Pin         int                     `json:"pin"`
	FrequencyHz float64                 `json:"frequencyHz"`

	line    outputLine
	chip    closer
	duty    atomic.Int32
	lastErr atomic.Pointer[error]

	stop        chan struct{}
	done        chan struct{}
	releaseOnce sync.Once
	released    atomic.Bool
}

// closer is anything that needs closing once the line has been released
type closer interface {
	Close() error
}

// NewGpioFan requests the given line as an output (initially low) and starts the PWM generator
func NewGpioFan(config configuration.FanConfig, pin int, frequencyHz float64) (*GpioFan, error) {
	if !(frequencyHz > 0) {
		return nil, fmt.Errorf("fan %s: invalid pwm frequency %v", config.ID, frequencyHz)
	}

	chip, err := gpiod.NewChip(config.Gpio.Chip, gpiod.WithConsumer(gpioConsumer))
	if err != nil {
		return nil, fmt.Errorf("fan %s: unable to open gpio chip %s: %w", config.ID, config.Gpio.Chip, err)
	}

	line, err := chip.RequestLine(pin, gpiod.AsOutput(0))
	if err != nil {
		_ = chip.Close()
		return nil, fmt.Errorf("fan %s: unable to request gpio line %d: %w", config.ID, pin, err)
	}

	return newGpioFan(config, pin, frequencyHz, line, chip), nil
}

func newGpioFan(config configuration.FanConfig, pin int, frequencyHz float64, line outputLine, chip closer) *GpioFan {
	fan := &GpioFan{
		Config:      config,
		Pin:         pin,
		FrequencyHz: frequencyHz,
		line:        line,
		chip:        chip,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	go fan.generate()
	return fan
}

func (fan *GpioFan) GetId() string {
	return fan.Config.ID
}

func (fan *GpioFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

func (fan *GpioFan) SetDuty(percent int) error {
	duty := coerceDuty(percent)
	if fan.released.Load() {
		return &ActuatorError{FanId: fan.GetId(), Duty: duty, Err: ErrFanReleased}
	}
	if errPtr := fan.lastErr.Swap(nil); errPtr != nil {
		return &ActuatorError{FanId: fan.GetId(), Duty: duty, Err: *errPtr}
	}
	fan.duty.Store(int32(duty))
	return nil
}

// GetDuty returns the duty cycle that is currently generated
func (fan *GpioFan) GetDuty() int {
	return int(fan.duty.Load())
}

func (fan *GpioFan) Release() {
	fan.releaseOnce.Do(func() {
		fan.released.Store(true)
		close(fan.stop)
		<-fan.done

		err := fan.line.SetValue(0)
		if err != nil {
			ui.Warning("Unable to drive gpio line %d of fan %s low: %v", fan.Pin, fan.GetId(), err)
		}
		err = errors.Join(fan.line.Close(), fan.chip.Close())
		if err != nil {
			ui.Warning("Unable to release gpio line %d of fan %s: %v", fan.Pin, fan.GetId(), err)
		}
	})
}

// generate toggles the line until Release is called. Each period starts high
// for duty percent of the period and is low for the remainder.
func (fan *GpioFan) generate() {
	defer close(fan.done)

	period := time.Duration(float64(time.Second) / fan.FrequencyHz)
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	level := -1
	setLevel := func(value int) {
		if value == level {
			return
		}
		if err := fan.line.SetValue(value); err != nil {
			fan.lastErr.Store(&err)
			return
		}
		level = value
	}

	wait := func(d time.Duration) bool {
		timer.Reset(d)
		select {
		case <-fan.stop:
			return false
		case <-timer.C:
			return true
		}
	}

	for {
		duty := int(fan.duty.Load())
		high := period * time.Duration(duty) / MaxDutyValue

		switch {
		case duty <= MinDutyValue:
			setLevel(0)
			if !wait(period) {
				return
			}
		case duty >= MaxDutyValue:
			setLevel(1)
			if !wait(period) {
				return
			}
		default:
			setLevel(1)
			if !wait(high) {
				return
			}
			setLevel(0)
			if !wait(period - high) {
				return
			}
		}
	}
}
