package fans

import (
	"errors"
	"fmt"

	"github.com/markusressel/pifan/internal/configuration"
	"github.com/markusressel/pifan/internal/util"
)

const (
	MaxDutyValue = 100
	MinDutyValue = 0
)

var ErrFanReleased = errors.New("fan has already been released")

type Fan interface {
	GetId() string

	GetConfig() configuration.FanConfig

	// SetDuty sets the duty cycle of this fan in percent, values outside of [0..100] are clamped
	SetDuty(percent int) error

	// Release frees the underlying resource. It can safely be called multiple times.
	Release()
}

// ActuatorError is returned when a duty cycle could not be applied
type ActuatorError struct {
	FanId string
	Duty  int
	Err   error
}

func (e *ActuatorError) Error() string {
	return fmt.Sprintf("fan %s: unable to set duty cycle %d%%: %v", e.FanId, e.Duty, e.Err)
}

func (e *ActuatorError) Unwrap() error {
	return e.Err
}

// NewFan creates and acquires the output described by config.
// pin and frequencyHz are only used by PWM capable outputs.
func NewFan(config configuration.FanConfig, pin int, frequencyHz float64) (Fan, error) {
	if config.Gpio != nil {
		fan, err := NewGpioFan(config, pin, frequencyHz)
		if err != nil {
			return nil, err
		}
		return fan, nil
	}

	if config.Sysfs != nil {
		fan, err := NewSysfsFan(config, frequencyHz)
		if err != nil {
			return nil, err
		}
		return fan, nil
	}

	if config.File != nil {
		return &FileFan{
			Config: config,
		}, nil
	}

	if config.Cmd != nil {
		return &CmdFan{
			Config: config,
		}, nil
	}

	return nil, fmt.Errorf("no matching fan type for fan: %s", config.ID)
}

func coerceDuty(percent int) int {
	return util.Coerce(percent, MinDutyValue, MaxDutyValue)
}
