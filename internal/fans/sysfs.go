package fans

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/markusressel/pifan/internal/configuration"
	"github.com/markusressel/pifan/internal/ui"
	"github.com/markusressel/pifan/internal/util"
)

// SysfsFan drives a hardware PWM channel through /sys/class/pwm/pwmchipN/pwmM
type SysfsFan struct {
	Config configuration.FanConfig `json:"config"`
	// PeriodNs is the PWM period in nanoseconds
	PeriodNs int `json:"periodNs"`

	mu       sync.Mutex
	exported bool
	released bool
}

// NewSysfsFan exports the configured channel (if necessary), sets its period and enables it with a duty of 0
func NewSysfsFan(config configuration.FanConfig, frequencyHz float64) (*SysfsFan, error) {
	if !(frequencyHz > 0) {
		return nil, fmt.Errorf("fan %s: invalid pwm frequency %v", config.ID, frequencyHz)
	}

	fan := &SysfsFan{
		Config:   config,
		PeriodNs: int(float64(time.Second) / frequencyHz),
	}

	err := fan.init()
	if err != nil {
		if fan.exported {
			fan.unexport()
		}
		return nil, fmt.Errorf("fan %s: unable to initialize pwm channel %s: %w", config.ID, fan.channelPath(), err)
	}
	return fan, nil
}

func (fan *SysfsFan) chipPath() string {
	return filepath.Join(fan.Config.Sysfs.Path, fmt.Sprintf("pwmchip%d", fan.Config.Sysfs.Chip))
}

func (fan *SysfsFan) channelPath() string {
	return filepath.Join(fan.chipPath(), fmt.Sprintf("pwm%d", fan.Config.Sysfs.Channel))
}

func (fan *SysfsFan) init() error {
	npwm, err := util.ReadIntFromFile(filepath.Join(fan.chipPath(), "npwm"))
	if err == nil && fan.Config.Sysfs.Channel >= npwm {
		return fmt.Errorf("channel %d out of range, chip has %d channels", fan.Config.Sysfs.Channel, npwm)
	}

	if _, err := os.Stat(fan.channelPath()); errors.Is(err, os.ErrNotExist) {
		err = util.WriteIntToFile(fan.Config.Sysfs.Channel, filepath.Join(fan.chipPath(), "export"))
		if err != nil {
			return err
		}
		fan.exported = true
	}

	// duty_cycle must never exceed the period, so it is reset first
	if err := fan.write("duty_cycle", 0); err != nil {
		return err
	}
	if err := fan.write("period", fan.PeriodNs); err != nil {
		return err
	}
	return fan.write("enable", 1)
}

func (fan *SysfsFan) write(attribute string, value int) error {
	return util.WriteIntToFile(value, filepath.Join(fan.channelPath(), attribute))
}

func (fan *SysfsFan) GetId() string {
	return fan.Config.ID
}

func (fan *SysfsFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

func (fan *SysfsFan) SetDuty(percent int) error {
	fan.mu.Lock()
	defer fan.mu.Unlock()

	duty := coerceDuty(percent)
	if fan.released {
		return &ActuatorError{FanId: fan.GetId(), Duty: duty, Err: ErrFanReleased}
	}

	dutyNs := fan.PeriodNs * duty / MaxDutyValue
	if err := fan.write("duty_cycle", dutyNs); err != nil {
		return &ActuatorError{FanId: fan.GetId(), Duty: duty, Err: err}
	}
	return nil
}

func (fan *SysfsFan) Release() {
	fan.mu.Lock()
	defer fan.mu.Unlock()

	if fan.released {
		return
	}
	fan.released = true

	if err := fan.write("enable", 0); err != nil {
		ui.Warning("Unable to disable pwm channel of fan %s: %v", fan.GetId(), err)
	}
	if fan.exported {
		fan.unexport()
	}
}

func (fan *SysfsFan) unexport() {
	err := util.WriteIntToFile(fan.Config.Sysfs.Channel, filepath.Join(fan.chipPath(), "unexport"))
	if err != nil {
		ui.Warning("Unable to unexport pwm channel of fan %s: %v", fan.GetId(), err)
	}
}
