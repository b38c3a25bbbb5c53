package fans

import (
	"sync"

	"github.com/markusressel/pifan/internal/configuration"
	"github.com/markusressel/pifan/internal/util"
)

// FileFan writes the duty cycle in percent to a regular file.
// Mostly useful for dry runs and for integrating with other tools.
type FileFan struct {
	Config configuration.FanConfig `json:"config"`

	mu       sync.Mutex
	released bool
}

func (fan *FileFan) GetId() string {
	return fan.Config.ID
}

func (fan *FileFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

func (fan *FileFan) SetDuty(percent int) error {
	fan.mu.Lock()
	defer fan.mu.Unlock()

	duty := coerceDuty(percent)
	if fan.released {
		return &ActuatorError{FanId: fan.GetId(), Duty: duty, Err: ErrFanReleased}
	}

	filePath, err := util.ExpandPath(fan.Config.File.Path)
	if err != nil {
		return &ActuatorError{FanId: fan.GetId(), Duty: duty, Err: err}
	}

	err = util.WriteIntToFileAtomic(duty, filePath)
	if err != nil {
		return &ActuatorError{FanId: fan.GetId(), Duty: duty, Err: err}
	}
	return nil
}

func (fan *FileFan) Release() {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	fan.released = true
}
