package fans

import (
	"strconv"
	"sync"

	"github.com/markusressel/pifan/internal/configuration"
	"github.com/markusressel/pifan/internal/util"
)

// CmdFan runs an executable with the duty cycle in percent as its last argument
type CmdFan struct {
	Config configuration.FanConfig `json:"config"`

	mu       sync.Mutex
	released bool
}

func (fan *CmdFan) GetId() string {
	return fan.Config.ID
}

func (fan *CmdFan) GetConfig() configuration.FanConfig {
	return fan.Config
}

func (fan *CmdFan) SetDuty(percent int) error {
	fan.mu.Lock()
	defer fan.mu.Unlock()

	duty := coerceDuty(percent)
	if fan.released {
		return &ActuatorError{FanId: fan.GetId(), Duty: duty, Err: ErrFanReleased}
	}

	timeout := fan.Config.Cmd.Timeout
	if timeout <= 0 {
		timeout = configuration.DefaultCmdTimeout
	}

	args := append([]string{}, fan.Config.Cmd.Args...)
	args = append(args, strconv.Itoa(duty))
	_, err := util.SafeCmdExecution(fan.Config.Cmd.Exec, args, timeout)
	if err != nil {
		return &ActuatorError{FanId: fan.GetId(), Duty: duty, Err: err}
	}
	return nil
}

func (fan *CmdFan) Release() {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	fan.released = true
}
