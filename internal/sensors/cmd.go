package sensors

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/markusressel/pifan/internal/configuration"
	"github.com/markusressel/pifan/internal/util"
)

// CmdSensor runs an executable and interprets its output as a temperature in °C
type CmdSensor struct {
	Config configuration.SensorConfig `json:"configuration"`
}

func (sensor CmdSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor CmdSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor CmdSensor) GetValue() (float64, error) {
	timeout := sensor.Config.Cmd.Timeout
	if timeout <= 0 {
		timeout = configuration.DefaultCmdTimeout
	}
	exec := sensor.Config.Cmd.Exec
	args := sensor.Config.Cmd.Args

	if _, err := os.Stat(exec); errors.Is(err, os.ErrNotExist) {
		return 0, newUnavailableError(sensor.GetId(), err)
	}

	result, err := util.SafeCmdExecution(exec, args, timeout)
	if err != nil {
		return 0, newReadFailure(sensor.GetId(), err)
	}

	temp, err := strconv.ParseFloat(strings.TrimSpace(result), 64)
	if err != nil {
		return 0, newReadFailure(sensor.GetId(), err)
	}

	return temp, nil
}
