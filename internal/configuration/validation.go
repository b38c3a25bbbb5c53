package configuration

import (
	"fmt"
	"math"

	"github.com/markusressel/pifan/internal/ui"
	"github.com/markusressel/pifan/internal/util"
	"golang.org/x/exp/slices"
)

const (
	MinDutyPercent = 0.0
	MaxDutyPercent = 100.0
)

// Validate checks CurrentConfig, returning a *ConfigError for the first problem found
func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	err := ValidateBreakpoints(config.TempBreakpointsC, config.DutyBreakpointsPercent)
	if err != nil {
		return err
	}
	err = validateControl(config)
	if err != nil {
		return err
	}
	err = validateSensor(&config.Sensor)
	if err != nil {
		return err
	}
	err = validateFan(config)
	if err != nil {
		return err
	}
	return validateEndpoints(config)
}

// ValidateBreakpoints checks that temps and duties describe a usable curve:
// equal length, at least two points, non-decreasing temperatures and duties within [0..100]
func ValidateBreakpoints(temps []float64, duties []float64) error {
	if len(temps) != len(duties) {
		return NewConfigError("tempBreakpointsC",
			"tempBreakpointsC and dutyBreakpointsPercent must have same length (%d != %d)", len(temps), len(duties))
	}
	if len(temps) < 2 {
		return NewConfigError("tempBreakpointsC", "at least 2 breakpoints are required, got %d", len(temps))
	}
	for i, temp := range temps {
		if math.IsNaN(temp) || math.IsInf(temp, 0) {
			return NewConfigError("tempBreakpointsC", "breakpoint %d is not a finite number", i)
		}
	}
	if !slices.IsSorted(temps) {
		return NewConfigError("tempBreakpointsC", "temperatures must not decrease: %v", temps)
	}
	for i, duty := range duties {
		if math.IsNaN(duty) || duty < MinDutyPercent || duty > MaxDutyPercent {
			return NewConfigError("dutyBreakpointsPercent",
				"duty %d must be within [%.0f..%.0f], got %v", i, MinDutyPercent, MaxDutyPercent, duty)
		}
	}
	return nil
}

func validateControl(config *Configuration) error {
	if !(config.HysteresisC > 0) {
		return NewConfigError("hysteresisC", "must be > 0, got %v", config.HysteresisC)
	}
	if math.IsNaN(config.MinDutyPercent) || config.MinDutyPercent < MinDutyPercent || config.MinDutyPercent > MaxDutyPercent {
		return NewConfigError("minDutyPercent", "must be within [%.0f..%.0f], got %v", MinDutyPercent, MaxDutyPercent, config.MinDutyPercent)
	}
	if config.RefreshPeriod <= 0 {
		return NewConfigError("refreshPeriod", "must be > 0, got %s", config.RefreshPeriod)
	}
	if config.TempRollingWindowSize < 1 {
		return NewConfigError("tempRollingWindowSize", "must be >= 1, got %d", config.TempRollingWindowSize)
	}
	return nil
}

func validateSensor(sensorConfig *SensorConfig) error {
	subConfigs := 0
	if sensorConfig.File != nil {
		subConfigs++
	}
	if sensorConfig.Cmd != nil {
		subConfigs++
	}
	if sensorConfig.LmSensors != nil {
		subConfigs++
	}
	if subConfigs > 1 {
		return NewConfigError("sensor", "Sensor %s: only one sensor type can be used per sensor definition block", sensorConfig.ID)
	}
	if subConfigs <= 0 {
		return NewConfigError("sensor", "Sensor %s: sub-configuration for sensor is missing, use one of: file | cmd | lmsensors", sensorConfig.ID)
	}

	if sensorConfig.File != nil {
		if len(sensorConfig.File.Path) <= 0 {
			return NewConfigError("sensor.file.path", "Sensor %s: no file path provided", sensorConfig.ID)
		}
		if sensorConfig.File.Scale <= 0 {
			return NewConfigError("sensor.file.scale", "Sensor %s: scale must be > 0", sensorConfig.ID)
		}
	}

	if sensorConfig.Cmd != nil {
		if len(sensorConfig.Cmd.Exec) <= 0 {
			return NewConfigError("sensor.cmd.exec", "Sensor %s: executable is missing", sensorConfig.ID)
		}
		if _, err := util.CheckFilePermissionsForExecution(sensorConfig.Cmd.Exec); err != nil {
			return NewConfigError("sensor.cmd.exec", "Sensor %s: executable '%s' has invalid permissions: %v", sensorConfig.ID, sensorConfig.Cmd.Exec, err)
		}
	}

	if sensorConfig.LmSensors != nil {
		if len(sensorConfig.LmSensors.Chip) <= 0 {
			return NewConfigError("sensor.lmsensors.chip", "Sensor %s: chip is missing", sensorConfig.ID)
		}
	}

	return nil
}

func validateFan(config *Configuration) error {
	fanConfig := &config.Fan

	subConfigs := 0
	if fanConfig.Gpio != nil {
		subConfigs++
	}
	if fanConfig.Sysfs != nil {
		subConfigs++
	}
	if fanConfig.File != nil {
		subConfigs++
	}
	if fanConfig.Cmd != nil {
		subConfigs++
	}
	if subConfigs > 1 {
		return NewConfigError("fan", "Fan %s: only one fan type can be used per fan definition block", fanConfig.ID)
	}
	if subConfigs <= 0 {
		return NewConfigError("fan", "Fan %s: sub-configuration for fan is missing, use one of: gpio | sysfs | file | cmd", fanConfig.ID)
	}

	if fanConfig.Gpio != nil || fanConfig.Sysfs != nil {
		if !(config.PwmFrequencyHz > 0) {
			return NewConfigError("pwmFrequencyHz", "must be > 0, got %v", config.PwmFrequencyHz)
		}
	}

	if fanConfig.Gpio != nil {
		if config.FanPin < 0 {
			return NewConfigError("fanPin", "must be >= 0, got %d", config.FanPin)
		}
		if len(fanConfig.Gpio.Chip) <= 0 {
			return NewConfigError("fan.gpio.chip", "Fan %s: no gpio chip provided", fanConfig.ID)
		}
	}

	if fanConfig.Sysfs != nil {
		if fanConfig.Sysfs.Chip < 0 || fanConfig.Sysfs.Channel < 0 {
			return NewConfigError("fan.sysfs", "Fan %s: chip and channel must be >= 0", fanConfig.ID)
		}
	}

	if fanConfig.File != nil {
		if len(fanConfig.File.Path) <= 0 {
			return NewConfigError("fan.file.path", "Fan %s: no file path provided", fanConfig.ID)
		}
	}

	if fanConfig.Cmd != nil {
		if len(fanConfig.Cmd.Exec) <= 0 {
			return NewConfigError("fan.cmd.exec", "Fan %s: executable is missing", fanConfig.ID)
		}
		if _, err := util.CheckFilePermissionsForExecution(fanConfig.Cmd.Exec); err != nil {
			return NewConfigError("fan.cmd.exec", "Fan %s: executable '%s' has invalid permissions: %v", fanConfig.ID, fanConfig.Cmd.Exec, err)
		}
	}

	return nil
}

func validateEndpoints(config *Configuration) error {
	if config.Api.Enabled {
		if config.Api.Port <= 0 || config.Api.Port >= 65535 {
			return NewConfigError("api.port", "invalid port %d", config.Api.Port)
		}
	}
	if config.Statistics.Enabled {
		if config.Statistics.Port <= 0 || config.Statistics.Port >= 65535 {
			return NewConfigError("statistics.port", "invalid port %d", config.Statistics.Port)
		}
		if config.Api.Enabled && config.Api.Port == config.Statistics.Port {
			return NewConfigError("statistics.port", "port %d is already used by the api", config.Statistics.Port)
		}
	}

	if config.Fan.File != nil && config.Sensor.File != nil && config.Fan.File.Path == config.Sensor.File.Path {
		ui.Warning("Fan %s writes to the file read by sensor %s", config.Fan.ID, config.Sensor.ID)
	}

	return nil
}

// Describe returns a single line summary of the control parameters, used for logging
func Describe(config *Configuration) string {
	return fmt.Sprintf("period=%s hysteresis=%.1f°C minDuty=%.0f%% breakpoints=%d",
		config.RefreshPeriod, config.HysteresisC, config.MinDutyPercent, len(config.TempBreakpointsC))
}
