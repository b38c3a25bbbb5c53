package sensors

import (
	"github.com/markusressel/pifan/internal/configuration"
	"github.com/markusressel/pifan/internal/util"
)

// FileSensor reads a number from a file, like the sysfs thermal zones
// (/sys/class/thermal/thermal_zone0/temp) which report milli-degrees.
type FileSensor struct {
	Config configuration.SensorConfig `json:"configuration"`
}

func (sensor FileSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor FileSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor FileSensor) GetValue() (float64, error) {
	filePath, err := util.ExpandPath(sensor.Config.File.Path)
	if err != nil {
		return 0, newReadFailure(sensor.GetId(), err)
	}

	value, err := util.ReadFloatFromFile(filePath)
	if err != nil {
		return 0, classifyError(sensor.GetId(), err)
	}

	scale := sensor.Config.File.Scale
	if scale <= 0 {
		scale = configuration.DefaultSensorScale
	}
	return value / scale, nil
}
