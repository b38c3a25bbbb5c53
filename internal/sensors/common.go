package sensors

import (
	"fmt"

	"github.com/markusressel/pifan/internal/configuration"
	cmap "github.com/orcaman/concurrent-map/v2"
)

var (
	SensorMap = cmap.New[Sensor]()
)

type Sensor interface {
	GetId() string

	GetConfig() configuration.SensorConfig

	// GetValue returns the current temperature in °C
	GetValue() (float64, error)
}

func NewSensor(config configuration.SensorConfig) (Sensor, error) {
	if config.File != nil {
		return &FileSensor{
			Config: config,
		}, nil
	}

	if config.Cmd != nil {
		return &CmdSensor{
			Config: config,
		}, nil
	}

	if config.LmSensors != nil {
		return &LmSensorsSensor{
			Config: config,
		}, nil
	}

	return nil, fmt.Errorf("no matching sensor type for sensor: %s", config.ID)
}

// RegisterSensor makes the given sensor available to the api and statistics
func RegisterSensor(sensor Sensor) {
	SensorMap.Set(sensor.GetId(), sensor)
}

func GetSensor(id string) (Sensor, bool) {
	return SensorMap.Get(id)
}
