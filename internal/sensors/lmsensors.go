package sensors

import (
	"fmt"
	"regexp"

	"github.com/markusressel/pifan/internal/configuration"
	"github.com/md14454/gosensors"
)

// LmSensorsSensor reads a temperature feature of a chip detected by libsensors
type LmSensorsSensor struct {
	Config configuration.SensorConfig `json:"configuration"`
}

func (sensor LmSensorsSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor LmSensorsSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor LmSensorsSensor) GetValue() (float64, error) {
	chipExpr, err := regexp.Compile("(?i)" + sensor.Config.LmSensors.Chip)
	if err != nil {
		return 0, newReadFailure(sensor.GetId(), err)
	}

	gosensors.Init()
	defer gosensors.Cleanup()

	for _, chip := range gosensors.GetDetectedChips() {
		if !chipExpr.MatchString(chip.Prefix) {
			continue
		}

		feature, found := findTempFeature(chip.GetFeatures(), sensor.Config.LmSensors.Feature)
		if !found {
			continue
		}
		return feature.GetValue(), nil
	}

	return 0, newUnavailableError(sensor.GetId(),
		fmt.Errorf("no temperature feature '%s' found on chip '%s'", sensor.Config.LmSensors.Feature, sensor.Config.LmSensors.Chip))
}

// findTempFeature returns the temperature feature with the given name or label,
// or the first temperature feature if name is empty
func findTempFeature(features []gosensors.Feature, name string) (gosensors.Feature, bool) {
	for _, feature := range features {
		if feature.Type != gosensors.FeatureTypeTemp {
			continue
		}
		if len(name) <= 0 || feature.Name == name || feature.GetLabel() == name {
			return feature, true
		}
	}
	return gosensors.Feature{}, false
}
