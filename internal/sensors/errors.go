package sensors

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSensorUnavailable indicates that the temperature source does not exist
	ErrSensorUnavailable = errors.New("sensor unavailable")
	// ErrSensorReadFailure indicates any other failure while reading the temperature
	ErrSensorReadFailure = errors.New("sensor read failure")
)

type SensorError struct {
	SensorId string
	// Kind is either ErrSensorUnavailable or ErrSensorReadFailure
	Kind error
	Err  error
}

func (e *SensorError) Error() string {
	return fmt.Sprintf("sensor %s: %v: %v", e.SensorId, e.Kind, e.Err)
}

func (e *SensorError) Is(target error) bool {
	return target == e.Kind
}

func (e *SensorError) Unwrap() error {
	return e.Err
}

func newUnavailableError(sensorId string, err error) error {
	return &SensorError{SensorId: sensorId, Kind: ErrSensorUnavailable, Err: err}
}

func newReadFailure(sensorId string, err error) error {
	return &SensorError{SensorId: sensorId, Kind: ErrSensorReadFailure, Err: err}
}

// classifyError maps a missing file to ErrSensorUnavailable, everything else to ErrSensorReadFailure
func classifyError(sensorId string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return newUnavailableError(sensorId, err)
	}
	return newReadFailure(sensorId, err)
}
