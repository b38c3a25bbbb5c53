package configuration

import "time"

type SensorConfig struct {
	ID        string                 `json:"id"`
	File      *FileSensorConfig      `json:"file,omitempty"`
	Cmd       *CmdSensorConfig       `json:"cmd,omitempty"`
	LmSensors *LmSensorsSensorConfig `json:"lmsensors,omitempty"`
}

type FileSensorConfig struct {
	Path string `json:"path"`
	// Scale is the divisor used to convert the file content to °C
	Scale float64 `json:"scale"`
}

type CmdSensorConfig struct {
	Exec    string        `json:"exec"`
	Args    []string      `json:"args"`
	Timeout time.Duration `json:"timeout"`
}

type LmSensorsSensorConfig struct {
	// Chip is a case-insensitive regex matched against the chip prefix, e.g. "cpu_thermal"
	Chip string `json:"chip"`
	// Feature is the feature name ("temp1") or label; empty selects the first temperature feature
	Feature string `json:"feature"`
}
