package configuration

import "time"

type FanConfig struct {
	ID    string          `json:"id"`
	Gpio  *GpioFanConfig  `json:"gpio,omitempty"`
	Sysfs *SysfsFanConfig `json:"sysfs,omitempty"`
	File  *FileFanConfig  `json:"file,omitempty"`
	Cmd   *CmdFanConfig   `json:"cmd,omitempty"`
}

// GpioFanConfig drives the fan with software PWM on the line given by fanPin
type GpioFanConfig struct {
	Chip string `json:"chip"`
}

// SysfsFanConfig drives the fan using the kernel PWM interface
type SysfsFanConfig struct {
	Path    string `json:"path"`
	Chip    int    `json:"chip"`
	Channel int    `json:"channel"`
}

type FileFanConfig struct {
	Path string `json:"path"`
}

type CmdFanConfig struct {
	Exec    string        `json:"exec"`
	Args    []string      `json:"args"`
	Timeout time.Duration `json:"timeout"`
}
