package global

import (
	"github.com/markusressel/pifan/internal/configuration"
	"github.com/markusressel/pifan/internal/ui"
)

var (
	CfgFile string
	NoColor bool
	NoStyle bool
	Verbose bool
)

// LoadConfig reads the config file (if any) into configuration.CurrentConfig and validates it.
// The returned error is a *configuration.ConfigError.
func LoadConfig() error {
	configPath := configuration.DetectConfigFile()
	if len(configPath) > 0 {
		ui.Info("Using configuration file at: %s", configPath)
	}

	if err := configuration.LoadConfig(); err != nil {
		return err
	}
	return configuration.Validate()
}
