package configuration

import (
	"os"
	"strings"
	"time"

	"github.com/markusressel/pifan/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	DefaultSensorId   = "cpu"
	DefaultSensorPath = "/sys/class/thermal/thermal_zone0/temp"
	// sysfs thermal zones report milli-degrees
	DefaultSensorScale = 1000.0

	DefaultFanId    = "fan"
	DefaultGpioChip = "gpiochip0"
	DefaultPwmPath  = "/sys/class/pwm"

	DefaultCmdTimeout = 2 * time.Second
)

type Configuration struct {
	DbPath string `json:"dbPath"`

	// FanPin is the GPIO line offset (BCM numbering on a Raspberry Pi) the fan transistor is connected to
	FanPin         int     `json:"fanPin"`
	PwmFrequencyHz float64 `json:"pwmFrequencyHz"`

	RefreshPeriod          time.Duration `json:"refreshPeriod"`
	MinDutyPercent         float64       `json:"minDutyPercent"`
	HysteresisC            float64       `json:"hysteresisC"`
	TempBreakpointsC       []float64     `json:"tempBreakpointsC"`
	DutyBreakpointsPercent []float64     `json:"dutyBreakpointsPercent"`

	TempRollingWindowSize int `json:"tempRollingWindowSize"`

	Sensor     SensorConfig     `json:"sensor"`
	Fan        FanConfig        `json:"fan"`
	Api        ApiConfig        `json:"api"`
	Statistics StatisticsConfig `json:"statistics"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("pifan")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/pifan/")
	}

	configureEnv(viper.GetViper())
	setDefaultValues(viper.GetViper())
}

func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("PIFAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv() // read in environment variables that match
}

func setDefaultValues(v *viper.Viper) {
	v.SetDefault("dbPath", "/etc/pifan/pifan.db")

	v.SetDefault("fanPin", 21)
	v.SetDefault("pwmFrequencyHz", 25.0)

	v.SetDefault("refreshPeriod", 1*time.Second)
	v.SetDefault("minDutyPercent", 30.0)
	v.SetDefault("hysteresisC", 1.0)
	v.SetDefault("tempBreakpointsC", []float64{30, 35, 40, 50, 60, 70})
	v.SetDefault("dutyBreakpointsPercent", []float64{0, 35, 40, 60, 80, 100})

	v.SetDefault("tempRollingWindowSize", 1)

	v.SetDefault("api.enabled", false)
	v.SetDefault("api.host", "localhost")
	v.SetDefault("api.port", 8080)

	v.SetDefault("statistics.enabled", false)
	v.SetDefault("statistics.port", 9000)
}

// DetectConfigFile tries to read the config file and returns its path.
// A missing config file is not an error, the defaults describe a working setup.
func DetectConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			ui.Warning("No configuration file found, using defaults")
			return ""
		}
		ui.Fatal("Error reading config file, %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed()
}

// LoadConfig decodes the current viper state into CurrentConfig.
// Values that cannot be decoded are reported as a *ConfigError.
func LoadConfig() error {
	config, err := decodeConfig(viper.GetViper())
	if err != nil {
		return NewConfigError("", "unable to decode configuration: %v", err)
	}
	CurrentConfig = config
	return nil
}

func decodeConfig(v *viper.Viper) (Configuration, error) {
	var config Configuration
	err := v.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			FloatSliceHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return config, err
	}
	applyImplicitDefaults(&config)
	return config, nil
}

// applyImplicitDefaults fills in the sensor and fan sub-configurations if the user
// didn't specify any. This cannot be done with viper defaults, since those would be
// merged with a user provided sub-configuration of a different type.
func applyImplicitDefaults(config *Configuration) {
	if len(config.Sensor.ID) <= 0 {
		config.Sensor.ID = DefaultSensorId
	}
	if config.Sensor.File == nil && config.Sensor.Cmd == nil && config.Sensor.LmSensors == nil {
		config.Sensor.File = &FileSensorConfig{
			Path: DefaultSensorPath,
		}
	}
	if config.Sensor.File != nil && config.Sensor.File.Scale == 0 {
		config.Sensor.File.Scale = DefaultSensorScale
	}
	if config.Sensor.Cmd != nil && config.Sensor.Cmd.Timeout <= 0 {
		config.Sensor.Cmd.Timeout = DefaultCmdTimeout
	}

	if len(config.Fan.ID) <= 0 {
		config.Fan.ID = DefaultFanId
	}
	if config.Fan.Gpio == nil && config.Fan.Sysfs == nil && config.Fan.File == nil && config.Fan.Cmd == nil {
		config.Fan.Gpio = &GpioFanConfig{}
	}
	if config.Fan.Gpio != nil && len(config.Fan.Gpio.Chip) <= 0 {
		config.Fan.Gpio.Chip = DefaultGpioChip
	}
	if config.Fan.Sysfs != nil && len(config.Fan.Sysfs.Path) <= 0 {
		config.Fan.Sysfs.Path = DefaultPwmPath
	}
	if config.Fan.Cmd != nil && config.Fan.Cmd.Timeout <= 0 {
		config.Fan.Cmd.Timeout = DefaultCmdTimeout
	}
}
