package configuration

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper(t *testing.T, yaml string) *viper.Viper {
	v := viper.New()
	configureEnv(v)
	setDefaultValues(v)
	v.SetConfigType("yaml")
	err := v.ReadConfig(strings.NewReader(yaml))
	require.NoError(t, err)
	return v
}

func TestDecodeConfig_Defaults(t *testing.T) {
	// GIVEN
	v := newTestViper(t, "")

	// WHEN
	config, err := decodeConfig(v)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, 21, config.FanPin)
	assert.Equal(t, 25.0, config.PwmFrequencyHz)
	assert.Equal(t, 1*time.Second, config.RefreshPeriod)
	assert.Equal(t, 30.0, config.MinDutyPercent)
	assert.Equal(t, 1.0, config.HysteresisC)
	assert.Equal(t, []float64{30, 35, 40, 50, 60, 70}, config.TempBreakpointsC)
	assert.Equal(t, []float64{0, 35, 40, 60, 80, 100}, config.DutyBreakpointsPercent)
	assert.Equal(t, 1, config.TempRollingWindowSize)

	assert.Equal(t, DefaultSensorId, config.Sensor.ID)
	require.NotNil(t, config.Sensor.File)
	assert.Equal(t, DefaultSensorPath, config.Sensor.File.Path)
	assert.Equal(t, DefaultSensorScale, config.Sensor.File.Scale)

	assert.Equal(t, DefaultFanId, config.Fan.ID)
	require.NotNil(t, config.Fan.Gpio)
	assert.Equal(t, DefaultGpioChip, config.Fan.Gpio.Chip)

	assert.NoError(t, validateConfig(&config))
}

func TestDecodeConfig_Yaml(t *testing.T) {
	// GIVEN
	v := newTestViper(t, `
refreshPeriod: 500ms
hysteresisC: 2.5
minDutyPercent: 20
tempBreakpointsC: [40, 60]
dutyBreakpointsPercent: [0, 100]
sensor:
  id: soc
  lmsensors:
    chip: cpu_thermal
fan:
  id: case
  file:
    path: /tmp/duty
`)

	// WHEN
	config, err := decodeConfig(v)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, config.RefreshPeriod)
	assert.Equal(t, 2.5, config.HysteresisC)
	assert.Equal(t, 20.0, config.MinDutyPercent)
	assert.Equal(t, []float64{40, 60}, config.TempBreakpointsC)
	assert.Equal(t, []float64{0, 100}, config.DutyBreakpointsPercent)

	assert.Equal(t, "soc", config.Sensor.ID)
	assert.Nil(t, config.Sensor.File)
	require.NotNil(t, config.Sensor.LmSensors)
	assert.Equal(t, "cpu_thermal", config.Sensor.LmSensors.Chip)

	assert.Equal(t, "case", config.Fan.ID)
	assert.Nil(t, config.Fan.Gpio)
	require.NotNil(t, config.Fan.File)
	assert.Equal(t, "/tmp/duty", config.Fan.File.Path)
}

func TestDecodeConfig_BreakpointsFromEnv(t *testing.T) {
	// GIVEN
	t.Setenv("PIFAN_TEMPBREAKPOINTSC", "20, 45.5,70")
	t.Setenv("PIFAN_DUTYBREAKPOINTSPERCENT", "0,50,100")
	v := newTestViper(t, "")

	// WHEN
	config, err := decodeConfig(v)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, []float64{20, 45.5, 70}, config.TempBreakpointsC)
	assert.Equal(t, []float64{0, 50, 100}, config.DutyBreakpointsPercent)
}

func TestDecodeConfig_InvalidBreakpointFromEnv(t *testing.T) {
	// GIVEN
	t.Setenv("PIFAN_TEMPBREAKPOINTSC", "20,hot")
	v := newTestViper(t, "")

	// WHEN
	_, err := decodeConfig(v)

	// THEN
	assert.Error(t, err)
}

func TestDecodeConfig_CmdTimeoutDefault(t *testing.T) {
	// GIVEN
	v := newTestViper(t, `
sensor:
  cmd:
    exec: /usr/local/bin/temp
`)

	// WHEN
	config, err := decodeConfig(v)

	// THEN
	require.NoError(t, err)
	require.NotNil(t, config.Sensor.Cmd)
	assert.Nil(t, config.Sensor.File)
	assert.Equal(t, DefaultCmdTimeout, config.Sensor.Cmd.Timeout)
}
