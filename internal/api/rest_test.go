package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/pifan/internal/configuration"
	"github.com/markusressel/pifan/internal/controller"
	"github.com/markusressel/pifan/internal/curves"
	"github.com/markusressel/pifan/internal/sensors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSensor struct {
	id    string
	value float64
	err   error
}

func (s mockSensor) GetId() string {
	return s.id
}

func (s mockSensor) GetConfig() configuration.SensorConfig {
	return configuration.SensorConfig{
		ID:   s.id,
		File: &configuration.FileSensorConfig{Path: "/tmp/" + s.id, Scale: 1000},
	}
}

func (s mockSensor) GetValue() (float64, error) {
	return s.value, s.err
}

type mockFan struct{}

func (f mockFan) GetId() string {
	return "fan"
}

func (f mockFan) GetConfig() configuration.FanConfig {
	return configuration.FanConfig{ID: "fan", Gpio: &configuration.GpioFanConfig{Chip: "gpiochip0"}}
}

func (f mockFan) SetDuty(percent int) error {
	return nil
}

func (f mockFan) Release() {}

func createRunner(t *testing.T) *controller.Runner {
	curve, err := curves.New([]float64{30, 35, 40, 50, 60, 70}, []float64{0, 35, 40, 60, 80, 100})
	require.NoError(t, err)
	c := controller.New(curve, controller.Config{Hysteresis: 1, MinDuty: 30})
	return controller.NewRunner(mockSensor{id: "cpu", value: 41.5}, mockFan{}, c, controller.RunnerConfig{Period: time.Second})
}

func createService(t *testing.T, runner *controller.Runner) *echo.Echo {
	return CreateRestService(runner, prometheus.NewRegistry())
}

func get(rest *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	rest.ServeHTTP(rec, req)
	return rec
}

func registerSensor(t *testing.T, sensor sensors.Sensor) {
	sensors.RegisterSensor(sensor)
	t.Cleanup(func() {
		sensors.SensorMap.Remove(sensor.GetId())
	})
}

func TestAlive(t *testing.T) {
	// GIVEN
	rest := createService(t, createRunner(t))

	// WHEN
	rec := get(rest, "/alive")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetSensors(t *testing.T) {
	// GIVEN
	registerSensor(t, mockSensor{id: "cpu", value: 41.5})
	registerSensor(t, mockSensor{id: "broken", err: errors.New("sensor unavailable")})
	rest := createService(t, createRunner(t))

	// WHEN
	rec := get(rest, "/sensor/")

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	var result map[string]SensorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Contains(t, result, "cpu")
	require.NotNil(t, result["cpu"].Value)
	assert.Equal(t, 41.5, *result["cpu"].Value)
	assert.Equal(t, "/tmp/cpu", result["cpu"].Config.File.Path)
	assert.Nil(t, result["broken"].Value)
	assert.Equal(t, "sensor unavailable", result["broken"].Error)
}

func TestGetSensor(t *testing.T) {
	// GIVEN
	registerSensor(t, mockSensor{id: "cpu", value: 41.5})
	rest := createService(t, createRunner(t))

	// WHEN
	rec := get(rest, "/sensor/cpu")

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	var result SensorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "cpu", result.Id)
}

func TestGetSensor_NotFound(t *testing.T) {
	// GIVEN
	rest := createService(t, createRunner(t))

	// WHEN
	rec := get(rest, "/sensor/unknown/")

	// THEN
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var result Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "No item with id 'unknown' found", result.Message)
}

func TestGetController(t *testing.T) {
	// GIVEN
	runner := createRunner(t)
	runner.Controller().Update(41.5)
	rest := createService(t, runner)

	// WHEN
	rec := get(rest, "/controller/")

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	var result ControllerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "fan", result.FanId)
	assert.Equal(t, "cpu", result.SensorId)
	assert.Equal(t, "idle", result.RunnerState)
	assert.True(t, result.State.HasDuty)
	assert.InDelta(t, 43.0, result.State.LastDuty, 1e-9)
	assert.Equal(t, uint64(1), result.Statistics.Commands)
	assert.Nil(t, result.LastReading)
}

func TestGetFan(t *testing.T) {
	// GIVEN
	runner := createRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()
	require.Eventually(t, func() bool {
		_, ok := runner.AppliedDuty()
		return ok
	}, time.Second, time.Millisecond)
	rest := createService(t, runner)

	// WHEN
	rec := get(rest, "/fan/")

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	var result FanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "fan", result.Id)
	assert.Equal(t, "gpiochip0", result.Config.Gpio.Chip)
	require.NotNil(t, result.Duty)
	assert.Equal(t, 43, *result.Duty)
}

func TestGetFan_CommittedButNotApplied(t *testing.T) {
	// GIVEN
	runner := createRunner(t)
	runner.Controller().Update(41.5)
	rest := createService(t, runner)

	// WHEN
	rec := get(rest, "/fan/")

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	var result FanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Nil(t, result.Duty)
}

func TestGetCurve(t *testing.T) {
	// GIVEN
	rest := createService(t, createRunner(t))

	// WHEN
	rec := get(rest, "/curve/")

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	var result CurveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, []float64{30, 35, 40, 50, 60, 70}, result.TempBreakpointsC)
	assert.Equal(t, []float64{0, 35, 40, 60, 80, 100}, result.DutyBreakpointsPercent)
}
