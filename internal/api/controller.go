package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/pifan/internal/controller"
)

type ControllerResponse struct {
	FanId            string                      `json:"fanId"`
	SensorId         string                      `json:"sensorId"`
	RunnerState      string                      `json:"runnerState"`
	LastReading      *float64                    `json:"lastReading,omitempty"`
	State            controller.State            `json:"state"`
	Statistics       controller.Statistics       `json:"statistics"`
	RunnerStatistics controller.RunnerStatistics `json:"runnerStatistics"`
}

func registerControllerEndpoints(rest *echo.Echo, runner *controller.Runner) {
	group := rest.Group("/controller")

	group.GET("/", func(c echo.Context) error {
		return getController(c, runner)
	})
}

func getController(c echo.Context, runner *controller.Runner) error {
	response := ControllerResponse{
		FanId:            runner.Fan().GetId(),
		SensorId:         runner.Sensor().GetId(),
		RunnerState:      runner.State().String(),
		State:            runner.Controller().State(),
		Statistics:       runner.Controller().Statistics(),
		RunnerStatistics: runner.Statistics(),
	}
	if temp, ok := runner.LastTemperature(); ok {
		response.LastReading = &temp
	}
	return c.JSONPretty(http.StatusOK, response, indentationChar)
}
