package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/pifan/internal/configuration"
	"github.com/markusressel/pifan/internal/controller"
	"github.com/qdm12/reprint"
)

type FanResponse struct {
	Id     string                  `json:"id"`
	Config configuration.FanConfig `json:"config"`
	// Duty is the duty cycle in percent the fan last accepted
	Duty *int `json:"duty,omitempty"`
}

func registerFanEndpoints(rest *echo.Echo, runner *controller.Runner) {
	group := rest.Group("/fan")

	group.GET("/", func(c echo.Context) error {
		return getFan(c, runner)
	})
}

func getFan(c echo.Context, runner *controller.Runner) error {
	fan := runner.Fan()
	response := FanResponse{
		Id:     fan.GetId(),
		Config: reprint.This(fan.GetConfig()).(configuration.FanConfig),
	}
	if duty, ok := runner.AppliedDuty(); ok {
		response.Duty = &duty
	}
	return c.JSONPretty(http.StatusOK, response, indentationChar)
}
