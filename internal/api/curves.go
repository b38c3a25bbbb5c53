package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/pifan/internal/controller"
)

type CurveResponse struct {
	TempBreakpointsC       []float64 `json:"tempBreakpointsC"`
	DutyBreakpointsPercent []float64 `json:"dutyBreakpointsPercent"`
}

func registerCurveEndpoints(rest *echo.Echo, runner *controller.Runner) {
	group := rest.Group("/curve")

	group.GET("/", func(c echo.Context) error {
		curve := runner.Controller().Curve()
		return c.JSONPretty(http.StatusOK, CurveResponse{
			TempBreakpointsC:       curve.Temps(),
			DutyBreakpointsPercent: curve.Duties(),
		}, indentationChar)
	})
}
