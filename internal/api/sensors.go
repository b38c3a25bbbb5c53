package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/pifan/internal/configuration"
	"github.com/markusressel/pifan/internal/sensors"
	"github.com/qdm12/reprint"
)

type SensorResponse struct {
	Id     string                     `json:"id"`
	Config configuration.SensorConfig `json:"config"`
	Value  *float64                   `json:"value,omitempty"`
	Error  string                     `json:"error,omitempty"`
}

func registerSensorEndpoints(rest *echo.Echo) {
	group := rest.Group("/sensor")

	group.GET("/", getSensors)
	group.GET("/:"+urlParamId+"/", getSensor)
}

func getSensors(c echo.Context) error {
	data := map[string]SensorResponse{}
	for id, sensor := range sensors.SensorMap.Items() {
		data[id] = readSensor(sensor)
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getSensor(c echo.Context) error {
	id := c.Param(urlParamId)

	sensor, exists := sensors.GetSensor(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, readSensor(sensor), indentationChar)
}

func readSensor(sensor sensors.Sensor) SensorResponse {
	response := SensorResponse{
		Id:     sensor.GetId(),
		Config: reprint.This(sensor.GetConfig()).(configuration.SensorConfig),
	}
	value, err := sensor.GetValue()
	if err != nil {
		response.Error = err.Error()
	} else {
		response.Value = &value
	}
	return response
}
