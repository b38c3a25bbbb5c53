package statistics

import (
	"github.com/markusressel/pifan/internal/controller"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	subsystemController = "controller"
	subsystemRunner     = "runner"
)

type ControllerCollector struct {
	runners []*controller.Runner

	duty                 *prometheus.Desc
	temperature          *prometheus.Desc
	commands             *prometheus.Desc
	updates              *prometheus.Desc
	hysteresisSuppressed *prometheus.Desc
	duplicateSuppressed  *prometheus.Desc
	floorClamped         *prometheus.Desc
	sensorErrors         *prometheus.Desc
	actuatorErrors       *prometheus.Desc
}

func NewControllerCollector(runners []*controller.Runner) *ControllerCollector {
	return &ControllerCollector{
		runners: runners,
		duty: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemController, "duty"),
			"Duty cycle in percent that was last applied to the fan",
			[]string{"id"}, nil,
		),
		temperature: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemController, "temperature"),
			"Temperature in °C the last duty cycle was computed for",
			[]string{"id"}, nil,
		),
		commands: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemController, "commands_total"),
			"Number of duty cycle commands issued by the controller",
			[]string{"id"}, nil,
		),
		updates: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemController, "updates_total"),
			"Number of temperature readings processed by the controller",
			[]string{"id"}, nil,
		),
		hysteresisSuppressed: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemController, "hysteresis_suppressed_total"),
			"Number of readings ignored because the temperature change was within the hysteresis",
			[]string{"id"}, nil,
		),
		duplicateSuppressed: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemController, "duplicate_suppressed_total"),
			"Number of commands suppressed because the duty cycle did not change",
			[]string{"id"}, nil,
		),
		floorClamped: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemController, "floor_clamped_total"),
			"Number of duty cycles raised to the minimum duty",
			[]string{"id"}, nil,
		),
		sensorErrors: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemRunner, "sensor_errors_total"),
			"Number of control cycles skipped due to a sensor error",
			[]string{"id"}, nil,
		),
		actuatorErrors: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemRunner, "actuator_errors_total"),
			"Number of duty cycle commands that could not be applied",
			[]string{"id"}, nil,
		),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.duty
	ch <- collector.temperature
	ch <- collector.commands
	ch <- collector.updates
	ch <- collector.hysteresisSuppressed
	ch <- collector.duplicateSuppressed
	ch <- collector.floorClamped
	ch <- collector.sensorErrors
	ch <- collector.actuatorErrors
}

// Collect implements required collect function for all prometheus collectors
func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	for _, runner := range collector.runners {
		fanId := runner.Fan().GetId()
		state := runner.Controller().State()
		stats := runner.Controller().Statistics()
		runnerStats := runner.Statistics()

		if state.HasDuty {
			ch <- prometheus.MustNewConstMetric(collector.duty, prometheus.GaugeValue, state.LastDuty, fanId)
		}
		if state.HasTemp {
			ch <- prometheus.MustNewConstMetric(collector.temperature, prometheus.GaugeValue, state.LastTemp, fanId)
		}
		ch <- prometheus.MustNewConstMetric(collector.commands, prometheus.CounterValue, float64(stats.Commands), fanId)
		ch <- prometheus.MustNewConstMetric(collector.updates, prometheus.CounterValue, float64(stats.Updates), fanId)
		ch <- prometheus.MustNewConstMetric(collector.hysteresisSuppressed, prometheus.CounterValue, float64(stats.HysteresisSuppressed), fanId)
		ch <- prometheus.MustNewConstMetric(collector.duplicateSuppressed, prometheus.CounterValue, float64(stats.DuplicateSuppressed), fanId)
		ch <- prometheus.MustNewConstMetric(collector.floorClamped, prometheus.CounterValue, float64(stats.FloorClamped), fanId)
		ch <- prometheus.MustNewConstMetric(collector.sensorErrors, prometheus.CounterValue, float64(runnerStats.SensorErrors), fanId)
		ch <- prometheus.MustNewConstMetric(collector.actuatorErrors, prometheus.CounterValue, float64(runnerStats.ActuatorErrors), fanId)
	}
}
