package controller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/markusressel/pifan/internal/fans"
	"github.com/markusressel/pifan/internal/sensors"
	"github.com/markusressel/pifan/internal/ui"
	"github.com/markusressel/pifan/internal/util"
	"golang.org/x/time/rate"
)

var ErrRunnerStopped = errors.New("runner has already been stopped")

type RunnerState int32

const (
	Idle RunnerState = iota
	Running
	Draining
	Stopped
)

func (s RunnerState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// CommandRecorder is notified about every duty cycle that was applied to the fan
type CommandRecorder interface {
	RecordCommand(fanId string, duty int, temp float64) error
}

type RunnerConfig struct {
	Period time.Duration
	// TempRollingWindowSize is the number of readings averaged before they are
	// passed to the controller, 1 disables smoothing
	TempRollingWindowSize int
	Recorder              CommandRecorder
}

// RunnerStatistics counts failures observed by the runner
type RunnerStatistics struct {
	SensorErrors   uint64 `json:"sensorErrors"`
	ActuatorErrors uint64 `json:"actuatorErrors"`
}

// Runner drives the sample, decide, actuate cycle for a single sensor and fan
type Runner struct {
	sensor     sensors.Sensor
	fan        fans.Fan
	controller *Controller
	config     RunnerConfig

	state atomic.Int32
	// guards the transition out of Idle
	startMu sync.Mutex

	window      *rolling.PointPolicy
	windowEmpty bool

	lastTemp       atomic.Pointer[float64]
	appliedDuty    atomic.Pointer[int]
	sensorErrors   atomic.Uint64
	actuatorErrors atomic.Uint64

	sensorWarning rate.Sometimes
}

func NewRunner(sensor sensors.Sensor, fan fans.Fan, controller *Controller, config RunnerConfig) *Runner {
	if config.TempRollingWindowSize < 1 {
		config.TempRollingWindowSize = 1
	}
	return &Runner{
		sensor:        sensor,
		fan:           fan,
		controller:    controller,
		config:        config,
		window:        util.CreateRollingWindow(config.TempRollingWindowSize),
		windowEmpty:   true,
		sensorWarning: rate.Sometimes{First: 3, Interval: time.Minute},
	}
}

func (r *Runner) State() RunnerState {
	return RunnerState(r.state.Load())
}

func (r *Runner) Controller() *Controller {
	return r.controller
}

func (r *Runner) Sensor() sensors.Sensor {
	return r.sensor
}

func (r *Runner) Fan() fans.Fan {
	return r.fan
}

// LastTemperature returns the last successfully read (and smoothed) temperature
func (r *Runner) LastTemperature() (float64, bool) {
	temp := r.lastTemp.Load()
	if temp == nil {
		return 0, false
	}
	return *temp, true
}

// AppliedDuty returns the last duty cycle the fan accepted
func (r *Runner) AppliedDuty() (int, bool) {
	duty := r.appliedDuty.Load()
	if duty == nil {
		return 0, false
	}
	return *duty, true
}

func (r *Runner) Statistics() RunnerStatistics {
	return RunnerStatistics{
		SensorErrors:   r.sensorErrors.Load(),
		ActuatorErrors: r.actuatorErrors.Load(),
	}
}

// Run executes the control loop until ctx is cancelled. The fan is always driven
// to the shutdown duty and released before Run returns.
func (r *Runner) Run(ctx context.Context) error {
	r.startMu.Lock()
	if r.State() != Idle {
		r.startMu.Unlock()
		return ErrRunnerStopped
	}
	r.state.Store(int32(Running))
	r.startMu.Unlock()

	defer r.drain()

	ui.Info("Starting control loop for fan '%s' using sensor '%s'", r.fan.GetId(), r.sensor.GetId())

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
		// both cases may be ready at once and select picks at random
		if ctx.Err() != nil {
			return nil
		}

		r.cycle()

		timer.Reset(r.config.Period)
	}
}

func (r *Runner) cycle() {
	value, err := r.sensor.GetValue()
	if err != nil {
		r.sensorErrors.Add(1)
		r.sensorWarning.Do(func() {
			ui.Warning("Skipping cycle, unable to read sensor '%s': %v", r.sensor.GetId(), err)
		})
		ui.Debug("Skipping cycle, unable to read sensor '%s': %v", r.sensor.GetId(), err)
		return
	}

	temp := r.smooth(value)
	r.lastTemp.Store(&temp)

	duty, ok := r.controller.Update(temp)
	if !ok {
		return
	}

	command := DutyCommand(duty)
	ui.Info("Setting fan duty cycle to %d%% (temp=%.1f°C)", command, temp)
	err = r.fan.SetDuty(command)
	if err != nil {
		r.actuatorErrors.Add(1)
		ui.Error("%v", err)
		return
	}
	r.appliedDuty.Store(&command)

	if r.config.Recorder != nil {
		err = r.config.Recorder.RecordCommand(r.fan.GetId(), command, temp)
		if err != nil {
			ui.Warning("Unable to record duty cycle of fan '%s': %v", r.fan.GetId(), err)
		}
	}
}

func (r *Runner) smooth(value float64) float64 {
	if r.config.TempRollingWindowSize <= 1 {
		return value
	}
	if r.windowEmpty {
		util.FillWindow(r.window, r.config.TempRollingWindowSize, value)
		r.windowEmpty = false
	} else {
		r.window.Append(value)
	}
	return util.GetWindowAvg(r.window)
}

func (r *Runner) drain() {
	r.state.Store(int32(Draining))
	defer r.state.Store(int32(Stopped))

	ui.Info("Stopping fan '%s'", r.fan.GetId())
	command := DutyCommand(r.controller.ShutdownDuty())
	err := r.fan.SetDuty(command)
	if err != nil {
		ui.Debug("Ignoring error while stopping fan '%s': %v", r.fan.GetId(), err)
	} else {
		r.appliedDuty.Store(&command)
	}
	r.fan.Release()
}
