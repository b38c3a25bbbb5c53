package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markusressel/pifan/internal/api"
	"github.com/markusressel/pifan/internal/configuration"
	"github.com/markusressel/pifan/internal/controller"
	"github.com/markusressel/pifan/internal/curves"
	"github.com/markusressel/pifan/internal/fans"
	"github.com/markusressel/pifan/internal/persistence"
	"github.com/markusressel/pifan/internal/sensors"
	"github.com/markusressel/pifan/internal/statistics"
	"github.com/markusressel/pifan/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ExitOk          = 0
	ExitFailure     = 1
	ExitConfigError = 2

	shutdownTimeout = 5 * time.Second
)

// RunDaemon runs the control loop (and the optional api and statistics servers)
// until SIGINT or SIGTERM is received. The returned value is the process exit code.
func RunDaemon(config configuration.Configuration) int {
	return runDaemon(context.Background(), config, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

func runDaemon(
	parent context.Context,
	config configuration.Configuration,
	registerer prometheus.Registerer,
	gatherer prometheus.Gatherer,
) int {
	curve, err := curves.FromConfig(&config)
	if err != nil {
		ui.Error("Invalid curve: %v", err)
		return ExitConfigError
	}

	sensor, err := sensors.NewSensor(config.Sensor)
	if err != nil {
		ui.Error("Unable to process sensor configuration: %v", err)
		return ExitConfigError
	}
	sensors.RegisterSensor(sensor)

	var recorder controller.CommandRecorder
	pers := persistence.NewPersistence(config.DbPath)
	if err = pers.Init(); err != nil {
		ui.Warning("Unable to initialize database at %s, last commands will not be saved: %v", config.DbPath, err)
	} else {
		recorder = pers
	}

	// the fan is acquired last, from here on the runner is responsible for releasing it
	fan, err := fans.NewFan(config.Fan, config.FanPin, config.PwmFrequencyHz)
	if err != nil {
		ui.Error("Unable to acquire fan: %v", err)
		return ExitFailure
	}

	ctrl := controller.New(curve, controller.ConfigFrom(config))
	runner := controller.NewRunner(sensor, fan, ctrl, controller.RunnerConfig{
		Period:                config.RefreshPeriod,
		TempRollingWindowSize: config.TempRollingWindowSize,
		Recorder:              recorder,
	})

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var g run.Group
	{
		// === control loop
		g.Add(func() error {
			err := runner.Run(ctx)
			ui.Info("Control loop for fan %s stopped.", fan.GetId())
			return err
		}, func(err error) {
			cancel()
		})
	}
	if config.Statistics.Enabled {
		// === Prometheus Exporter
		statistics.Register(registerer, statistics.NewSensorCollector([]sensors.Sensor{sensor}))
		statistics.Register(registerer, statistics.NewControllerCollector([]*controller.Runner{runner}))

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
		server := &http.Server{
			Addr:    fmt.Sprintf(":%d", config.Statistics.Port),
			Handler: mux,
		}

		g.Add(func() error {
			ui.Info("Serving statistics on %s/metrics", server.Addr)
			err := server.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("statistics server: %w", err)
		}, func(err error) {
			timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer timeoutCancel()
			if err := server.Shutdown(timeoutCtx); err != nil {
				ui.Warning("Error stopping statistics server: %v", err)
			}
		})
	}
	if config.Api.Enabled {
		// === REST api
		rest := api.CreateRestService(runner, registerer)
		addr := fmt.Sprintf("%s:%d", config.Api.Host, config.Api.Port)

		g.Add(func() error {
			ui.Info("Serving api on %s", addr)
			err := rest.Start(addr)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("api server: %w", err)
		}, func(err error) {
			timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer timeoutCancel()
			if err := rest.Shutdown(timeoutCtx); err != nil {
				ui.Warning("Error stopping api server: %v", err)
			}
		})
	}
	{
		// === signals only cancel the context, cleanup happens in the control loop
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case s := <-sig:
				ui.Info("Received %v signal, exiting...", s)
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		ui.ErrorAndNotify("pifan stopped", "%v", err)
		return ExitFailure
	}
	ui.Info("Done.")
	return ExitOk
}
