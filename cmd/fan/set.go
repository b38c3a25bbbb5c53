package fan

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/markusressel/pifan/cmd/global"
	"github.com/markusressel/pifan/internal/calibrate"
	"github.com/markusressel/pifan/internal/configuration"
	"github.com/markusressel/pifan/internal/fans"
	"github.com/markusressel/pifan/internal/ui"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <duty>",
	Short: "Set the duty cycle of the fan to the given value in percent ([0..100])",
	Long: `Sets the duty cycle of the configured fan once.
Software PWM on a gpio line only works while pifan is running, in that case the
duty cycle is held until Ctrl+C is pressed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		duty, err := calibrate.ParseDuty(args[0])
		if err != nil {
			return err
		}

		if err := global.LoadConfig(); err != nil {
			return err
		}

		config := configuration.CurrentConfig
		fan, err := fans.NewFan(config.Fan, config.FanPin, config.PwmFrequencyHz)
		if err != nil {
			return err
		}

		if err := fan.SetDuty(duty); err != nil {
			fan.Release()
			return err
		}
		ui.Success("Set duty cycle of fan '%s' to %d%%", fan.GetId(), duty)

		if _, ok := fan.(*fans.GpioFan); ok {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ui.Info("Holding duty cycle, press Ctrl+C to stop")
			<-ctx.Done()
			fan.Release()
		}
		return nil
	},
}

func init() {
	Command.AddCommand(setCmd)
}
