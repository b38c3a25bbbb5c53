package cmd

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

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Interactively set the duty cycle of the fan",
	Long: `Reads duty cycles in percent ([0..100]) from stdin and applies them to the fan,
which is useful to find a suitable minDutyPercent for a specific fan.
The fan is stopped when stdin is closed (Ctrl+D) or on Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := global.LoadConfig(); err != nil {
			return err
		}

		config := configuration.CurrentConfig
		fan, err := fans.NewFan(config.Fan, config.FanPin, config.PwmFrequencyHz)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return calibrate.Run(ctx, os.Stdin, fan, func() {
			ui.Printf("Duty cycle [0..100]: ")
		})
	},
}

func init() {
	rootCmd.AddCommand(calibrateCmd)
}
