package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/markusressel/pifan/cmd/config"
	"github.com/markusressel/pifan/cmd/curve"
	"github.com/markusressel/pifan/cmd/fan"
	"github.com/markusressel/pifan/cmd/global"
	"github.com/markusressel/pifan/cmd/sensor"
	"github.com/markusressel/pifan/internal"
	"github.com/markusressel/pifan/internal/configuration"
	"github.com/markusressel/pifan/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// exitError carries the process exit code out of a command
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pifan",
	Short: "A daemon to control the fan of a single-board computer.",
	Long: `pifan samples a temperature sensor and drives a PWM fan
using a piecewise-linear curve with hysteresis and a minimum duty cycle.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	// this is the default command to run when no subcommand is specified
	RunE: func(cmd *cobra.Command, args []string) error {
		printHeader()

		if err := global.LoadConfig(); err != nil {
			ui.ErrorAndNotify("Config Validation Error", "%v", err)
			return &exitError{code: internal.ExitConfigError}
		}
		ui.Info("Control parameters: %s", configuration.Describe(&configuration.CurrentConfig))

		if code := internal.RunDaemon(configuration.CurrentConfig); code != internal.ExitOk {
			return &exitError{code: code}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&global.CfgFile, "config", "c", "", "config file (default is $HOME/pifan.yaml or /etc/pifan/pifan.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&global.NoColor, "no-color", "", false, "Disable all terminal output coloration")
	rootCmd.PersistentFlags().BoolVarP(&global.NoStyle, "no-style", "", false, "Disable all terminal output styling")
	rootCmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "More verbose output")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setupUi()
	}

	rootCmd.AddCommand(config.Command)
	rootCmd.AddCommand(fan.Command)
	rootCmd.AddCommand(curve.Command)
	rootCmd.AddCommand(sensor.Command)
}

func setupUi() {
	ui.SetDebugEnabled(global.Verbose)

	if global.NoColor {
		pterm.DisableColor()
	}
	if global.NoStyle {
		pterm.DisableStyling()
	}
}

// Print a large text with the LetterStyle from the standard theme.
func printHeader() {
	err := pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("pi", pterm.NewStyle(pterm.FgLightRed)),
		pterm.NewLettersFromStringWithStyle("fan", pterm.NewStyle(pterm.FgLightBlue)),
	).Render()
	if err != nil {
		fmt.Println("pifan")
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.OnInitialize(func() {
		configuration.InitConfig(global.CfgFile)
	})

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		if errors.Is(err, configuration.ErrInvalidConfig) {
			ui.Error("%v", err)
			os.Exit(internal.ExitConfigError)
		}
		ui.Error("%v", err)
		os.Exit(internal.ExitFailure)
	}
}
