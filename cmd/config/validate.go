package config

import (
	"github.com/markusressel/pifan/cmd/global"
	"github.com/markusressel/pifan/internal/configuration"
	"github.com/markusressel/pifan/internal/ui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validates the current configuration",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// note: config file path parameter comes from the root command (-c)
		if err := global.LoadConfig(); err != nil {
			ui.Error("Validation failed")
			return err
		}

		ui.Info("Control parameters: %s", configuration.Describe(&configuration.CurrentConfig))
		ui.Success("Config looks good! :)")
		return nil
	},
}

func init() {
	Command.AddCommand(validateCmd)
}
