package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/markusressel/pifan/cmd/global"
	"github.com/markusressel/pifan/internal/configuration"
	"github.com/markusressel/pifan/internal/persistence"
	"github.com/markusressel/pifan/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var statusReset bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the duty cycle last applied by the daemon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := global.LoadConfig(); err != nil {
			return err
		}

		config := configuration.CurrentConfig
		p := persistence.NewPersistence(config.DbPath)
		if statusReset {
			return resetStatus(p, config.Fan.ID)
		}
		return printStatus(p, config.Fan.ID)
	},
}

func resetStatus(p persistence.Persistence, fanId string) error {
	if err := p.DeleteLastCommand(fanId); err != nil {
		return err
	}
	ui.Success("Cleared the recorded duty cycle of fan '%s'", fanId)
	return nil
}

func printStatus(p persistence.Persistence, fanId string) error {
	command, err := p.LoadLastCommand(fanId)
	if errors.Is(err, os.ErrNotExist) {
		ui.Warning("No duty cycle has been recorded for fan '%s' yet", fanId)
		return nil
	}
	if err != nil {
		return err
	}

	return pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Fan", "Duty", "Temperature", "Time"},
		{
			command.FanId,
			fmt.Sprintf("%d%%", command.Duty),
			fmt.Sprintf("%.1f°C", command.Temp),
			command.Time.Format("2006-01-02 15:04:05"),
		},
	}).Render()
}

func init() {
	statusCmd.Flags().BoolVar(&statusReset, "reset", false, "Clear the recorded duty cycle instead of printing it")
	rootCmd.AddCommand(statusCmd)
}
