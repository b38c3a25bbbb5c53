package cmd

import (
	"github.com/markusressel/pifan/internal/ui"
	"github.com/spf13/cobra"
)

// Version is overridden at build time using -ldflags "-X github.com/markusressel/pifan/cmd.Version=..."
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pifan",
	Long:  `All software has versions. This is pifan's`,
	Run: func(cmd *cobra.Command, args []string) {
		ui.Printfln("%s", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
