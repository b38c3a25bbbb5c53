package curve

import (
	"bytes"
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/markusressel/pifan/cmd/global"
	"github.com/markusressel/pifan/internal/configuration"
	"github.com/markusressel/pifan/internal/curves"
	"github.com/markusressel/pifan/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var Command = &cobra.Command{
	Use:   "curve",
	Short: "Print the configured fan curve to console",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := global.LoadConfig(); err != nil {
			return err
		}

		curve, err := curves.FromConfig(&configuration.CurrentConfig)
		if err != nil {
			return err
		}

		tableString, err := renderBreakpoints(curve, configuration.CurrentConfig.MinDutyPercent)
		if err != nil {
			return err
		}
		ui.Printfln("%s", tableString)

		values := curve.Sample(1)
		caption := fmt.Sprintf("Duty %% / °C (%.0f°C..%.0f°C)", curve.Temps()[0], curve.Temps()[len(curve.Temps())-1])
		graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
		ui.Printfln("%s", graph)
		return nil
	},
}

// renderBreakpoints prints the breakpoints of the curve as a table, including the duty
// the fan is actually driven with once the minimum duty has been applied
func renderBreakpoints(curve *curves.Curve, minDuty float64) (string, error) {
	var rows [][]string
	duties := curve.Duties()
	for i, temp := range curve.Temps() {
		effective := duties[i]
		if effective > 0 && effective < minDuty {
			effective = minDuty
		}
		rows = append(rows, []string{
			fmt.Sprintf("%.1f", temp),
			fmt.Sprintf("%.1f", duties[i]),
			fmt.Sprintf("%.1f", effective),
		})
	}

	tab := table.Table{
		Headers: []string{"Temperature (°C)", "Duty (%)", "Effective Duty (%)"},
		Rows:    rows,
	}
	var buf bytes.Buffer
	err := tab.WriteTable(&buf, &table.Config{
		ShowIndex:       false,
		Color:           !global.NoColor,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
