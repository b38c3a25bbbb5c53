package calibrate

import (
	"bufio"
	"context"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/markusressel/pifan/internal/fans"
	"github.com/markusressel/pifan/internal/ui"
	"github.com/markusressel/pifan/internal/util"
)

// Run applies every duty cycle (in percent) read from in to the given fan until
// in is exhausted or ctx is cancelled. Blank lines are ignored, invalid input is
// reported and skipped. prompt (if not nil) is called before each line is read.
// The fan is always stopped and released before Run returns.
func Run(ctx context.Context, in io.Reader, fan fans.Fan, prompt func()) error {
	defer stop(fan)

	lines := make(chan string)
	scanResult := make(chan error, 1)
	go func() {
		var err error
		defer func() {
			scanResult <- err
			close(lines)
		}()

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		err = scanner.Err()
	}()

	for {
		if prompt != nil {
			prompt()
		}

		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-scanResult
			}
			apply(fan, line)
		}
	}
}

func apply(fan fans.Fan, line string) {
	text := strings.TrimSpace(line)
	if len(text) <= 0 {
		return
	}

	value, err := ParseDuty(text)
	if err != nil {
		ui.Warning("Invalid duty cycle '%s', please enter a number between 0 and 100", text)
		return
	}

	ui.Info("Setting fan duty cycle to %d%%", value)
	if err := fan.SetDuty(value); err != nil {
		ui.Error("%v", err)
	}
}

// ParseDuty parses a duty cycle in percent, clamps it to [0..100] (infinities included) and rounds it
func ParseDuty(text string) (int, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) {
		return 0, strconv.ErrSyntax
	}
	return util.RoundPercent(value), nil
}

func stop(fan fans.Fan) {
	if err := fan.SetDuty(0); err != nil {
		ui.Debug("Ignoring error while stopping fan '%s': %v", fan.GetId(), err)
	}
	fan.Release()
}
