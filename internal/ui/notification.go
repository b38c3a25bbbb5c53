package ui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const (
	notificationApp = "pifan"
	// see https://specifications.freedesktop.org/icon-naming-spec/icon-naming-spec-latest.html
	iconDialogError = "dialog-error"
	urgencyCritical = "critical"
)

// NotifyError shows a desktop notification to the user of the local display session.
// pifan usually runs headless, so a missing session is only logged at debug level.
func NotifyError(title, text string) {
	display, exists := os.LookupEnv("DISPLAY")
	if !exists {
		Debug("Not sending notification, no display session")
		return
	}

	if err := notifySend(display, title, text); err != nil {
		Debug("Not sending notification: %v", err)
	}
}

func notifySend(display, title, text string) error {
	output, err := exec.Command("who").Output()
	if err != nil {
		return fmt.Errorf("unable to list logged in users: %w", err)
	}
	user, found := findDisplayUser(string(output), display)
	if !found {
		return fmt.Errorf("no user found for display %s", display)
	}

	output, err = exec.Command("id", "-u", user).Output()
	if err != nil {
		return fmt.Errorf("unable to detect user id of %s: %w", user, err)
	}
	userId := strings.TrimSpace(string(output))

	return exec.Command("sudo", "-u", user,
		"DISPLAY="+display,
		"DBUS_SESSION_BUS_ADDRESS=unix:path=/run/user/"+userId+"/bus",
		"notify-send",
		"-a", notificationApp,
		"-u", urgencyCritical,
		"-i", iconDialogError,
		title, text,
	).Run()
}

// findDisplayUser returns the user owning the given display in the output of `who`
func findDisplayUser(whoOutput string, display string) (string, bool) {
	for _, line := range strings.Split(whoOutput, "\n") {
		fields := strings.Fields(line)
		if len(fields) <= 0 {
			continue
		}
		for _, field := range fields[1:] {
			if strings.Trim(field, "()") == display {
				return fields[0], true
			}
		}
	}
	return "", false
}
