package main

import (
	"fmt"
	"os"
	"strings"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// shouldUseTUI decides on the progress view. In auto mode it needs a
// terminal on both stdout and stderr, and pretty output: machine formats
// go to stdout and must stay clean.
func shouldUseTUI(mode uiMode, format string) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isPrettyFormat(format) && isTerminal(os.Stdout) && isTerminal(os.Stderr)
	}
}

// colorEnabled resolves auto|on|off against the output file.
func colorEnabled(mode string, f *os.File) bool {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "on":
		return true
	case "off":
		return false
	default:
		return os.Getenv("NO_COLOR") == "" && isTerminal(f)
	}
}
