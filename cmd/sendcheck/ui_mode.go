package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode controls the live progress view of `sendcheck check`.
type uiMode uint8

const (
	uiAuto uiMode = iota
	uiOn
	uiOff
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiAuto, nil
	case "on":
		return uiOn, nil
	case "off":
		return uiOff, nil
	}
	return uiAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI gates the progress view: it renders per-function analyze
// events and needs a terminal; piped output falls back to plain
// diagnostics.
func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiOn:
		return true
	case uiOff:
		return false
	}
	return isTerminal(os.Stdout)
}
