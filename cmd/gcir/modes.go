package main

import (
	"fmt"
	"os"
	"strings"
)

// toggle is an auto|on|off flag value; auto follows whether a stream is a terminal.
type toggle string

const (
	toggleAuto toggle = "auto"
	toggleOn   toggle = "on"
	toggleOff  toggle = "off"
)

func readToggle(flag, value string) (toggle, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return toggleAuto, nil
	case "on":
		return toggleOn, nil
	case "off":
		return toggleOff, nil
	default:
		return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
	}
}

func (t toggle) enabledFor(f *os.File) bool {
	switch t {
	case toggleOn:
		return true
	case toggleOff:
		return false
	default:
		return isTerminal(f)
	}
}
