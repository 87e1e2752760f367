// Package view turns domain values into the payloads the dashboard panels
// render. Every function here is pure.
package view

import (
	"strconv"
	"strings"
)

// Tone is the colour family a panel is drawn with.
type Tone string

// Tone values
const (
	ToneGood    Tone = "good"
	ToneBad     Tone = "bad"
	ToneWarn    Tone = "warn"
	ToneNeutral Tone = "neutral"
)

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Welcome greets the signed-in viewer.
func Welcome(viewer string) string {
	if viewer == "" {
		return "Welcome to AGRO-VISION"
	}
	return "Welcome, " + viewer
}
