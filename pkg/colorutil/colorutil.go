// Package colorutil provides shared color utilities for the sketchpad application.
package colorutil

import (
	"fmt"
	"image/color"
)

// Common drawing colors offered by the toolbar palette.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red     = color.RGBA{R: 220, G: 50, B: 47, A: 255}
	Green   = color.RGBA{R: 46, G: 139, B: 87, A: 255}
	Blue    = color.RGBA{R: 38, G: 95, B: 210, A: 255}
	Yellow  = color.RGBA{R: 240, G: 200, B: 0, A: 255}
	Orange  = color.RGBA{R: 235, G: 125, B: 30, A: 255}
	Magenta = color.RGBA{R: 200, G: 60, B: 170, A: 255}
)

// Palette is the swatch order shown in the toolbar.
var Palette = []color.RGBA{Black, Red, Green, Blue, Yellow, Orange, Magenta, White}

// ToHex formats a color as #RRGGBBAA for preference storage.
func ToHex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// FromHex parses #RRGGBB or #RRGGBBAA. The fallback is returned for anything
// unparseable.
func FromHex(s string, fallback color.RGBA) color.RGBA {
	var c color.RGBA
	switch len(s) {
	case 7:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return fallback
		}
		c.A = 255
	case 9:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err != nil {
			return fallback
		}
	default:
		return fallback
	}
	return c
}
