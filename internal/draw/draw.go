// Package draw renders to ANSI terminals using half-block characters.
package draw

import (
	"fmt"
	"math"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Text attribute sequences for HUD overlays.
const (
	ColorReset      = "\033[0m"
	ColorBold       = "\033[1m"
	ColorDim        = "\033[2m"
	ColorRed        = "\033[91m"
	ColorYellow     = "\033[93m"
	ColorBrightCyan = "\033[96m"
)

// Color is a 24-bit RGB color. The zero value means "no pixel".
type Color struct {
	R, G, B uint8
}

// Palette for game entities.
var (
	ColorPlayer      = Color{R: 80, G: 200, B: 255}
	ColorRocket      = Color{R: 235, G: 235, B: 235}
	ColorLightBullet = Color{R: 255, G: 250, B: 180}
	ColorHeavyBullet = Color{R: 255, G: 120, B: 40}
	ColorHPBack      = Color{R: 70, G: 70, B: 70}
	ColorHPFill      = Color{R: 40, G: 200, B: 60}
)

// IsZero reports whether c is the empty color.
func (c Color) IsZero() bool {
	return c == Color{}
}

// Scale multiplies each channel by f in [0, 1]. A non-empty color never
// scales down to the empty color.
func (c Color) Scale(f float64) Color {
	f = math.Max(0, math.Min(1, f))
	out := Color{
		R: uint8(math.Round(float64(c.R) * f)),
		G: uint8(math.Round(float64(c.G) * f)),
		B: uint8(math.Round(float64(c.B) * f)),
	}
	if out.IsZero() && !c.IsZero() {
		out = Color{R: 1, G: 1, B: 1}
	}
	return out
}

// FG returns the truecolor foreground escape for c.
func (c Color) FG() string {
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", c.R, c.G, c.B)
}

// BG returns the truecolor background escape for c.
func (c Color) BG() string {
	return fmt.Sprintf("\033[48;2;%d;%d;%dm", c.R, c.G, c.B)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
