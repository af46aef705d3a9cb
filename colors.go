package debugterm

import (
	"fmt"
	"image/color"
	"strings"
)

// NamedColor is one of the base colors understood by the command protocol.
type NamedColor int

const (
	ColorWhite NamedColor = iota
	ColorBlack
	ColorGrey
	ColorYellow
	ColorMagenta
	ColorRed
	ColorCyan
	ColorGreen
	ColorBlue
	ColorOrange
)

// DefaultIntensity is the intensity used when a named color has no explicit level.
// At this level the base color is returned unchanged.
const DefaultIntensity = 8

// MaxIntensity is the brightest intensity level.
const MaxIntensity = 15

var namedColors = [...]struct {
	name   string
	base   color.RGBA
	scaled bool // false for WHITE and BLACK, which ignore intensity
}{
	ColorWhite:   {"WHITE", RGB(255, 255, 255), false},
	ColorBlack:   {"BLACK", RGB(0, 0, 0), false},
	ColorGrey:    {"GREY", RGB(255, 255, 255), true},
	ColorYellow:  {"YELLOW", RGB(255, 255, 0), true},
	ColorMagenta: {"MAGENTA", RGB(255, 0, 255), true},
	ColorRed:     {"RED", RGB(255, 0, 0), true},
	ColorCyan:    {"CYAN", RGB(0, 255, 255), true},
	ColorGreen:   {"GREEN", RGB(0, 255, 0), true},
	ColorBlue:    {"BLUE", RGB(0, 0, 255), true},
	ColorOrange:  {"ORANGE", RGB(255, 127, 0), true},
}

// LookupColor finds a named color, ignoring case.
func LookupColor(name string) (NamedColor, bool) {
	for i, nc := range namedColors {
		if strings.EqualFold(nc.name, name) {
			return NamedColor(i), true
		}
	}
	return 0, false
}

func (n NamedColor) String() string {
	if n < 0 || int(n) >= len(namedColors) {
		return fmt.Sprintf("NamedColor(%d)", int(n))
	}
	return namedColors[n].name
}

// Base returns the saturated color before intensity is applied.
func (n NamedColor) Base() color.RGBA {
	return namedColors[n].base
}

// Scaled reports whether the color is modulated by an intensity level.
func (n NamedColor) Scaled() bool {
	return namedColors[n].scaled
}

// WithIntensity resolves the color at intensity level i (clamped to 0-15).
// WHITE and BLACK ignore the level.
func (n NamedColor) WithIntensity(i int) color.RGBA {
	if !n.Scaled() {
		return n.Base()
	}
	return Intensity(n.Base(), i)
}

// Intensity modulates base by a 0-15 level. Levels above 8 lighten each channel
// by (i-8)<<5 with saturation; levels below 8 scale each channel by i/8.
func Intensity(base color.RGBA, i int) color.RGBA {
	i = clamp(i, 0, MaxIntensity)
	if lighten := (i - DefaultIntensity) << 5; lighten > 0 {
		return RGB(
			uint8(min(255, int(base.R)+lighten)),
			uint8(min(255, int(base.G)+lighten)),
			uint8(min(255, int(base.B)+lighten)),
		)
	}
	return RGB(
		uint8((int(base.R)*i)>>3),
		uint8((int(base.G)*i)>>3),
		uint8((int(base.B)*i)>>3),
	)
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// PackedColor decodes a 24-bit little-endian value: the low byte is red,
// then green, then blue.
func PackedColor(v int) color.RGBA {
	u := uint32(v)
	return RGB(uint8(u), uint8(u>>8), uint8(u>>16))
}

var (
	// DefaultGlobalBackground is the background used when the grid is cleared.
	DefaultGlobalBackground = RGB(0, 0, 0)
	// DefaultForeground is the initial text color of a terminal.
	DefaultForeground = RGB(0, 255, 0)
	// DefaultBackground is the initial cell background of a terminal.
	DefaultBackground = RGB(0, 0, 64)
)

// PaletteSize is the number of colors in a Palette (four fg/bg pairs).
const PaletteSize = 8

// Palette holds four (foreground, background) pairs stored as fg0, bg0, fg1, bg1, ...
type Palette [PaletteSize]color.RGBA

// DefaultPalette is orange on black, black on orange, green on black, black on green.
var DefaultPalette = Palette{
	RGB(255, 127, 0), RGB(0, 0, 0),
	RGB(0, 0, 0), RGB(255, 127, 0),
	RGB(0, 255, 0), RGB(0, 0, 0),
	RGB(0, 0, 0), RGB(0, 255, 0),
}

// Pair returns the colors of pair i, clamped to 0-3.
func (p *Palette) Pair(i int) (fg, bg color.RGBA) {
	i = clamp(i, 0, PaletteSize/2-1)
	return p[i*2], p[i*2+1]
}

// colorToHex formats a color as #rrggbb.
func colorToHex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
