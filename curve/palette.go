package curve

import (
	"encoding/json"
	"fmt"
	"os"
)

// Color is an RGB triple as stored in the symbol color file.
type Color [3]uint8

func (c Color) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c[0], c[1], c[2])
}

// DefaultColor is used for symbols missing from the palette. StartColor is
// the neutral tone renderers use for the synthetic series-start point.
var (
	DefaultColor = Color{255, 99, 132}
	StartColor   = Color{75, 192, 192}
)

// fallbackPalette covers the common instruments when no color file is
// available. Values match the shipped allSymbolsToColor.json subset.
var fallbackPalette = map[string]Color{
	".DE40Cash":   {225, 83, 222},
	".JP225Cash":  {12, 195, 203},
	".US30Cash":   {91, 32, 33},
	".US500Cash":  {31, 82, 161},
	".USTECHCash": {174, 137, 37},
	"AUDCAD":      {55, 1, 144},
	"AUDCHF":      {79, 65, 142},
	"AUDJPY":      {43, 247, 25},
	"AUDNZD":      {213, 41, 196},
}

// Palette maps instrument symbols to display colors. Lookups never fail:
// unknown symbols get DefaultColor, so a missing or stale color file cannot
// abort curve construction.
type Palette struct {
	colors map[string]Color
}

// NewPalette wraps an explicit symbol-to-color table.
func NewPalette(colors map[string]Color) Palette {
	return Palette{colors: colors}
}

// FallbackPalette returns the built-in color table.
func FallbackPalette() Palette {
	return NewPalette(fallbackPalette)
}

// LoadPalette reads a symbol-to-color JSON file. On any error the built-in
// fallback table is returned along with the error, so callers can log and
// keep going.
func LoadPalette(path string) (Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FallbackPalette(), fmt.Errorf("read palette file: %w", err)
	}
	var colors map[string]Color
	if err := json.Unmarshal(data, &colors); err != nil {
		return FallbackPalette(), fmt.Errorf("parse palette file: %w", err)
	}
	return NewPalette(colors), nil
}

// Lookup returns the color for a symbol, or DefaultColor when unknown.
func (p Palette) Lookup(symbol string) Color {
	if c, ok := p.colors[symbol]; ok {
		return c
	}
	return DefaultColor
}
