// Package colormap provides named color tables for data visualization.
//
// Colormaps travel across a sync boundary by name only: the encoder reduces
// a colormap-valued property to its registered name, and the receiving side
// resolves the name against its own registry. A standard set of tables is
// embedded and registered at init; hosts may register their own.
package colormap

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// Color is stored as ARGB (0xAARRGGBB).
type Color uint32

// RGB constructs an opaque Color from red, green, blue bytes.
func RGB(r, g, b uint8) Color {
	return RGBA8(r, g, b, 0xFF)
}

// RGBA8 constructs a Color from red, green, blue, alpha bytes (all 0-255).
func RGBA8(r, g, b, a uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGBAF returns normalized color components (0.0 to 1.0).
func (c Color) RGBAF() (r, g, b, a float64) {
	return float64(uint8(c>>16)) / 255.0,
		float64(uint8(c>>8)) / 255.0,
		float64(uint8(c)) / 255.0,
		float64(uint8(c>>24)) / 255.0
}

// Hex returns the color as "#aarrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%08x", uint32(c))
}

// ParseColor parses "#RRGGBB" or "#AARRGGBB" hex notation, or an SVG 1.1
// color name such as "tomato".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty color")
	}
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		switch len(hex) {
		case 6:
			v, err := strconv.ParseUint(hex, 16, 32)
			if err != nil {
				return 0, fmt.Errorf("invalid hex color %q", s)
			}
			return Color(0xFF000000 | uint32(v)), nil
		case 8:
			v, err := strconv.ParseUint(hex, 16, 32)
			if err != nil {
				return 0, fmt.Errorf("invalid hex color %q", s)
			}
			return Color(uint32(v)), nil
		default:
			return 0, fmt.Errorf("invalid hex color %q", s)
		}
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return RGBA8(c.R, c.G, c.B, c.A), nil
	}
	return 0, fmt.Errorf("unknown color name %q", s)
}

// Lerp linearly interpolates between two colors channel-wise.
func Lerp(a, b Color, t float64) Color {
	t = clamp01(t)
	lerpChannel := func(shift uint) uint32 {
		av := float64((uint32(a) >> shift) & 0xFF)
		bv := float64((uint32(b) >> shift) & 0xFF)
		return uint32(math.Round(av+(bv-av)*t)) & 0xFF
	}
	return Color(lerpChannel(24)<<24 | lerpChannel(16)<<16 | lerpChannel(8)<<8 | lerpChannel(0))
}

// clamp01 clamps a value to the range [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Stop defines a color stop within a colormap.
type Stop struct {
	At    float64
	Color Color
}

// UnmarshalYAML decodes a stop from its table form, where the color is
// written in any notation [ParseColor] accepts.
func (s *Stop) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		At    float64 `yaml:"at"`
		Color string  `yaml:"color"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	c, err := ParseColor(raw.Color)
	if err != nil {
		return err
	}
	s.At = raw.At
	s.Color = c
	return nil
}

// Colormap maps positions in [0, 1] to colors by piecewise-linear
// interpolation between ordered stops.
type Colormap struct {
	name  string
	stops []Stop
}

// New builds a colormap from at least two stops with nondecreasing
// positions inside [0, 1].
func New(name string, stops []Stop) (*Colormap, error) {
	if name == "" {
		return nil, errors.New("colormap name is empty")
	}
	if len(stops) < 2 {
		return nil, fmt.Errorf("colormap %q needs at least 2 stops, got %d", name, len(stops))
	}
	prev := 0.0
	for i, stop := range stops {
		if stop.At < 0 || stop.At > 1 {
			return nil, fmt.Errorf("colormap %q stop %d position %v outside [0, 1]", name, i, stop.At)
		}
		if stop.At < prev {
			return nil, fmt.Errorf("colormap %q stop %d position %v out of order", name, i, stop.At)
		}
		prev = stop.At
	}
	return &Colormap{name: name, stops: cloneStops(stops)}, nil
}

// Name returns the registered name.
func (c *Colormap) Name() string {
	return c.name
}

// ResourceName returns the name the colormap travels under when a state
// tree holding it is serialized.
func (c *Colormap) ResourceName() string {
	return c.name
}

// Stops returns a copy of the color stops.
func (c *Colormap) Stops() []Stop {
	return cloneStops(c.stops)
}

// At returns the color at position t. Positions outside [0, 1] clamp to the
// end stops.
func (c *Colormap) At(t float64) Color {
	stops := c.stops
	t = clamp01(t)
	if t <= stops[0].At {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		if t > stops[i].At {
			continue
		}
		lo, hi := stops[i-1], stops[i]
		span := hi.At - lo.At
		if span <= 0 {
			return hi.Color
		}
		return Lerp(lo.Color, hi.Color, (t-lo.At)/span)
	}
	return stops[len(stops)-1].Color
}

// Reversed returns the colormap flipped end to end. The reversed variant of
// "viridis" is named "viridis_r"; reversing it again restores the base name.
func (c *Colormap) Reversed() *Colormap {
	stops := make([]Stop, len(c.stops))
	for i, s := range c.stops {
		stops[len(c.stops)-1-i] = Stop{At: 1 - s.At, Color: s.Color}
	}
	name := c.name + "_r"
	if base, ok := strings.CutSuffix(c.name, "_r"); ok {
		name = base
	}
	return &Colormap{name: name, stops: stops}
}

func cloneStops(stops []Stop) []Stop {
	clone := make([]Stop, len(stops))
	copy(clone, stops)
	return clone
}
