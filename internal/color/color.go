package color

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color represents an RGB color. The R, G, B uint8 fields are the source of truth;
// all output formats are derived from them.
type Color struct {
	R, G, B uint8
}

// ParseHex parses a hex color string like "#eb6f92" into a Color.
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q: must be 6 hex digits", s)
	}
	var r, g, b uint8
	_, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{R: r, G: g, B: b}, nil
}

// Hex returns the color as a hex string with leading #, e.g. "#eb6f92".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGB returns the color as an rgb() string, e.g. "rgb(235, 111, 146)".
func (c Color) RGB() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// RGBA returns the color as an rgba() string with the given alpha.
func (c Color) RGBA(alpha float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, formatFloat(clamp01(alpha), 3))
}

// OKLCH returns the color as an oklch() string, e.g. "oklch(0.6 0.15 300)".
func (c Color) OKLCH() string {
	p := ToLCH(c)
	if p.C < 0.0005 {
		p.H = 0
	}
	return fmt.Sprintf("oklch(%s %s %s)", formatFloat(p.L, 3), formatFloat(p.C, 3), formatFloat(p.H, 1))
}

// Format names the CSS notation a color was written in.
type Format int

const (
	FormatHex Format = iota
	FormatRGB
	FormatOKLCH
)

// CSS is a color parsed from a CSS value along with its alpha and notation.
type CSS struct {
	Color  Color
	Alpha  float64
	Format Format
}

// String renders the color in its original notation.
func (c CSS) String() string {
	switch c.Format {
	case FormatRGB:
		if c.Alpha < 1 {
			return c.Color.RGBA(c.Alpha)
		}
		return c.Color.RGB()
	case FormatOKLCH:
		s := c.Color.OKLCH()
		if c.Alpha < 1 {
			s = strings.TrimSuffix(s, ")") + " / " + formatFloat(c.Alpha, 3) + ")"
		}
		return s
	default:
		if c.Alpha < 1 {
			return c.Color.Hex() + fmt.Sprintf("%02x", uint8(clamp01(c.Alpha)*255+0.5))
		}
		return c.Color.Hex()
	}
}

// ParseCSS parses the color notations commonly found in theme documents:
// #rgb, #rgba, #rrggbb, #rrggbbaa, rgb(), rgba() and oklch(), in both comma
// and space separated forms.
func ParseCSS(s string) (CSS, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)

	switch {
	case strings.HasPrefix(lower, "#"):
		return parseHexCSS(lower[1:])
	case strings.HasPrefix(lower, "rgba(") || strings.HasPrefix(lower, "rgb("):
		args, err := functionArgs(lower)
		if err != nil {
			return CSS{}, err
		}
		return parseRGB(args)
	case strings.HasPrefix(lower, "oklch("):
		args, err := functionArgs(lower)
		if err != nil {
			return CSS{}, err
		}
		return parseOKLCH(args)
	}
	return CSS{}, fmt.Errorf("unsupported color %q", s)
}

func parseHexCSS(h string) (CSS, error) {
	switch len(h) {
	case 3, 4:
		var b strings.Builder
		for _, r := range h {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		h = b.String()
	case 6, 8:
	default:
		return CSS{}, fmt.Errorf("invalid hex color %q: must be 3, 4, 6 or 8 hex digits", h)
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return CSS{}, fmt.Errorf("invalid hex color %q: %w", h, err)
	}
	alpha := 1.0
	if len(h) == 8 {
		alpha = float64(v&0xff) / 255
		v >>= 8
	}
	return CSS{
		Color:  Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)},
		Alpha:  alpha,
		Format: FormatHex,
	}, nil
}

// functionArgs splits "name(a, b, c / d)" into its arguments. The alpha after
// a slash becomes the last argument.
func functionArgs(s string) ([]string, error) {
	open := strings.IndexByte(s, '(')
	if !strings.HasSuffix(s, ")") || open < 0 {
		return nil, fmt.Errorf("malformed color function %q", s)
	}
	inner := s[open+1 : len(s)-1]
	inner = strings.NewReplacer(",", " ", "/", " ").Replace(inner)
	args := strings.Fields(inner)
	if len(args) < 3 || len(args) > 4 {
		return nil, fmt.Errorf("color function %q needs 3 or 4 arguments", s)
	}
	return args, nil
}

func parseRGB(args []string) (CSS, error) {
	var ch [3]uint8
	for i := range 3 {
		v, err := component(args[i], 255)
		if err != nil {
			return CSS{}, err
		}
		ch[i] = uint8(clampRange(v, 0, 255) + 0.5)
	}
	alpha, err := alphaArg(args)
	if err != nil {
		return CSS{}, err
	}
	return CSS{Color: Color{R: ch[0], G: ch[1], B: ch[2]}, Alpha: alpha, Format: FormatRGB}, nil
}

func parseOKLCH(args []string) (CSS, error) {
	l, err := component(args[0], 1)
	if err != nil {
		return CSS{}, err
	}
	c, err := component(args[1], 0.4)
	if err != nil {
		return CSS{}, err
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(args[2], "deg"), 64)
	if err != nil {
		return CSS{}, fmt.Errorf("invalid hue %q", args[2])
	}
	alpha, err := alphaArg(args)
	if err != nil {
		return CSS{}, err
	}
	return CSS{Color: LCH{L: clamp01(l), C: c, H: h}.Color(), Alpha: alpha, Format: FormatOKLCH}, nil
}

// component parses a number or a percentage of full.
func component(s string, full float64) (float64, error) {
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid percentage %q", s)
		}
		return v / 100 * full, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func alphaArg(args []string) (float64, error) {
	if len(args) < 4 {
		return 1, nil
	}
	a, err := component(args[3], 1)
	if err != nil {
		return 0, err
	}
	return clamp01(a), nil
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// formatFloat rounds v to prec decimals and drops trailing zeros.
func formatFloat(v float64, prec int) string {
	scale := math.Pow10(prec)
	v = math.Round(v*scale) / scale
	if v == 0 {
		v = 0 // no negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
