package color

import "math"

// LCH is a color in OKLCH coordinates. L is perceptual lightness in [0, 1],
// C is chroma (about 0.37 at most inside sRGB) and H is the hue angle in
// degrees, [0, 360).
type LCH struct {
	L, C, H float64
}

// oklab is the cartesian form of LCH.
type oklab struct {
	L, A, B float64
}

// ToLCH converts an sRGB color to OKLCH.
func ToLCH(c Color) LCH {
	lab := linearToOklab(decode(c.R), decode(c.G), decode(c.B))

	h := math.Atan2(lab.B, lab.A) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return LCH{L: lab.L, C: math.Hypot(lab.A, lab.B), H: h}
}

// Color converts p back to sRGB. Channels outside the sRGB gamut are clipped.
func (p LCH) Color() Color {
	rad := p.H * math.Pi / 180
	r, g, b := oklabToLinear(oklab{L: p.L, A: p.C * math.Cos(rad), B: p.C * math.Sin(rad)})
	return Color{R: encode(r), G: encode(g), B: encode(b)}
}

// SetLightness returns c with its OKLCH lightness replaced by l, keeping hue
// and chroma. Used by palettes to derive tints of a base swatch.
func SetLightness(c Color, l float64) Color {
	p := ToLCH(c)
	p.L = clamp01(l)
	return p.Color()
}

// decode maps an 8-bit sRGB channel to linear light.
func decode(v uint8) float64 {
	x := float64(v) / 255
	if x <= 0.04045 {
		return x / 12.92
	}
	return math.Pow((x+0.055)/1.055, 2.4)
}

// encode maps linear light to an 8-bit sRGB channel.
func encode(x float64) uint8 {
	x = clamp01(x)
	if x <= 0.0031308 {
		x *= 12.92
	} else {
		x = 1.055*math.Pow(x, 1/2.4) - 0.055
	}
	return uint8(math.Round(x * 255))
}

func linearToOklab(r, g, b float64) oklab {
	l := math.Cbrt(0.4122214708*r + 0.5363325363*g + 0.0514459929*b)
	m := math.Cbrt(0.2119034982*r + 0.6806995451*g + 0.1073969566*b)
	s := math.Cbrt(0.0883024619*r + 0.2817188376*g + 0.6299787005*b)

	return oklab{
		L: 0.2104542553*l + 0.7936177850*m - 0.0040720468*s,
		A: 1.9779984951*l - 2.4285922050*m + 0.4505937099*s,
		B: 0.0259040371*l + 0.7827717662*m - 0.8086757660*s,
	}
}

func oklabToLinear(lab oklab) (r, g, b float64) {
	l := lab.L + 0.3963377774*lab.A + 0.2158037573*lab.B
	m := lab.L - 0.1055613458*lab.A - 0.0638541728*lab.B
	s := lab.L - 0.0894841775*lab.A - 1.2914855480*lab.B
	l, m, s = l*l*l, m*m*m, s*s*s

	r = 4.0767416621*l - 3.3077115913*m + 0.2309699292*s
	g = -1.2684380046*l + 2.6097574011*m - 0.3413193965*s
	b = -0.0041960863*l - 0.7034186147*m + 1.7076147010*s
	return r, g, b
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
