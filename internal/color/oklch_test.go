package color

import (
	"math"
	"testing"
)

func channelsWithin(a, b Color, tol int) bool {
	near := func(x, y uint8) bool {
		d := int(x) - int(y)
		return d >= -tol && d <= tol
	}
	return near(a.R, b.R) && near(a.G, b.G) && near(a.B, b.B)
}

// swatches are base colors taken from the built-in palettes.
var swatches = []Color{
	{0x0f, 0x0f, 0x12},
	{0x2a, 0x2a, 0x31},
	{0xec, 0xec, 0xf1},
	{0x72, 0x89, 0xda},
	{0xf0, 0x65, 0x95},
	{0xff, 0x6b, 0x6b},
	{0xff, 0xa9, 0x4d},
	{0x69, 0xdb, 0x7c},
}

func TestToLCH(t *testing.T) {
	tests := []struct {
		name  string
		color Color
		want  LCH
		hue   bool
	}{
		{"black", Color{0, 0, 0}, LCH{0, 0, 0}, false},
		{"white", Color{255, 255, 255}, LCH{1, 0, 0}, false},
		{"red", Color{255, 0, 0}, LCH{0.628, 0.258, 29.23}, true},
		{"green", Color{0, 128, 0}, LCH{0.520, 0.177, 142.5}, true},
		{"blue", Color{0, 0, 255}, LCH{0.452, 0.313, 264.05}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToLCH(tt.color)
			if math.Abs(got.L-tt.want.L) > 0.005 || math.Abs(got.C-tt.want.C) > 0.005 {
				t.Errorf("ToLCH(%v) = %+v, want about %+v", tt.color, got, tt.want)
			}
			if tt.hue && math.Abs(got.H-tt.want.H) > 0.6 {
				t.Errorf("ToLCH(%v) hue = %.2f, want about %.2f", tt.color, got.H, tt.want.H)
			}
		})
	}
}

func TestLCH_Color_RoundTrip(t *testing.T) {
	for _, c := range swatches {
		t.Run(c.Hex(), func(t *testing.T) {
			if got := ToLCH(c).Color(); !channelsWithin(got, c, 1) {
				t.Errorf("ToLCH(%s).Color() = %s", c.Hex(), got.Hex())
			}
		})
	}
}

func TestLCH_Color_ClipsOutOfGamut(t *testing.T) {
	got := LCH{L: 0.9, C: 0.4, H: 140}.Color()
	if got.G != 255 {
		t.Errorf("bright saturated green should clip to G=255, got %s", got.Hex())
	}
}

func TestSetLightness(t *testing.T) {
	base := Color{0x72, 0x89, 0xda}
	orig := ToLCH(base)

	for _, l := range []float64{0.3, 0.55, 0.75} {
		got := ToLCH(SetLightness(base, l))
		if math.Abs(got.L-l) > 0.02 {
			t.Errorf("SetLightness(%v) lightness = %.3f", l, got.L)
		}
		if math.Abs(got.H-orig.H) > 2 {
			t.Errorf("SetLightness(%v) hue = %.1f, want about %.1f", l, got.H, orig.H)
		}
	}

	gray := Color{128, 128, 128}
	if got := SetLightness(gray, 1); got != (Color{255, 255, 255}) {
		t.Errorf("SetLightness(gray, 1) = %s, want #ffffff", got.Hex())
	}
	if got := SetLightness(gray, -1); got != (Color{0, 0, 0}) {
		t.Errorf("SetLightness(gray, -1) = %s, want #000000", got.Hex())
	}
}

func TestParseCSS_OKLCHPresentation(t *testing.T) {
	for _, c := range swatches {
		t.Run(c.Hex(), func(t *testing.T) {
			text := c.OKLCH()
			parsed, err := ParseCSS(text)
			if err != nil {
				t.Fatalf("ParseCSS(%q) error = %v", text, err)
			}
			if parsed.Format != FormatOKLCH {
				t.Errorf("ParseCSS(%q) format = %v", text, parsed.Format)
			}
			if !channelsWithin(parsed.Color, c, 1) {
				t.Errorf("ParseCSS(%q) = %s, want about %s", text, parsed.Color.Hex(), c.Hex())
			}
		})
	}
}
