package palette

import (
	"github.com/jsvensson/customtheme/internal/color"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Functions returns the functions available to palette expressions.
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"brighten":  MakeBrightenFunc(),
		"darken":    MakeDarkenFunc(),
		"lightness": MakeLightnessFunc(),
	}
}

// MakeBrightenFunc creates an HCL function that brightens a color.
// Usage: brighten("#hex", 0.1) or brighten(base.color, 0.1)
func MakeBrightenFunc() function.Function {
	return makeAdjustFunc("Brightens a color by the given percentage (0.0 to 1.0)", color.Brighten)
}

// MakeDarkenFunc creates an HCL function that darkens a color.
// Usage: darken("#hex", 0.1) or darken(base.color, 0.1)
func MakeDarkenFunc() function.Function {
	return makeAdjustFunc("Darkens a color by the given percentage (0.0 to 1.0)", color.Darken)
}

// MakeLightnessFunc creates an HCL function that sets the OKLCH lightness of
// a color, keeping its hue and chroma.
// Usage: lightness(base.color, 0.7)
func MakeLightnessFunc() function.Function {
	return makeAdjustFunc("Sets the OKLCH lightness of a color (0.0 to 1.0)", color.SetLightness)
}

func makeAdjustFunc(description string, adjust func(color.Color, float64) color.Color) function.Function {
	return function.New(&function.Spec{
		Description: description,
		Params: []function.Parameter{
			{
				Name: "color",
				Type: cty.String,
			},
			{
				Name: "percentage",
				Type: cty.Number,
			},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			pct, _ := args[1].AsBigFloat().Float64()

			c, err := color.ParseCSS(args[0].AsString())
			if err != nil {
				return cty.NilVal, err
			}

			c.Color = adjust(c.Color, pct)
			return cty.StringVal(c.String()), nil
		},
	})
}
