// Package palette loads the built-in light and dark palettes. Palettes are
// HCL documents with a literal base block and colors and shadows blocks that
// may reference base and call brighten, darken and lightness.
package palette

import (
	"embed"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

//go:embed palettes/*.hcl
var files embed.FS

// ErrUnknownVariant is returned by Load for a name with no built-in palette.
var ErrUnknownVariant = errors.New("unknown palette variant")

// Palette is a resolved built-in palette.
type Palette struct {
	Meta    Meta
	Base    map[string]string
	Colors  map[string]string
	Shadows map[string]string
}

// Meta holds palette metadata.
type Meta struct {
	Name       string `hcl:"name,optional"`
	Appearance string `hcl:"appearance,optional"`
}

// Block wraps a block with arbitrary attributes for gohcl decoding.
type Block struct {
	Entries hcl.Body `hcl:",remain"`
}

// rawConfig captures the base block first, no EvalContext needed.
type rawConfig struct {
	Base   *Block   `hcl:"base,block"`
	Remain hcl.Body `hcl:",remain"`
}

// resolvedConfig decodes the blocks that reference base.
type resolvedConfig struct {
	Meta    *Meta  `hcl:"meta,block"`
	Base    *Block `hcl:"base,block"`
	Colors  *Block `hcl:"colors,block"`
	Shadows *Block `hcl:"shadows,block"`
}

// Variants returns the names of the built-in palettes, sorted.
func Variants() []string {
	entries, err := files.ReadDir("palettes")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".hcl"))
	}
	slices.Sort(names)
	return names
}

// Load resolves the built-in palette named variant.
func Load(variant string) (*Palette, error) {
	if !slices.Contains(Variants(), variant) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
	src, err := files.ReadFile("palettes/" + variant + ".hcl")
	if err != nil {
		return nil, fmt.Errorf("reading palette %s: %w", variant, err)
	}
	return Parse(src, variant+".hcl")
}

// Parse resolves an HCL palette document.
func Parse(src []byte, filename string) (*Palette, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing HCL: %s", diags.Error())
	}

	// First pass: base swatches are literals or function calls on literals.
	var raw rawConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("decoding base: %s", diags.Error())
	}

	base := make(map[string]string)
	if raw.Base != nil {
		var err error
		base, err = decodeBodyToMap(raw.Base.Entries, &hcl.EvalContext{Functions: Functions()})
		if err != nil {
			return nil, fmt.Errorf("base: %w", err)
		}
	}

	ctx := BuildEvalContext(base)

	var resolved resolvedConfig
	if diags := gohcl.DecodeBody(file.Body, ctx, &resolved); diags.HasErrors() {
		return nil, fmt.Errorf("decoding: %s", diags.Error())
	}

	p := &Palette{Base: base}
	if resolved.Meta != nil {
		p.Meta = *resolved.Meta
	}

	var err error
	if p.Colors, err = decodeBlock(resolved.Colors, ctx); err != nil {
		return nil, fmt.Errorf("colors: %w", err)
	}
	if p.Shadows, err = decodeBlock(resolved.Shadows, ctx); err != nil {
		return nil, fmt.Errorf("shadows: %w", err)
	}
	if len(p.Colors) == 0 {
		return nil, fmt.Errorf("no colors block found")
	}

	return p, nil
}

// Keys returns every color and shadow key, sorted.
func (p *Palette) Keys() []string {
	keys := slices.Collect(maps.Keys(p.Colors))
	for k := range p.Shadows {
		if _, ok := p.Colors[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// BuildEvalContext creates an HCL evaluation context with base swatches and
// the color functions.
func BuildEvalContext(base map[string]string) *hcl.EvalContext {
	vals := make(map[string]cty.Value, len(base))
	for k, v := range base {
		vals[k] = cty.StringVal(v)
	}
	baseVal := cty.EmptyObjectVal
	if len(vals) > 0 {
		baseVal = cty.ObjectVal(vals)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"base": baseVal},
		Functions: Functions(),
	}
}

func decodeBlock(b *Block, ctx *hcl.EvalContext) (map[string]string, error) {
	if b == nil {
		return make(map[string]string), nil
	}
	return decodeBodyToMap(b.Entries, ctx)
}

// decodeBodyToMap decodes an hcl.Body with arbitrary string attributes into a map.
func decodeBodyToMap(body hcl.Body, ctx *hcl.EvalContext) (map[string]string, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("getting attributes: %s", diags.Error())
	}

	result := make(map[string]string, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(ctx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating %s: %s", name, diags.Error())
		}
		if val.IsNull() || !val.IsKnown() || val.Type() != cty.String {
			return nil, fmt.Errorf("%s: expected a string, got %s", name, val.Type().FriendlyName())
		}
		result[name] = val.AsString()
	}
	return result, nil
}
