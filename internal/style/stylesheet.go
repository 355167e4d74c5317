package style

import (
	"strconv"
	"strings"
	"text/template"

	"github.com/jsvensson/customtheme/internal/theme"
)

// Background defaults applied when the metadata omits a field.
const (
	DefaultBackgroundBlur     = 0
	DefaultBackgroundPosition = "center"
	DefaultBackgroundSize     = "cover"
)

// CustomSelector scopes the custom property block to the custom theme.
const CustomSelector = `:root[data-theme="custom"]`

var funcs = template.FuncMap{
	"value": sanitizeValue,
}

var propertiesTmpl = template.Must(template.New("properties").Funcs(funcs).Parse(
	`{{ .Selector }} {
{{- range .Properties }}
    {{ .Name }}: {{ value .Value }};
{{- end }}
}
`))

var backgroundTmpl = template.Must(template.New("background").Parse(
	`body::before {
    content: "";
    position: fixed;
    inset: {{ .Inset }};
    z-index: -1;
    pointer-events: none;
    background-image: {{ .Image }};
    background-position: {{ .Position }};
    background-size: {{ .Size }};
    background-repeat: no-repeat;
    filter: {{ .Filter }};
    clip-path: {{ .ClipPath }};
}
`))

// Layer is the resolved background layer for a custom theme.
type Layer struct {
	Image    string
	Blur     float64
	Position string
	Size     string
}

// Inset extends the layer past the viewport by twice the blur radius.
func (l Layer) Inset() string {
	if l.Blur == 0 {
		return "0"
	}
	return "-" + px(l.Blur*2)
}

// Filter returns the CSS filter for the layer.
func (l Layer) Filter() string {
	if l.Blur == 0 {
		return "none"
	}
	return "blur(" + px(l.Blur) + ")"
}

// ClipPath clips the blurred edges back to the viewport.
func (l Layer) ClipPath() string {
	if l.Blur == 0 {
		return "none"
	}
	return "inset(" + px(l.Blur*2) + ")"
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// ResolveLayer reads the background fields from metadata. It reports false
// when the selector is not custom or no background image is set.
func ResolveLayer(sel theme.Selector, metadata theme.Metadata) (Layer, bool) {
	if sel != theme.SelectorCustom {
		return Layer{}, false
	}
	image, ok := metadata.String("backgroundImage")
	if !ok || image == "" {
		return Layer{}, false
	}

	layer := Layer{
		Image:    image,
		Blur:     DefaultBackgroundBlur,
		Position: DefaultBackgroundPosition,
		Size:     DefaultBackgroundSize,
	}
	if blur, ok := metadata.Number("backgroundBlur"); ok && blur > 0 {
		layer.Blur = blur
	}
	if pos, ok := metadata.String("backgroundPosition"); ok && pos != "" {
		layer.Position = pos
	}
	if size, ok := metadata.String("backgroundSize"); ok && size != "" {
		layer.Size = size
	}
	return layer, true
}

// Background renders the background layer, or "" when there is none.
func Background(sel theme.Selector, metadata theme.Metadata) string {
	layer, ok := ResolveLayer(sel, metadata)
	if !ok {
		return ""
	}

	var b strings.Builder
	err := backgroundTmpl.Execute(&b, map[string]string{
		"Inset":    layer.Inset(),
		"Image":    cssURL(layer.Image),
		"Position": sanitizeValue(layer.Position),
		"Size":     sanitizeValue(layer.Size),
		"Filter":   layer.Filter(),
		"ClipPath": layer.ClipPath(),
	})
	if err != nil {
		log.Errorf("rendering background layer: %s", err.Error())
		return ""
	}
	return b.String()
}

// CustomProperties renders properties as a block under CustomSelector, or ""
// when there are none.
func CustomProperties(props []Property) string {
	if len(props) == 0 {
		return ""
	}

	var b strings.Builder
	err := propertiesTmpl.Execute(&b, struct {
		Selector   string
		Properties []Property
	}{CustomSelector, props})
	if err != nil {
		log.Errorf("rendering custom properties: %s", err.Error())
		return ""
	}
	return b.String()
}

// Stylesheet joins the live custom properties and the background layer.
func Stylesheet(root *Declarations, sel theme.Selector, metadata theme.Metadata) string {
	var parts []string
	if sel == theme.SelectorCustom {
		if block := CustomProperties(root.Properties()); block != "" {
			parts = append(parts, block)
		}
	}
	if block := Background(sel, metadata); block != "" {
		parts = append(parts, block)
	}
	return strings.Join(parts, "\n")
}

func cssURL(raw string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", "", "\r", "").Replace(raw)
	return `url("` + escaped + `")`
}
