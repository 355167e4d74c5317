package style

import (
	"strings"
	"testing"

	"github.com/jsvensson/customtheme/internal/theme"
)

func TestBackground_NotCustom(t *testing.T) {
	md := theme.Metadata{"backgroundImage": "https://example.com/bg.png"}
	if got := Background(theme.SelectorDark, md); got != "" {
		t.Errorf("Background(dark) = %q, want empty", got)
	}
}

func TestBackground_NoImage(t *testing.T) {
	md := theme.Metadata{"backgroundBlur": 4.0}
	if got := Background(theme.SelectorCustom, md); got != "" {
		t.Errorf("Background without image = %q, want empty", got)
	}
	if got := Background(theme.SelectorCustom, theme.Metadata{"backgroundImage": ""}); got != "" {
		t.Errorf("Background with empty image = %q, want empty", got)
	}
}

func TestBackground_Defaults(t *testing.T) {
	md := theme.Metadata{"backgroundImage": "https://example.com/bg.png"}
	got := Background(theme.SelectorCustom, md)

	for _, want := range []string{
		`background-image: url("https://example.com/bg.png");`,
		"inset: 0;",
		"background-position: center;",
		"background-size: cover;",
		"filter: none;",
		"clip-path: none;",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Background() missing %q in:\n%s", want, got)
		}
	}
}

func TestBackground_Blur(t *testing.T) {
	md := theme.Metadata{
		"backgroundImage":    "bg.jpg",
		"backgroundBlur":     2.5,
		"backgroundPosition": "top",
		"backgroundSize":     "contain",
	}
	got := Background(theme.SelectorCustom, md)

	for _, want := range []string{
		"inset: -5px;",
		"filter: blur(2.5px);",
		"clip-path: inset(5px);",
		"background-position: top;",
		"background-size: contain;",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Background() missing %q in:\n%s", want, got)
		}
	}
}

func TestBackground_BlurFromString(t *testing.T) {
	md := theme.Metadata{"backgroundImage": "bg.jpg", "backgroundBlur": "3"}
	got := Background(theme.SelectorCustom, md)
	if !strings.Contains(got, "filter: blur(3px);") {
		t.Errorf("numeric string blur not applied:\n%s", got)
	}
}

func TestBackground_QuotesURL(t *testing.T) {
	md := theme.Metadata{"backgroundImage": `a") ; body{display:none`}
	got := Background(theme.SelectorCustom, md)
	if !strings.Contains(got, `url("a\") ; body{display:none")`) {
		t.Errorf("image URL not escaped:\n%s", got)
	}
}

func TestCustomProperties(t *testing.T) {
	got := CustomProperties([]Property{{Name: "--background", Value: "#000"}, {Name: "--text", Value: "#fff"}})
	want := `:root[data-theme="custom"] {
    --background: #000;
    --text: #fff;
}
`
	if got != want {
		t.Errorf("CustomProperties() =\n%s\nwant\n%s", got, want)
	}
	if CustomProperties(nil) != "" {
		t.Error("CustomProperties(nil) should be empty")
	}
}

func TestStylesheet(t *testing.T) {
	root := NewDeclarations()
	NewProjector(root).Apply(theme.SelectorCustom, theme.Colors{"text": "#fff"})
	md := theme.Metadata{"backgroundImage": "bg.jpg"}

	css := Stylesheet(root, theme.SelectorCustom, md)
	if !strings.Contains(css, "--text: #fff;") || !strings.Contains(css, "body::before") {
		t.Errorf("Stylesheet() incomplete:\n%s", css)
	}

	if css := Stylesheet(root, theme.SelectorLight, md); css != "" {
		t.Errorf("Stylesheet(light) = %q, want empty", css)
	}
}
