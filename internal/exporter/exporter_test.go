package exporter

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jsvensson/customtheme/internal/palette"
	"github.com/jsvensson/customtheme/internal/theme"
)

// staticReader serves a fixed theme.
type staticReader struct {
	colors   theme.Colors
	metadata theme.Metadata
	err      error
}

func (r staticReader) Read(context.Context) (theme.Colors, theme.Metadata, error) {
	return r.colors, r.metadata, r.err
}

func TestExportTheme(t *testing.T) {
	e := New(staticReader{
		colors:   theme.Colors{"text": "#fff", "background": "#000"},
		metadata: theme.Metadata{"name": "Midnight", "backgroundBlur": 2.0},
	})

	d, err := e.ExportTheme(context.Background())
	if err != nil {
		t.Fatalf("ExportTheme() error: %v", err)
	}

	if d.Name != "Midnight.json" {
		t.Errorf("Name = %q, want Midnight.json", d.Name)
	}
	if d.ContentType != "application/json" {
		t.Errorf("ContentType = %q", d.ContentType)
	}
	want := `{
  "name": "Midnight",
  "backgroundBlur": 2,
  "background": "#000",
  "text": "#fff"
}
`
	if diff := cmp.Diff(want, string(d.Body)); diff != "" {
		t.Errorf("Body mismatch (-want +got):\n%s", diff)
	}
}

func TestExportTheme_FallbackName(t *testing.T) {
	tests := []struct {
		name     string
		metadata theme.Metadata
		want     string
	}{
		{"no metadata", theme.Metadata{}, "custom-theme.json"},
		{"empty name", theme.Metadata{"name": ""}, "custom-theme.json"},
		{"numeric name", theme.Metadata{"name": 7.0}, "7.json"},
		{"zero name", theme.Metadata{"name": 0.0}, "custom-theme.json"},
		{"negative zero name", theme.Metadata{"name": math.Copysign(0, -1)}, "custom-theme.json"},
		{"zero string name", theme.Metadata{"name": "0"}, "0.json"},
		{"path name", theme.Metadata{"name": "../../etc/passwd"}, "-..-etc-passwd.json"},
		{"dots only", theme.Metadata{"name": ".."}, "custom-theme.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(staticReader{colors: theme.Colors{}, metadata: tt.metadata})
			d, err := e.ExportTheme(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if d.Name != tt.want {
				t.Errorf("Name = %q, want %q", d.Name, tt.want)
			}
		})
	}
}

func TestExportTheme_ReadError(t *testing.T) {
	boom := errors.New("boom")
	_, err := New(staticReader{err: boom}).ExportTheme(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("ExportTheme() error = %v, want %v", err, boom)
	}
}

func TestExportTemplate(t *testing.T) {
	e := New(staticReader{})

	for _, variant := range palette.Variants() {
		t.Run(variant, func(t *testing.T) {
			d, err := e.ExportTemplate(variant)
			if err != nil {
				t.Fatalf("ExportTemplate(%q) error: %v", variant, err)
			}
			if want := variant + "-theme-template.json"; d.Name != want {
				t.Errorf("Name = %q, want %q", d.Name, want)
			}

			doc, err := theme.Decode(d.Body)
			if err != nil {
				t.Fatalf("template does not decode: %v", err)
			}
			colors, metadata, dropped := theme.Partition(doc)
			if len(dropped) != 0 {
				t.Errorf("template has invalid entries: %v", dropped)
			}

			wantMeta := theme.Metadata{
				"name":               variant,
				"author":             "AnimeThemes",
				"description":        "Default theme template.",
				"version":            "1.0.0",
				"backgroundImage":    "",
				"backgroundOpacity":  0.0,
				"backgroundBlur":     0.0,
				"backgroundPosition": "center",
				"backgroundSize":     "cover",
			}
			if diff := cmp.Diff(wantMeta, metadata); diff != "" {
				t.Errorf("metadata mismatch (-want +got):\n%s", diff)
			}

			p, err := palette.Load(variant)
			if err != nil {
				t.Fatal(err)
			}
			for k, v := range p.Colors {
				if _, shadowed := p.Shadows[k]; shadowed {
					continue
				}
				if colors[k] != v {
					t.Errorf("color %s = %q, want %q", k, colors[k], v)
				}
			}
			for k := range p.Shadows {
				v := colors[k]
				if strings.Contains(v, "  ") || strings.ContainsAny(v, "\n\t") || v != strings.TrimSpace(v) {
					t.Errorf("shadow %s not cleaned: %q", k, v)
				}
			}
		})
	}
}

func TestExportTemplate_MetadataFirst(t *testing.T) {
	d, err := New(staticReader{}).ExportTemplate("dark")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(d.Body), "{\n  \"name\": \"dark\",\n  \"author\": \"AnimeThemes\",") {
		t.Errorf("template should open with the metadata skeleton:\n%s", d.Body)
	}
}

func TestExportTemplate_Unknown(t *testing.T) {
	_, err := New(staticReader{}).ExportTemplate("sepia")
	if !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("ExportTemplate(sepia) error = %v, want ErrUnknownVariant", err)
	}
}

func TestCleanShadow(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0 1px 2px", "0 1px 2px"},
		{"  0  1px\n\t2px  ", "0 1px 2px"},
		{"0 2px 4px   rgba(0, 0, 0, 0.4),\n0 4px 12px  rgba(0, 0, 0, 0.3)\n", "0 2px 4px rgba(0, 0, 0, 0.4), 0 4px 12px rgba(0, 0, 0, 0.3)"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanShadow(tt.in); got != tt.want {
			t.Errorf("CleanShadow(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := &Writer{OutputDir: dir}

	path, err := w.Write(Download{Name: "x.json", Body: []byte("{}\n")})
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if path != filepath.Join(dir, "x.json") {
		t.Errorf("path = %q", path)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "{}\n" {
		t.Errorf("file content = %q", got)
	}
}
