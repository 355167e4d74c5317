// Package exporter turns the stored custom theme, or a built-in palette, into
// downloadable theme documents.
package exporter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"strings"

	"github.com/jsvensson/customtheme/internal/palette"
	"github.com/jsvensson/customtheme/internal/theme"
	"github.com/tliron/commonlog"
)

// ContentType is the media type of every download.
const ContentType = "application/json"

// FallbackName names an export whose metadata has no name.
const FallbackName = "custom-theme"

// ErrUnknownVariant is returned by ExportTemplate for a variant with no
// built-in palette.
var ErrUnknownVariant = errors.New("unknown template variant")

var log = commonlog.GetLogger("customtheme.exporter")

// Download is a generated file ready to be delivered to the user.
type Download struct {
	Name        string
	ContentType string
	Body        []byte
}

// Reader is the read side of the theme store.
type Reader interface {
	Read(ctx context.Context) (theme.Colors, theme.Metadata, error)
}

// Exporter never mutates the store it reads from.
type Exporter struct {
	store Reader
}

func New(store Reader) *Exporter {
	return &Exporter{store: store}
}

// ExportTheme serializes the stored theme, metadata first, then colors.
func (e *Exporter) ExportTheme(ctx context.Context) (Download, error) {
	colors, metadata, err := e.store.Read(ctx)
	if err != nil {
		return Download{}, fmt.Errorf("reading theme: %w", err)
	}

	d, err := newDownload(FileName(exportName(metadata))+".json", metadata, colors)
	if err != nil {
		return Download{}, err
	}
	log.Infof("exported %s", d.Name)
	return d, nil
}

// ExportTemplate builds a starter document from the built-in palette named
// variant. It does not read the store.
func (e *Exporter) ExportTemplate(variant string) (Download, error) {
	metadata, colors, err := Template(variant)
	if err != nil {
		return Download{}, err
	}
	d, err := newDownload(variant+"-theme-template.json", metadata, colors)
	if err != nil {
		return Download{}, err
	}
	log.Infof("exported %s", d.Name)
	return d, nil
}

// Template returns the metadata skeleton and colors of a starter document.
// Shadow values are cleaned and win over a color of the same name.
func Template(variant string) (theme.Metadata, theme.Colors, error) {
	p, err := palette.Load(variant)
	if errors.Is(err, palette.ErrUnknownVariant) {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s palette: %w", variant, err)
	}

	metadata := theme.Metadata{
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

	colors := make(theme.Colors, len(p.Colors)+len(p.Shadows))
	maps.Copy(colors, p.Colors)
	for k, v := range p.Shadows {
		colors[k] = CleanShadow(v)
	}
	return metadata, colors, nil
}

var whitespace = regexp.MustCompile(`\s+`)

// CleanShadow collapses runs of whitespace to a single space and trims the
// result.
func CleanShadow(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

var unsafeName = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]+`)

// FileName turns a theme name into a single safe path element, falling back
// to FallbackName.
func FileName(name string) string {
	name = unsafeName.ReplaceAllString(name, "-")
	name = strings.Trim(name, " .")
	if name == "" {
		return FallbackName
	}
	return name
}

// exportName reads the metadata name. A zero number counts as no name.
func exportName(metadata theme.Metadata) string {
	if n, ok := metadata["name"].(float64); ok && n == 0 {
		return ""
	}
	name, _ := metadata.String("name")
	return name
}

func newDownload(name string, metadata theme.Metadata, colors theme.Colors) (Download, error) {
	var buf bytes.Buffer
	if err := theme.Encode(&buf, metadata, colors); err != nil {
		return Download{}, fmt.Errorf("encoding %s: %w", name, err)
	}
	return Download{Name: name, ContentType: ContentType, Body: buf.Bytes()}, nil
}
