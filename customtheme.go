// Package customtheme wires a storage backend, the theme store, the importer
// and the exporter into one application.
package customtheme

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jsvensson/customtheme/internal/config"
	"github.com/jsvensson/customtheme/internal/exporter"
	"github.com/jsvensson/customtheme/internal/importer"
	"github.com/jsvensson/customtheme/internal/kv"
	"github.com/jsvensson/customtheme/internal/store"
	"github.com/jsvensson/customtheme/internal/style"
	"github.com/jsvensson/customtheme/internal/theme"
)

// App is a running custom theme instance.
type App struct {
	backend  kv.Store
	root     *style.Declarations
	store    *store.Store
	importer *importer.Importer
	exporter *exporter.Exporter
}

// Open opens the configured storage backend and loads the persisted theme.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	backend, err := kv.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	app, err := New(ctx, backend, cfg.Selector())
	if err != nil {
		return nil, errors.Join(err, backend.Close())
	}
	return app, nil
}

// New builds an App over an already open backend. The App owns backend and
// closes it on Close.
func New(ctx context.Context, backend kv.Store, defaultSelector theme.Selector) (*App, error) {
	root := style.NewDeclarations()
	s, err := store.New(ctx, backend, style.NewProjector(root), defaultSelector)
	if err != nil {
		return nil, fmt.Errorf("loading theme: %w", err)
	}

	return &App{
		backend:  backend,
		root:     root,
		store:    s,
		importer: importer.New(s),
		exporter: exporter.New(s),
	}, nil
}

// Read returns the stored colors and metadata.
func (a *App) Read(ctx context.Context) (theme.Colors, theme.Metadata, error) {
	return a.store.Read(ctx)
}

// Import replaces the stored theme with the document read from r. It reports
// whether the document was accepted.
func (a *App) Import(ctx context.Context, r io.Reader) bool {
	return a.importer.Import(ctx, r)
}

// ImportFile imports the document at path.
func (a *App) ImportFile(ctx context.Context, path string) bool {
	return a.importer.ImportFile(ctx, path)
}

// ExportTheme encodes the stored theme as a download.
func (a *App) ExportTheme(ctx context.Context) (exporter.Download, error) {
	return a.exporter.ExportTheme(ctx)
}

// ExportTemplate encodes the built-in palette for variant as a download.
func (a *App) ExportTemplate(variant string) (exporter.Download, error) {
	return a.exporter.ExportTemplate(variant)
}

// Clear removes the stored theme.
func (a *App) Clear(ctx context.Context) error {
	return a.store.Clear(ctx)
}

func (a *App) Selector() theme.Selector {
	return a.store.Selector()
}

// SetSelector persists and applies the active theme selector.
func (a *App) SetSelector(ctx context.Context, sel theme.Selector) error {
	return a.store.SetSelector(ctx, sel)
}

// Stylesheet renders the live custom properties and the background layer.
func (a *App) Stylesheet(ctx context.Context) (string, error) {
	_, metadata, err := a.store.Read(ctx)
	if err != nil {
		return "", err
	}
	return style.Stylesheet(a.root, a.store.Selector(), metadata), nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.backend.Close()
}
