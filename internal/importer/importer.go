// Package importer commits user-supplied theme documents to the store.
//
// Import never returns an error: malformed input, a top-level value that is
// not an object, and storage failures all resolve to false and leave the stored
// theme untouched.
package importer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jsvensson/customtheme/internal/theme"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("customtheme.importer")

// Committer is the write side of the theme store.
type Committer interface {
	Replace(ctx context.Context, colors theme.Colors, metadata theme.Metadata) error
}

// Importer parses documents and hands the partitioned result to a Committer.
type Importer struct {
	store Committer
}

func New(store Committer) *Importer {
	return &Importer{store: store}
}

// Import reads r to the end, parses it as a theme document and replaces the
// stored theme. Invalid entries are dropped individually.
func (im *Importer) Import(ctx context.Context, r io.Reader) bool {
	if err := im.importReader(ctx, r); err != nil {
		log.Warningf("theme not imported: %s", err.Error())
		return false
	}
	return true
}

// ImportFile imports the document at path.
func (im *Importer) ImportFile(ctx context.Context, path string) bool {
	f, err := os.Open(path)
	if err != nil {
		log.Warningf("theme not imported: opening %s: %s", path, err.Error())
		return false
	}
	defer f.Close()
	return im.Import(ctx, f)
}

// ImportAsync runs Import in its own goroutine. The returned channel delivers
// exactly one result and is then closed.
func (im *Importer) ImportAsync(ctx context.Context, r io.Reader) <-chan bool {
	done := make(chan bool, 1)
	go func() {
		defer close(done)
		done <- im.Import(ctx, r)
	}()
	return done
}

func (im *Importer) importReader(ctx context.Context, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading theme document: %w", err)
	}

	doc, err := theme.Decode(data)
	if err != nil {
		return err
	}

	colors, metadata, dropped := theme.Partition(doc)
	for _, d := range dropped {
		log.Debugf("dropped %s entry %q: got %s, want %s", d.Bucket, d.Key, d.Got, d.Expected)
	}

	if err := im.store.Replace(ctx, colors, metadata); err != nil {
		return fmt.Errorf("committing theme: %w", err)
	}

	log.Infof("imported theme with %d colors and %d metadata fields", len(colors), len(metadata))
	return nil
}
