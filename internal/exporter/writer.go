package exporter

import (
	"fmt"
	"os"
	"path/filepath"
)

// Writer delivers downloads to a directory.
type Writer struct {
	OutputDir string
}

// Write saves d under the output directory and returns the written path.
func (w *Writer) Write(d Download) (string, error) {
	dir := w.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	outPath := filepath.Join(dir, filepath.Base(d.Name))
	if err := os.WriteFile(outPath, d.Body, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", outPath, err)
	}

	log.Debugf("wrote %s", outPath)
	return outPath, nil
}
