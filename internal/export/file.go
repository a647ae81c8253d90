package export

import (
	"os"
	"path/filepath"

	"github.com/iksnae/sentry-client/internal"
)

// BaseName is the file name, without extension, of a result export
const BaseName = "search_results"

// WriteFile exports items into dir as search_results.<ext> and returns the
// path written. An empty result set creates no file and returns
// internal.ErrNothingToExport.
func WriteFile(dir string, exporter Exporter, items []internal.ResultItem) (string, error) {
	if len(items) == 0 {
		return "", internal.ErrNothingToExport
	}

	path := filepath.Join(dir, BaseName+"."+exporter.Extension())
	wrap := func(err error) error {
		internal.LogError("Failed to export %s: %v", path, err)
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", wrap(err)
	}

	// a failed export must not leave a partial file behind
	tmp, err := os.CreateTemp(dir, "."+BaseName+"-*")
	if err != nil {
		return "", wrap(err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := exporter.Export(items, tmp); err != nil {
		_ = tmp.Close()
		return "", wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return "", wrap(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", wrap(err)
	}

	internal.LogInfo("Exported %d result(s) to %s (%s)", len(items), path, exporter.MimeType())
	return path, nil
}
