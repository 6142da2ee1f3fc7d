// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/OCAP2/csvmap/internal/geo"
	"github.com/OCAP2/csvmap/pkg/core"
)

// exportGeoJSON writes the markers of rec to a GeoJSON file in OutputDir.
func (b *Backend) exportGeoJSON(rec *core.ImportRecord) error {
	fc, err := geo.Features(rec.Markers)
	if err != nil {
		return fmt.Errorf("failed to build features: %w", err)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, exportFileName(rec, b.cfg.CompressOutput))

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if b.cfg.CompressOutput {
		err = writeGzipJSON(outputPath, fc)
	} else {
		err = writeJSON(outputPath, fc)
	}
	if err != nil {
		return err
	}

	b.lastExportPath = outputPath
	return nil
}

// exportFileName builds "<source>_<id>_<timestamp>.geojson[.gz]".
func exportFileName(rec *core.ImportRecord, compress bool) string {
	base := strings.TrimSuffix(filepath.Base(rec.Source), filepath.Ext(rec.Source))
	base = strings.NewReplacer(" ", "_", ":", "_").Replace(base)
	if base == "" || base == "." {
		base = "import"
	}
	name := fmt.Sprintf("%s_%d_%s.geojson", base, rec.ID, rec.ImportedAt.UTC().Format("20060102_150405"))
	if compress {
		name += ".gz"
	}
	return name
}

func writeJSON(path string, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(data)
}

func writeGzipJSON(path string, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	if err := json.NewEncoder(gzWriter).Encode(data); err != nil {
		gzWriter.Close()
		return err
	}
	return gzWriter.Close()
}
