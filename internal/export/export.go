// Package export writes rendered images to disk as PNG files, numbered
// sequences, or SQLite frame bundles.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/fieldforge/internal/atlas"
)

// EncodePNG renders an image to PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePNG writes an image to path atomically. The file is staged in the
// target directory and renamed into place so readers never see a partial
// write.
func WritePNG(path string, img image.Image) error {
	data, err := EncodePNG(img)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

// WriteSequence writes frames as individually numbered PNGs under dir.
// Returns the paths written, in frame order.
func WriteSequence(dir, prefix string, frames []image.Image) ([]string, error) {
	paths := make([]string, 0, len(frames))
	for i, frame := range frames {
		path := filepath.Join(dir, atlas.FrameName(prefix, i, len(frames)))
		if err := WritePNG(path, frame); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// VersionedPath returns path if it is free, otherwise inserts a _vNN
// suffix before the extension and increments NN until an unused name is
// found.
func VersionedPath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for v := 0; ; v++ {
		candidate := fmt.Sprintf("%s_v%02d%s", base, v, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
