package cmd

import (
	"image"
	"os"
	"path/filepath"
	"testing"
)

func TestOutputPathForce(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "tex.png")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// Force reuses the name, otherwise a versioned variant is chosen.
	if got := outputPath(dir, "tex.png", true); got != existing {
		t.Errorf("force path = %q, want %q", got, existing)
	}
	want := filepath.Join(dir, "tex_v00.png")
	if got := outputPath(dir, "tex.png", false); got != want {
		t.Errorf("versioned path = %q, want %q", got, want)
	}
}

func TestGrayImages(t *testing.T) {
	frames := []*image.Gray{
		image.NewGray(image.Rect(0, 0, 2, 2)),
		image.NewGray(image.Rect(0, 0, 2, 2)),
	}
	imgs := grayImages(frames)
	if len(imgs) != 2 {
		t.Fatalf("got %d images, want 2", len(imgs))
	}
	for i := range imgs {
		if imgs[i] != frames[i] {
			t.Errorf("image %d does not wrap the source frame", i)
		}
	}
}
