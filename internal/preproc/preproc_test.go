// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package preproc

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"
)

func Test_ProcessFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")

	img := image.NewNRGBA(image.Rect(0, 0, 60, 40))
	for y := 10; y < 30; y++ {
		for x := 15; x < 45; x++ {
			img.Set(x, y, color.NRGBA{180, 90, 40, 255})
		}
	}
	f, err := os.Create(in)
	if err != nil {
		t.Fatalf("Could not create test image: %v", err)
	}
	err = png.Encode(f, img)
	f.Close()
	if err != nil {
		t.Fatalf("Could not encode test image: %v", err)
	}

	err = ProcessFile(in, out, Options{OutputSize: 64})
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	m := gocv.IMRead(out, gocv.IMReadColor)
	defer m.Close()
	if m.Empty() {
		t.Fatalf("Could not read output image %s", out)
	}
	if m.Rows() != 64 || m.Cols() != 64 {
		t.Fatalf("Expected 64x64 output, got %dx%d", m.Cols(), m.Rows())
	}

	t.Run("missinginput", func(t *testing.T) {
		err := ProcessFile(filepath.Join(dir, "nonexistent.png"), out, Options{})
		if err == nil {
			t.Fatalf("Expected error for missing input, got none")
		}
	})

	t.Run("corruptinput", func(t *testing.T) {
		corrupt := filepath.Join(dir, "corrupt.png")
		err := os.WriteFile(corrupt, []byte("not a png"), 0644)
		if err != nil {
			t.Fatalf("Could not create corrupt test file: %v", err)
		}
		badout := filepath.Join(dir, "corruptout.png")
		err = ProcessFile(corrupt, badout, Options{OutputSize: 64})
		if err == nil {
			t.Fatalf("Expected error for corrupt input, got none")
		}
		if _, err := os.Stat(badout); err == nil {
			t.Fatalf("Output file was written for corrupt input")
		}
	})
}
