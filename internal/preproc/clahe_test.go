// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package preproc

import (
	"testing"

	"gocv.io/x/gocv"
)

// gradient creates a 3 channel image with a horizontal intensity
// gradient, bright enough that CLAHE has something to stretch
func gradient(h, w int) gocv.Mat {
	m := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(64 + (x*128)/w)
			for ch := 0; ch < 3; ch++ {
				m.SetUCharAt3(y, x, ch, v)
			}
		}
	}
	return m
}

func Test_EnhanceContrast(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		m := gradient(64, 64)
		defer m.Close()

		out, err := EnhanceContrast(m, 3.0, 8)
		if err != nil {
			t.Fatalf("EnhanceContrast failed: %v", err)
		}
		defer out.Close()

		if out.Rows() != m.Rows() || out.Cols() != m.Cols() {
			t.Fatalf("Expected %dx%d output, got %dx%d", m.Cols(), m.Rows(), out.Cols(), out.Rows())
		}
		if out.Channels() != 3 {
			t.Fatalf("Expected 3 channels, got %d", out.Channels())
		}
		if out.Type() != m.Type() {
			t.Fatalf("Expected type %v, got %v", m.Type(), out.Type())
		}
	})

	badcases := []struct {
		name      string
		img       func() gocv.Mat
		clipLimit float64
		tileSize  int
	}{
		{"empty", func() gocv.Mat { return gocv.NewMat() }, 3.0, 8},
		{"grayinput", func() gocv.Mat { return gocv.NewMatWithSize(64, 64, gocv.MatTypeCV8UC1) }, 3.0, 8},
		{"zerocliplimit", func() gocv.Mat { return gradient(64, 64) }, 0, 8},
		{"zerotilesize", func() gocv.Mat { return gradient(64, 64) }, 3.0, 0},
	}

	for _, c := range badcases {
		t.Run(c.name, func(t *testing.T) {
			m := c.img()
			defer m.Close()
			_, err := EnhanceContrast(m, c.clipLimit, c.tileSize)
			if err == nil {
				t.Fatalf("Expected error, got none")
			}
		})
	}
}
