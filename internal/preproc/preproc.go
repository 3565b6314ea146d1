// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// preproc normalises fundus photographs so that a corpus of them can
// be consumed by a model trainer: the near-black margins are trimmed
// away, the image is resized onto a fixed size square canvas without
// distortion, and local contrast is enhanced with CLAHE.
package preproc

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Defaults used by ProcessFile for any Options field left unset.
const (
	DefaultOutputSize = 2000
	DefaultClipLimit  = 3.0
	DefaultTileSize   = 8
)

// Options control the preprocessing of a single image.
type Options struct {
	OutputSize int     // side length of the square output image
	ClipLimit  float64 // CLAHE contrast clipping limit
	TileSize   int     // CLAHE tile grid side length
}

// withDefaults fills in any unset option
func (o Options) withDefaults() Options {
	if o.OutputSize == 0 {
		o.OutputSize = DefaultOutputSize
	}
	if o.ClipLimit == 0 {
		o.ClipLimit = DefaultClipLimit
	}
	if o.TileSize == 0 {
		o.TileSize = DefaultTileSize
	}
	return o
}

// ProcessFile normalises the image at inPath and writes the result
// to outPath. The two transform stages are pure; nothing is written
// unless both succeed.
func ProcessFile(inPath string, outPath string, opts Options) error {
	opts = opts.withDefaults()

	img := gocv.IMRead(inPath, gocv.IMReadColor)
	if img.Empty() {
		return fmt.Errorf("Could not read image %s", inPath)
	}
	defer img.Close()

	trimmed, err := TrimAndResize(img, opts.OutputSize)
	if err != nil {
		return fmt.Errorf("Error trimming %s: %v", inPath, err)
	}
	defer trimmed.Close()

	enhanced, err := EnhanceContrast(trimmed, opts.ClipLimit, opts.TileSize)
	if err != nil {
		return fmt.Errorf("Error enhancing %s: %v", inPath, err)
	}
	defer enhanced.Close()

	if ok := gocv.IMWrite(outPath, enhanced); !ok {
		return fmt.Errorf("Could not write image %s", outPath)
	}
	return nil
}
