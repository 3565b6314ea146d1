// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package preproc

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// EnhanceContrast applies CLAHE contrast enhancement to each colour
// channel of img independently, and returns a new Mat with the same
// dimensions and type. Equalising the channels separately rather
// than equalising a luminance channel can shift the colour balance
// slightly; that is a deliberate tradeoff for simplicity and speed,
// and changing it would change every output pixel.
func EnhanceContrast(img gocv.Mat, clipLimit float64, tileSize int) (gocv.Mat, error) {
	if img.Empty() {
		return gocv.NewMat(), fmt.Errorf("Cannot enhance an empty image")
	}
	if img.Channels() != 3 {
		return gocv.NewMat(), fmt.Errorf("Need a 3 channel image, got %d channels", img.Channels())
	}
	if clipLimit <= 0 {
		return gocv.NewMat(), fmt.Errorf("Clip limit must be positive, got %f", clipLimit)
	}
	if tileSize <= 0 {
		return gocv.NewMat(), fmt.Errorf("Tile size must be positive, got %d", tileSize)
	}

	clahe := gocv.NewCLAHEWithParams(clipLimit, image.Pt(tileSize, tileSize))
	defer clahe.Close()

	channels := gocv.Split(img)
	equalised := make([]gocv.Mat, len(channels))
	for i, c := range channels {
		equalised[i] = gocv.NewMat()
		clahe.Apply(c, &equalised[i])
	}

	out := gocv.NewMat()
	gocv.Merge(equalised, &out)

	for i := range channels {
		channels[i].Close()
		equalised[i].Close()
	}
	return out, nil
}
