// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package preproc

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

const (
	// mask threshold, as a fraction of the mean nonzero intensity
	maskMeanFraction = 0.1
	// portion of a row/column which must be masked for it to count
	// as content rather than sparse noise
	minLinePortion = 0.02
)

// contentBounds finds the bounding box of the image content in a
// grayscale image, treating pixels above a tenth of the mean nonzero
// intensity as content. A row or column only qualifies when more
// than 2% of it is content, so letterboxing containing a few noisy
// pixels is still trimmed. The second return value is false when no
// row and column qualify, e.g. for an all-black image.
func contentBounds(gray gocv.Mat) (image.Rectangle, bool) {
	h, w := gray.Rows(), gray.Cols()
	nonzero := gocv.CountNonZero(gray)
	if nonzero == 0 {
		return image.Rectangle{}, false
	}
	thresh := maskMeanFraction * gray.Sum().Val1 / float64(nonzero)

	data := gray.ToBytes()
	rowcounts := make([]int, h)
	colcounts := make([]int, w)
	for y := 0; y < h; y++ {
		row := data[y*w : (y+1)*w]
		for x, v := range row {
			if float64(v) > thresh {
				rowcounts[y]++
				colcounts[x]++
			}
		}
	}

	minrow, maxrow := -1, -1
	for y, n := range rowcounts {
		if float64(n) > float64(w)*minLinePortion {
			if minrow == -1 {
				minrow = y
			}
			maxrow = y
		}
	}
	mincol, maxcol := -1, -1
	for x, n := range colcounts {
		if float64(n) > float64(h)*minLinePortion {
			if mincol == -1 {
				mincol = x
			}
			maxcol = x
		}
	}
	if minrow == -1 || mincol == -1 {
		return image.Rectangle{}, false
	}

	return image.Rect(mincol, minrow, maxcol+1, maxrow+1), true
}

// grayscale returns a single channel copy of img for analysis
func grayscale(img gocv.Mat) (gocv.Mat, error) {
	switch img.Channels() {
	case 1:
		return img.Clone(), nil
	case 3, 4:
		gray := gocv.NewMat()
		code := gocv.ColorBGRToGray
		if img.Channels() == 4 {
			code = gocv.ColorBGRAToGray
		}
		gocv.CvtColor(img, &gray, code)
		return gray, nil
	default:
		return gocv.NewMat(), fmt.Errorf("Unsupported channel count: %d", img.Channels())
	}
}

// TrimAndResize trims the margins of an image where the pixel
// intensity is near zero, resizes it so its longer side equals
// outputSize, and pastes it centered onto a black outputSize square
// canvas, preserving the aspect ratio. The margin detection is done
// on a grayscale copy; the colour image is what gets cropped. An
// image in which no content is found, such as an all-black one, is
// not cropped at all. The result is always a new outputSize x
// outputSize 3 channel Mat; img is left untouched.
func TrimAndResize(img gocv.Mat, outputSize int) (gocv.Mat, error) {
	if outputSize <= 0 {
		return gocv.NewMat(), fmt.Errorf("Output size must be positive, got %d", outputSize)
	}
	if img.Empty() {
		return gocv.NewMat(), fmt.Errorf("Cannot trim an empty image")
	}

	gray, err := grayscale(img)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer gray.Close()

	work := img
	if r, ok := contentBounds(gray); ok {
		region := img.Region(r)
		defer region.Close()
		work = region
	}

	src, err := work.ToImage()
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("Could not convert image for resizing: %v", err)
	}

	b := src.Bounds()
	scale := float64(outputSize) / float64(max(b.Dx(), b.Dy()))
	neww := int(math.Round(float64(b.Dx()) * scale))
	newh := int(math.Round(float64(b.Dy()) * scale))
	if neww < 1 {
		neww = 1
	}
	if newh < 1 {
		newh = 1
	}

	resized := imaging.Resize(src, neww, newh, imaging.Lanczos)
	canvas := imaging.New(outputSize, outputSize, color.NRGBA{0, 0, 0, 255})
	composed := imaging.PasteCenter(canvas, resized)

	out, err := gocv.ImageToMatRGB(composed)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("Could not convert resized image: %v", err)
	}
	return out, nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
