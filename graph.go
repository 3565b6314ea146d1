// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package fundusprep

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const maxticks = 40

// ProcTime records how long the preprocessing of a single image took.
type ProcTime struct {
	Path   string
	Millis float64
}

// createLine creates a horizontal line with a particular y value for
// a graph
func createLine(xvalues []float64, y float64, c drawing.Color) chart.ContinuousSeries {
	var yvalues []float64
	for range xvalues {
		yvalues = append(yvalues, y)
	}
	return chart.ContinuousSeries{
		XValues: xvalues,
		YValues: yvalues,
		Style: chart.Style{
			StrokeColor: c,
		},
	}
}

// Graph creates a graph of the processing time of each image in a
// corpus run, in the order the images were processed, with a dashed
// line marking the mean and annotations on the slowest tenth of the
// images. It is useful to spot pathological inputs in a large corpus.
func Graph(times []ProcTime, title string, w io.Writer) error {
	if len(times) < 2 {
		return errors.New("Not enough valid times")
	}

	var xvalues, yvalues []float64
	var ticks []chart.Tick
	tickevery := len(times) / maxticks
	if tickevery < 1 {
		tickevery = 1
	}
	var total float64
	for i, t := range times {
		n := float64(i + 1)
		xvalues = append(xvalues, n)
		yvalues = append(yvalues, t.Millis)
		total += t.Millis
		if i%tickevery == 0 {
			ticks = append(ticks, chart.Tick{Value: n, Label: fmt.Sprintf("%.0f", n)})
		}
	}
	// Make last tick the final image
	last := float64(len(times))
	ticks[len(ticks)-1] = chart.Tick{Value: last, Label: fmt.Sprintf("%.0f", last)}
	mean := total / float64(len(times))

	mainSeries := chart.ContinuousSeries{
		Style: chart.Style{
			StrokeColor: chart.ColorBlue,
			FillColor:   chart.ColorAlternateBlue,
		},
		XValues: xvalues,
		YValues: yvalues,
	}

	// Mark the slowest tenth of the images
	sorted := make([]ProcTime, len(times))
	copy(sorted, times)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Millis < sorted[j].Millis })
	slowcutoff := sorted[(len(sorted)/10)*9].Millis

	var annotations []chart.Value2
	for i, t := range times {
		if t.Millis >= slowcutoff {
			annotations = append(annotations, chart.Value2{
				Label:  filepath.Base(t.Path),
				XValue: float64(i + 1),
				YValue: t.Millis,
			})
		}
	}

	meanSeries := createLine(xvalues, mean, chart.ColorAlternateGray)
	meanSeries.Style.StrokeDashArray = []float64{5.0, 5.0}

	graph := chart.Chart{
		Title:  title,
		Width:  3840,
		Height: 2160,
		XAxis: chart.XAxis{
			Name: "Image number",
			Range: &chart.ContinuousRange{
				Min: 0.0,
			},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name: "Processing time (ms)",
		},
		Series: []chart.Series{
			mainSeries,
			meanSeries,
			chart.AnnotationSeries{
				Annotations: annotations,
			},
		},
	}
	return graph.Render(chart.PNG, w)
}
