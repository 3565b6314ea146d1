// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// fundusprep preprocesses a corpus of fundus photographs so it is
// ready for model training.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"rescribe.xyz/fundusprep"
	"rescribe.xyz/fundusprep/internal/pipeline"
	"rescribe.xyz/fundusprep/internal/preproc"
)

const usage = `Usage: fundusprep [-size n] [-cliplimit n] [-tilesize n] [-labels l,l,...] [-graph file] [-v] indir outdir

Preprocesses a corpus of fundus photographs ready for model
training. Each label subdirectory of indir ("0" to "5" by default)
is read in turn, and every image in it has its black margins
trimmed, is resized onto a square black canvas preserving its
aspect ratio, has its contrast enhanced with CLAHE, and is saved
under the same label and file name in outdir.

An image whose output file already exists is left alone, so an
interrupted run can simply be rerun and will pick up where it
left off. An image which fails to process is reported and the
rest of the corpus is still done.

If -graph is given, a graph of per image processing times is
saved to the named file, which is useful for spotting unusually
slow images.
`

func main() {
	size := flag.Int("size", preproc.DefaultOutputSize, "Side length of the square output images")
	cliplimit := flag.Float64("cliplimit", preproc.DefaultClipLimit, "CLAHE contrast clipping limit")
	tilesize := flag.Int("tilesize", preproc.DefaultTileSize, "CLAHE tile grid side length")
	labels := flag.String("labels", "", "Comma separated label subdirectories to process (default \"0,1,2,3,4,5\")")
	graph := flag.String("graph", "", "File name to save a processing time graph to")
	verbose := flag.Bool("v", false, "Verbose")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		return
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
	if !*verbose {
		logger = logger.Level(zerolog.WarnLevel)
	}

	opts := pipeline.Options{
		InDir:  flag.Arg(0),
		OutDir: flag.Arg(1),
		Preproc: preproc.Options{
			OutputSize: *size,
			ClipLimit:  *cliplimit,
			TileSize:   *tilesize,
		},
	}
	if *labels != "" {
		opts.Labels = strings.Split(*labels, ",")
	}

	results, err := pipeline.Process(context.Background(), opts, logger)
	if err != nil {
		log.Fatalln("Error processing corpus:", err)
	}

	for _, r := range results {
		if r.Status == pipeline.StatusFailed {
			fmt.Fprintf(os.Stderr, "Failed to process %s: %v\n", r.Path, r.Err)
		}
	}
	summary := pipeline.Summarise(results)
	fmt.Println(summary)

	if *graph != "" {
		var times []fundusprep.ProcTime
		for _, r := range results {
			if r.Status == pipeline.StatusProcessed {
				times = append(times, fundusprep.ProcTime{Path: r.Path, Millis: float64(r.Duration.Microseconds()) / 1000})
			}
		}
		f, err := os.Create(*graph)
		if err != nil {
			log.Fatalln("Error creating graph file:", err)
		}
		err = fundusprep.Graph(times, "Processing times", f)
		f.Close()
		if err != nil {
			// not fatal as the processing itself has been done
			fmt.Fprintf(os.Stderr, "Could not create graph: %v\n", err)
			_ = os.Remove(*graph)
		}
	}

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
