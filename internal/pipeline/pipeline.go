// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// pipeline is a package used by the fundusprep command, which
// handles the batch preprocessing of a corpus of fundus photographs,
// one labelled subdirectory at a time. Note that it is considered an
// "internal" package, not intended for external use, and no
// guarantee is made of the stability of any interfaces provided.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"rescribe.xyz/fundusprep/internal/preproc"
)

// DefaultLabels are the grade subdirectories a corpus is expected
// to contain, in the order they are processed.
var DefaultLabels = []string{"0", "1", "2", "3", "4", "5"}

type DownloadLister interface {
	Download(bucket string, key string, fn string) error
	ListObjects(bucket string, prefix string) ([]string, error)
	Log(v ...interface{})
}

type Uploader interface {
	Log(v ...interface{})
	RawStorageId() string
	Upload(bucket string, key string, path string) error
}

type Pipeliner interface {
	Download(bucket string, key string, fn string) error
	GetLogger() zerolog.Logger
	Init() error
	ListObjects(bucket string, prefix string) ([]string, error)
	Log(v ...interface{})
	ProcStorageId() string
	RawStorageId() string
	Upload(bucket string, key string, path string) error
}

// Status is the fate of a single image in a batch run.
type Status int

const (
	StatusProcessed Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusProcessed:
		return "processed"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Result records what happened to a single image file. A failure is
// captured here rather than stopping the batch, so one corrupt file
// can't block a long run.
type Result struct {
	Label    string
	Name     string
	Path     string
	Status   Status
	Err      error
	Duration time.Duration
}

// Summary aggregates the results of a batch run.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
	Total     time.Duration
}

func (s Summary) String() string {
	return fmt.Sprintf("%d processed, %d skipped, %d failed in %s",
		s.Processed, s.Skipped, s.Failed, s.Total.Round(time.Millisecond))
}

// Options control a batch run.
type Options struct {
	InDir   string
	OutDir  string
	Labels  []string
	Preproc preproc.Options
}

// imageFile reports whether name has an image extension we process
func imageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

// Process runs the full preprocessing batch: for every label
// subdirectory of opts.InDir, in order, every image file whose
// mirrored output path under opts.OutDir does not yet exist is
// normalised and written there. Existence of the output path is the
// only record of "already processed", so an interrupted run can be
// restarted and will redo only what is missing. A label directory
// missing from the input is logged and skipped. Per-file errors are
// logged and recorded in the returned results; only a failure to
// enumerate an existing directory, or ctx being cancelled, aborts
// the batch.
func Process(ctx context.Context, opts Options, logger zerolog.Logger) ([]Result, error) {
	if len(opts.Labels) == 0 {
		opts.Labels = DefaultLabels
	}

	err := os.MkdirAll(opts.OutDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("Failed to create output directory %s: %v", opts.OutDir, err)
	}

	var results []Result
	for _, label := range opts.Labels {
		indir := filepath.Join(opts.InDir, label)
		entries, err := os.ReadDir(indir)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Warn().Str("label", label).Msg("Subdirectory does not exist, skipping")
				continue
			}
			return results, fmt.Errorf("Failed to read directory %s: %v", indir, err)
		}
		outdir := filepath.Join(opts.OutDir, label)

		for _, e := range entries {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			default:
			}
			if e.IsDir() || !imageFile(e.Name()) {
				continue
			}
			inpath := filepath.Join(indir, e.Name())
			outpath := filepath.Join(outdir, e.Name())
			r := Result{Label: label, Name: e.Name(), Path: inpath}

			if _, err := os.Stat(outpath); err == nil {
				logger.Debug().Str("path", outpath).Msg("Already exists, skipping")
				r.Status = StatusSkipped
				results = append(results, r)
				continue
			}

			err := os.MkdirAll(outdir, 0755)
			if err != nil {
				return results, fmt.Errorf("Failed to create directory %s: %v", outdir, err)
			}

			start := time.Now()
			err = preproc.ProcessFile(inpath, outpath, opts.Preproc)
			if err != nil {
				logger.Error().Err(err).Str("path", inpath).Msg("Error processing image")
				r.Status = StatusFailed
				r.Err = err
				results = append(results, r)
				continue
			}
			r.Status = StatusProcessed
			r.Duration = time.Since(start)
			logger.Info().Str("path", outpath).Dur("duration", r.Duration).Msg("Processed and saved")
			results = append(results, r)
		}
	}
	return results, nil
}

// Summarise counts up the results of a batch run
func Summarise(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusProcessed:
			s.Processed++
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
		}
		s.Total += r.Duration
	}
	return s
}
