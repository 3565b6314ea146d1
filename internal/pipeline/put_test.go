// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"rescribe.xyz/fundusprep"
)

func Test_CheckImages(t *testing.T) {
	good := t.TempDir()
	err := os.MkdirAll(filepath.Join(good, "0"), 0755)
	if err != nil {
		t.Fatalf("Could not create test directory: %v", err)
	}
	writeTestPng(t, filepath.Join(good, "0", "1.png"))

	bad := t.TempDir()
	err = os.WriteFile(filepath.Join(bad, "bad.png"), []byte("not a png"), 0644)
	if err != nil {
		t.Fatalf("Could not create test file: %v", err)
	}

	empty := t.TempDir()

	cases := []struct {
		name   string
		dir    string
		errstr string
	}{
		{"good", good, ""},
		{"bad", bad, "failed"},
		{"empty", empty, "No images found"},
		{"nonexistent", filepath.Join(empty, "missing"), "Failed to walk"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := CheckImages(context.Background(), c.dir)
			if err == nil && c.errstr != "" {
				t.Fatalf("Expected error containing '%s', got no error", c.errstr)
			}
			if err != nil && c.errstr == "" {
				t.Fatalf("Expected no error, got error '%v'", err)
			}
			if err != nil && !strings.Contains(err.Error(), c.errstr) {
				t.Fatalf("Got an unexpected error, expected '%s', got '%v'", c.errstr, err)
			}
		})
	}
}

type PipelineTester interface {
	Pipeliner
	DeleteObjects(bucket string, keys []string) error
}

type connection struct {
	name string
	c    PipelineTester
}

// Test_UploadDownloadCorpus uploads a small labelled corpus and
// downloads it again, checking the label structure survives the
// round trip. The aws case needs credentials and so is skipped
// with -short.
func Test_UploadDownloadCorpus(t *testing.T) {
	var conns []connection

	conns = append(conns, connection{name: "local", c: &fundusprep.LocalConn{BaseDir: t.TempDir(), Logger: zerolog.Nop()}})

	if !testing.Short() {
		conns = append(conns, connection{name: "aws", c: &fundusprep.AwsConn{Logger: zerolog.Nop()}})
	}

	for _, conn := range conns {
		t.Run(conn.name, func(t *testing.T) {
			err := conn.c.Init()
			if err != nil {
				t.Fatalf("Could not initialise %s connection: %v", conn.name, err)
			}

			corpus := t.TempDir()
			for _, p := range []string{"0/a.png", "0/b.png", "3/c.png"} {
				fn := filepath.Join(corpus, filepath.FromSlash(p))
				err := os.MkdirAll(filepath.Dir(fn), 0755)
				if err != nil {
					t.Fatalf("Could not create test directory: %v", err)
				}
				writeTestPng(t, fn)
			}

			name := fmt.Sprintf("testcorpus-%d", os.Getpid())
			err = UploadCorpus(context.Background(), corpus, name, nil, conn.c)
			if err != nil {
				t.Fatalf("UploadCorpus failed: %v", err)
			}

			down := t.TempDir()
			err = DownloadCorpus(down, name, conn.c.RawStorageId(), conn.c)
			if err != nil {
				t.Fatalf("DownloadCorpus failed: %v", err)
			}

			var keys []string
			for _, p := range []string{"0/a.png", "0/b.png", "3/c.png"} {
				fn := filepath.Join(down, filepath.FromSlash(p))
				if _, err := os.Stat(fn); err != nil {
					t.Fatalf("Expected downloaded file %s missing: %v", p, err)
				}
				keys = append(keys, name+"/"+p)
			}

			err = conn.c.DeleteObjects(conn.c.RawStorageId(), keys)
			if err != nil {
				t.Fatalf("Could not clean up uploaded test files: %v", err)
			}
		})
	}
}
