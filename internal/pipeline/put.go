// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
)

type fileWalk chan string

// Walk sends the path of all files to the channel, with the exception of
// any file which starts with "."
func (f fileWalk) Walk(path string, info os.FileInfo, err error) error {
	if err != nil {
		return err
	}
	// skip files starting with . to prevent automatically generated
	// files like .DS_Store getting in the way
	if strings.HasPrefix(filepath.Base(path), ".") {
		return nil
	}
	if !info.IsDir() {
		f <- path
	}
	return nil
}

// CheckImages checks that all files with a ".jpg", ".jpeg" or ".png"
// suffix under a directory are images that can be decoded (skipping
// dotfiles), so a broken corpus is caught before any of it is uploaded
func CheckImages(ctx context.Context, dir string) error {
	checker := make(fileWalk)
	var walkerr error
	go func() {
		walkerr = filepath.Walk(dir, checker.Walk)
		close(checker)
	}()

	n := 0
	for path := range checker {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !imageFile(path) {
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("Opening image %s failed: %v", path, err)
		}
		_, _, err = image.Decode(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("Decoding image %s failed: %v", path, err)
		}
		n++
	}

	if walkerr != nil {
		return fmt.Errorf("Failed to walk directory %s: %v", dir, walkerr)
	}

	if n == 0 {
		return fmt.Errorf("No images found")
	}

	return nil
}

// UploadCorpus uploads all image files from the label subdirectories
// of dir (except those which start with a ".") into conn.RawStorageId(),
// prefixed with the given corpus name, the label and a slash, so the
// labelled directory structure survives the round trip through storage.
// A label directory missing from dir is skipped.
func UploadCorpus(ctx context.Context, dir string, name string, labels []string, conn Uploader) error {
	if len(labels) == 0 {
		labels = DefaultLabels
	}
	for _, label := range labels {
		labeldir := filepath.Join(dir, label)
		files, err := os.ReadDir(labeldir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("Failed to read directory %s: %v", labeldir, err)
		}
		for _, file := range files {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if file.IsDir() || !imageFile(file.Name()) {
				continue
			}
			if strings.HasPrefix(file.Name(), ".") {
				continue
			}
			path := filepath.Join(labeldir, file.Name())
			key := filepath.Join(name, label, file.Name())
			conn.Log("Uploading", path)
			err = conn.Upload(conn.RawStorageId(), key, path)
			if err != nil {
				return fmt.Errorf("Failed to upload %s: %v", path, err)
			}
		}
	}
	return nil
}
