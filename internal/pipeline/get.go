// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DownloadCorpus downloads every object for the named corpus from
// bucket into dir, recreating the label subdirectory structure the
// keys encode. Keys are expected to be of the form name/label/file,
// as written by UploadCorpus.
func DownloadCorpus(dir string, name string, bucket string, conn DownloadLister) error {
	objs, err := conn.ListObjects(bucket, name+"/")
	if err != nil {
		return fmt.Errorf("Failed to get list of files for corpus %s: %v", name, err)
	}
	if len(objs) == 0 {
		return fmt.Errorf("No files found for corpus %s", name)
	}
	for _, i := range objs {
		rel := strings.TrimPrefix(i, name+"/")
		fn := filepath.Join(dir, filepath.FromSlash(rel))
		err = os.MkdirAll(filepath.Dir(fn), 0755)
		if err != nil {
			return fmt.Errorf("Failed to create directory for %s: %v", fn, err)
		}
		conn.Log("Downloading", i)
		err = conn.Download(bucket, i, fn)
		if err != nil {
			return fmt.Errorf("Failed to download file %s: %v", i, err)
		}
	}
	return nil
}
