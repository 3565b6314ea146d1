// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package fundusprep

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// LocalConn is a simple implementation of the connection interface
// that doesn't rely on any "cloud" services, instead doing everything
// on the local machine. This is particularly useful for testing.
type LocalConn struct {
	// these should be set before running Init(), or left to defaults
	BaseDir string
	Logger  zerolog.Logger
}

// MinimalInit does the bare minimum initialisation, creating the
// base directory and the directories standing in for the storage
// buckets.
func (a *LocalConn) MinimalInit() error {
	if a.BaseDir == "" {
		a.BaseDir = filepath.Join(os.TempDir(), "fundusprep")
	}
	for _, d := range []string{a.BaseDir, filepath.Join(a.BaseDir, storageRaw), filepath.Join(a.BaseDir, storageProc)} {
		err := os.Mkdir(d, 0700)
		if err != nil && !os.IsExist(err) {
			return fmt.Errorf("Error creating directory %s: %v", d, err)
		}
	}
	return nil
}

// Init just does the same as MinimalInit
func (a *LocalConn) Init() error {
	return a.MinimalInit()
}

func (a *LocalConn) RawStorageId() string {
	return storageRaw
}

func (a *LocalConn) ProcStorageId() string {
	return storageProc
}

func prefixwalker(dirpath string, prefix string, list *[]ObjMeta) filepath.WalkFunc {
	return func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		n := strings.TrimPrefix(path, dirpath+string(filepath.Separator))
		n = filepath.ToSlash(n)
		if !strings.HasPrefix(n, prefix) {
			return nil
		}
		*list = append(*list, ObjMeta{Name: n, Date: info.ModTime()})
		return nil
	}
}

func (a *LocalConn) ListObjects(bucket string, prefix string) ([]string, error) {
	var names []string
	list, err := a.ListObjectsWithMeta(bucket, prefix)
	if err != nil {
		return names, err
	}
	for _, v := range list {
		names = append(names, v.Name)
	}
	return names, nil
}

func (a *LocalConn) ListObjectsWithMeta(bucket string, prefix string) ([]ObjMeta, error) {
	var list []ObjMeta
	d := filepath.Join(a.BaseDir, bucket)
	err := filepath.Walk(d, prefixwalker(d, prefix, &list))
	return list, err
}

// ListObjectPrefixes lists the top level prefixes, which are the
// corpus names used by the tools, in a bucket.
func (a *LocalConn) ListObjectPrefixes(bucket string) ([]string, error) {
	var prefixes []string
	entries, err := os.ReadDir(filepath.Join(a.BaseDir, bucket))
	if err != nil {
		return prefixes, err
	}
	for _, e := range entries {
		if e.IsDir() {
			prefixes = append(prefixes, e.Name()+"/")
		}
	}
	return prefixes, nil
}

// MkStorage creates the directories standing in for the storage
// buckets.
func (a *LocalConn) MkStorage() error {
	return a.MinimalInit()
}

// Download just copies the file from BaseDir/bucket/key to path
func (a *LocalConn) Download(bucket string, key string, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fin, err := os.Open(filepath.Join(a.BaseDir, bucket, filepath.FromSlash(key)))
	if err != nil {
		return err
	}
	defer fin.Close()
	_, err = io.Copy(f, fin)
	return err
}

// Upload just copies the file from path to BaseDir/bucket/key
func (a *LocalConn) Upload(bucket string, key string, path string) error {
	d := filepath.Join(a.BaseDir, bucket, filepath.Dir(filepath.FromSlash(key)))
	err := os.MkdirAll(d, 0700)
	if err != nil {
		return fmt.Errorf("Error creating directory %s: %v", d, err)
	}
	f, err := os.Create(filepath.Join(a.BaseDir, bucket, filepath.FromSlash(key)))
	if err != nil {
		return err
	}
	defer f.Close()

	fin, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fin.Close()
	_, err = io.Copy(f, fin)
	return err
}

func (a *LocalConn) DeleteObjects(bucket string, keys []string) error {
	for _, k := range keys {
		err := os.Remove(filepath.Join(a.BaseDir, bucket, filepath.FromSlash(k)))
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *LocalConn) GetLogger() zerolog.Logger {
	return a.Logger
}

// Log records an item with the Logger. Arguments are handled as with
// fmt.Sprintln.
func (a *LocalConn) Log(v ...interface{}) {
	a.Logger.Info().Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}
