// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// lscorpus lists the corpora held in storage.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"rescribe.xyz/fundusprep"
)

const usage = `Usage: lscorpus [-c conn]

Lists the corpora in the raw and preprocessed storage buckets, with
the number of files in each and the date of the most recent upload,
oldest first.
`

type LsStorager interface {
	Init() error
	ListObjectPrefixes(bucket string) ([]string, error)
	ListObjectsWithMeta(bucket string, prefix string) ([]fundusprep.ObjMeta, error)
	RawStorageId() string
	ProcStorageId() string
}

type corpusInfo struct {
	name  string
	files int
	date  time.Time
}

// lsBucket prints the corpora in a bucket, with file counts and the
// date of the newest file, sorted oldest first
func lsBucket(conn LsStorager, bucket string) error {
	prefixes, err := conn.ListObjectPrefixes(bucket)
	if err != nil {
		return fmt.Errorf("Failed to list prefixes in %s: %v", bucket, err)
	}

	var corpora []corpusInfo
	for _, p := range prefixes {
		objs, err := conn.ListObjectsWithMeta(bucket, p)
		if err != nil {
			return fmt.Errorf("Failed to list objects for %s: %v", p, err)
		}
		var latest time.Time
		for _, o := range objs {
			if o.Date.After(latest) {
				latest = o.Date
			}
		}
		corpora = append(corpora, corpusInfo{
			name:  strings.TrimSuffix(p, "/"),
			files: len(objs),
			date:  latest,
		})
	}

	sort.Slice(corpora, func(i, j int) bool { return corpora[i].date.Before(corpora[j].date) })
	for _, c := range corpora {
		fmt.Printf("%s  %d files  %s\n", c.name, c.files, c.date.Format("2006-01-02 15:04"))
	}
	if len(corpora) == 0 {
		fmt.Println("(none)")
	}
	return nil
}

func main() {
	conntype := flag.String("c", "aws", "connection type ('aws' or 'local')")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 0 {
		flag.Usage()
		return
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()

	var conn LsStorager
	switch *conntype {
	case "aws":
		conn = &fundusprep.AwsConn{Logger: logger}
	case "local":
		conn = &fundusprep.LocalConn{Logger: logger}
	default:
		log.Fatalln("Unknown connection type")
	}
	err := conn.Init()
	if err != nil {
		log.Fatalln("Failed to set up connection:", err)
	}

	fmt.Println("Raw corpora:")
	err = lsBucket(conn, conn.RawStorageId())
	if err != nil {
		log.Fatalln(err)
	}

	fmt.Println("\nPreprocessed corpora:")
	err = lsBucket(conn, conn.ProcStorageId())
	if err != nil {
		log.Fatalln(err)
	}
}
