// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// getcorpus downloads a corpus of fundus photographs from storage.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rs/zerolog"

	"rescribe.xyz/fundusprep"
	"rescribe.xyz/fundusprep/internal/pipeline"
)

const usage = `Usage: getcorpus [-c conn] [-proc] [-v] corpusname [dir]

Downloads the named corpus into dir, recreating the label
subdirectory structure. By default the raw corpus is downloaded;
use -proc to get the preprocessed version instead.

If dir is omitted the corpus name is used.
`

func main() {
	verbose := flag.Bool("v", false, "Verbose")
	conntype := flag.String("c", "aws", "connection type ('aws' or 'local')")
	proc := flag.Bool("proc", false, "Download the preprocessed corpus rather than the raw one")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		return
	}

	corpusname := flag.Arg(0)
	dir := corpusname
	if flag.NArg() > 1 {
		dir = flag.Arg(1)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
	if !*verbose {
		logger = logger.Level(zerolog.WarnLevel)
	}

	var conn pipeline.Pipeliner
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

	err = os.MkdirAll(dir, 0755)
	if err != nil {
		log.Fatalln("Failed to create directory", dir, err)
	}

	bucket := conn.RawStorageId()
	if *proc {
		bucket = conn.ProcStorageId()
	}

	err = pipeline.DownloadCorpus(dir, corpusname, bucket, conn)
	if err != nil {
		log.Fatalln(err)
	}

	fmt.Println("Downloaded", corpusname, "to", dir)
}
