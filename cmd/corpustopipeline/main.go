// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// corpustopipeline uploads a labelled corpus of fundus photographs
// to storage so it can be preprocessed elsewhere.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"rescribe.xyz/fundusprep"
	"rescribe.xyz/fundusprep/internal/pipeline"
)

const usage = `Usage: corpustopipeline [-c conn] [-v] corpusdir [corpusname]

Uploads the corpus in corpusdir to the raw storage bucket, keeping
the label subdirectory structure, after checking that every image
in it can be decoded.

If corpusname is omitted the last part of corpusdir is used.
`

func main() {
	verbose := flag.Bool("v", false, "Verbose")
	conntype := flag.String("c", "aws", "connection type ('aws' or 'local')")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		return
	}

	corpusdir := flag.Arg(0)
	var corpusname string
	if flag.NArg() > 1 {
		corpusname = flag.Arg(1)
	} else {
		corpusname = filepath.Base(corpusdir)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
	if !*verbose {
		logger = logger.Level(zerolog.WarnLevel)
	}

	ctx := context.Background()

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

	conn.Log("Checking that all images are valid in", corpusdir)
	err = pipeline.CheckImages(ctx, corpusdir)
	if err != nil {
		log.Fatalln(err)
	}

	conn.Log("Checking that a corpus hasn't already been uploaded with that name")
	list, err := conn.ListObjects(conn.RawStorageId(), corpusname+"/")
	if err != nil {
		log.Fatalln(err)
	}
	if len(list) > 0 {
		log.Fatalf("Error: corpus %s already exists in storage, either delete it or use another name\n", corpusname)
	}

	conn.Log("Uploading corpus", corpusname)
	err = pipeline.UploadCorpus(ctx, corpusdir, corpusname, nil, conn)
	if err != nil {
		log.Fatalln(err)
	}

	fmt.Println("Uploaded", corpusname)
}
