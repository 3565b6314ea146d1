// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// mkstorage sets up the necessary storage buckets for the fundus
// corpus tools. It needs to be run once before corpustopipeline can
// upload anything to a fresh account.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rs/zerolog"

	"rescribe.xyz/fundusprep"
)

const usage = `Usage: mkstorage [-c conn]

Sets up the raw and preprocessed storage buckets used by the fundus
corpus tools.
`

type MkStorager interface {
	MinimalInit() error
	MkStorage() error
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

	var conn MkStorager
	switch *conntype {
	case "aws":
		conn = &fundusprep.AwsConn{Logger: logger}
	case "local":
		conn = &fundusprep.LocalConn{Logger: logger}
	default:
		log.Fatalln("Unknown connection type")
	}
	err := conn.MinimalInit()
	if err != nil {
		log.Fatalln("Failed to set up connection:", err)
	}

	err = conn.MkStorage()
	if err != nil {
		log.Fatalln("MkStorage failed:", err)
	}
}
