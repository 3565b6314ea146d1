// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// contactsheet builds a PDF from a preprocessed corpus, one image
// per page with its label and file name as a caption, for quickly
// eyeballing the results of a preprocessing run.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"rescribe.xyz/fundusprep"
	"rescribe.xyz/fundusprep/internal/pipeline"
)

const usage = `Usage: contactsheet [-o file] [-labels l,l,...] dir

Creates a PDF containing every image in the label subdirectories
of dir, one per page, captioned with its label and file name. This
is a quick way to review the output of a preprocessing run.
`

func main() {
	out := flag.String("o", "contactsheet.pdf", "File name to save the PDF to")
	labels := flag.String("labels", "", "Comma separated label subdirectories to include (default \"0,1,2,3,4,5\")")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		return
	}
	dir := flag.Arg(0)

	labellist := pipeline.DefaultLabels
	if *labels != "" {
		labellist = strings.Split(*labels, ",")
	}

	pdf := new(fundusprep.Fpdf)
	err := pdf.Setup()
	if err != nil {
		log.Fatalln("Failed to set up PDF:", err)
	}

	added := 0
	for _, label := range labellist {
		labeldir := filepath.Join(dir, label)
		files, err := os.ReadDir(labeldir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			log.Fatalln("Failed to read directory", labeldir, err)
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(f.Name()))
			if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
				continue
			}
			path := filepath.Join(labeldir, f.Name())
			err = pdf.AddPage(path, label+"/"+f.Name())
			if err != nil {
				log.Fatalln("Failed to add page:", err)
			}
			added++
		}
	}
	if added == 0 {
		log.Fatalln("No images found in", dir)
	}

	err = pdf.Save(*out)
	if err != nil {
		log.Fatalln("Failed to save PDF:", err)
	}

	fmt.Println("Saved", added, "pages to", *out)
}
