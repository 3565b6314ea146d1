// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

/*
The fundusprep package contains tools and functions to normalise fundus
photographs before they are used to train a grading model. It trims
the near-black margins which are typical of fundus photography, resizes
each image onto a fixed size square canvas without distorting it, and
enhances local contrast, so that a whole corpus ends up in a uniform
shape suitable for model consumption.

Introduction

A fundus corpus is a directory containing one subdirectory per grade
("0" to "5" by default), each holding .png, .jpg or .jpeg photographs.
The preprocessed corpus mirrors that layout under a separate root, with
filenames preserved, so the downstream trainer can be pointed at it
directly.

All of the tools provided in the fundusprep package will give
information on what they do and how they work with the '-h' flag, so
for example to get usage information on the fundusprep tool simply run
the following:
  fundusprep -h

Preprocessing a corpus

The fundusprep command does the actual work. It processes one corpus
tree into another, skipping any image whose output already exists, so
an interrupted run can simply be restarted:
  fundusprep rawcorpus/ preppedcorpus/

The per-image processing time can be graphed, which is useful to spot
pathological inputs in a large corpus:
  fundusprep -graph times.png rawcorpus/ preppedcorpus/

Storing corpora remotely

Corpora can be kept in S3 rather than on the processing machine. The
corpustopipeline tool validates and uploads a raw corpus, the getcorpus
tool downloads a named corpus again, and the lscorpus tool lists what
is in storage; all take '-c local' to use a local directory in place of
S3, which is particularly useful for testing. To get the S3
functionality to work for you, you'll need to change the bucket
settings in cloudsettings.go, set up your ~/.aws/credentials
appropriately, and run the mkstorage tool once to create the buckets.
  mkstorage
  corpustopipeline rawcorpus/ train2024
  getcorpus train2024 rawcorpus/
  lscorpus

Reviewing results

The contactsheet tool builds a PDF with one page per preprocessed
image, captioned with grade and filename, to make visual checking of a
preprocessing run less painful:
  contactsheet -o review.pdf preppedcorpus/
*/
package fundusprep
