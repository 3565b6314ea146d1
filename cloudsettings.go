// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package fundusprep

// This file contains various cloud account specific stuff; change this if
// you want to use the cloud functionality on your own site.

// Storage bucket names. The raw bucket holds corpora as uploaded,
// the proc bucket holds their preprocessed counterparts.
const (
	storageRaw  = "fundusraw"
	storageProc = "funduspreprocessed"
)

// Default AWS region, used unless AwsConn.Region is set.
const defaultAwsRegion = `eu-west-2`
