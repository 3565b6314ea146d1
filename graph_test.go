// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package fundusprep

import (
	"bytes"
	"fmt"
	"testing"
)

func TestGraph(t *testing.T) {
	t.Run("toofew", func(t *testing.T) {
		var b bytes.Buffer
		err := Graph([]ProcTime{{Path: "only.png", Millis: 12}}, "test", &b)
		if err == nil {
			t.Fatalf("Expected error for a single time, got none")
		}
	})

	t.Run("basic", func(t *testing.T) {
		var times []ProcTime
		for i := 0; i < 100; i++ {
			times = append(times, ProcTime{
				Path:   fmt.Sprintf("img%03d.png", i),
				Millis: 50 + float64(i%7)*3,
			})
		}
		// one pathological image the annotations should pick up
		times[42].Millis = 400

		var b bytes.Buffer
		err := Graph(times, "test", &b)
		if err != nil {
			t.Fatalf("Graph failed: %v", err)
		}

		pngsig := []byte{0x89, 'P', 'N', 'G'}
		if b.Len() < len(pngsig) || !bytes.Equal(b.Bytes()[0:4], pngsig) {
			t.Fatalf("Graph did not produce a PNG")
		}
	})
}
