// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package imaging

import (
	"bytes"
	"image/color"
	"testing"

	"golang.org/x/image/draw"

	"github.com/G2-Games/lbee-utils/internal/testimg"
)

var _ draw.Quantizer = medianCutQuantizer{}

// fewColorBitmap builds a width*height RGBA bitmap drawn from at most
// numColors distinct, fully opaque colors; with numColors <= 256,
// GeneratePalette never needs to discard information by quantizing.
func fewColorBitmap(seed, width, height, numColors int) []byte {
	return testimg.FewColorRGBA(seed, width, height, numColors)
}

// TestGeneratePaletteRoundTrip exercises property P5: for a bitmap whose
// unique RGBA colors number at most 256, ExpandIndexed(Reindex(B, P), P)
// reproduces B exactly.
func TestGeneratePaletteRoundTrip(t *testing.T) {
	cases := []struct {
		name                  string
		width, height, colors int
	}{
		{"single-color", 4, 4, 1},
		{"few-colors", 16, 16, 5},
		{"sixteen-colors", 20, 20, 16},
		{"exactly-256", 64, 64, 256},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rgba := fewColorBitmap(len(c.name), c.width, c.height, c.colors)
			indices, palette := GeneratePalette(rgba, c.width, c.height, MaxPaletteColors)

			if len(palette) != MaxPaletteColors {
				t.Fatalf("palette has %d entries, want %d", len(palette), MaxPaletteColors)
			}
			if len(indices) != c.width*c.height {
				t.Fatalf("indices has %d entries, want %d", len(indices), c.width*c.height)
			}

			got, err := ExpandIndexed(indices, palette)
			if err != nil {
				t.Fatalf("ExpandIndexed: %v", err)
			}
			if !bytes.Equal(got, rgba) {
				t.Fatalf("round trip mismatch for %s", c.name)
			}
		})
	}
}

func TestExpandIndexedOutOfRange(t *testing.T) {
	palette := make([]color.RGBA, 4)
	_, err := ExpandIndexed([]byte{0, 1, 5}, palette)
	if err == nil {
		t.Fatalf("expected an error for an out-of-range index")
	}
}

func TestReindexUnmatchedFallsBackToZero(t *testing.T) {
	palette := []color.RGBA{
		{R: 10, G: 20, B: 30, A: 255},
		{R: 40, G: 50, B: 60, A: 255},
	}
	rgba := []byte{
		10, 20, 30, 255, // matches index 0
		40, 50, 60, 255, // matches index 1
		1, 2, 3, 255, // matches nothing
	}
	got := Reindex(rgba, palette)
	want := []byte{0, 1, 0}
	if !bytes.Equal(got, want) {
		t.Fatalf("Reindex = %v, want %v", got, want)
	}
}

func TestGeneratePaletteQuantizesOverBudget(t *testing.T) {
	width, height := 32, 32
	rgba := fewColorBitmap(42, width, height, 300)
	indices, palette := GeneratePalette(rgba, width, height, 64)

	if len(palette) != MaxPaletteColors {
		t.Fatalf("palette has %d entries, want %d", len(palette), MaxPaletteColors)
	}
	for _, idx := range indices {
		if int(idx) >= 64 {
			// Only the first 64 entries should ever be referenced; the
			// rest are transparent-black padding.
			t.Fatalf("index %d exceeds quantizer budget of 64", idx)
		}
	}
	for i := 64; i < MaxPaletteColors; i++ {
		if palette[i] != (color.RGBA{}) {
			t.Fatalf("padding entry %d = %+v, want zero value", i, palette[i])
		}
	}
}
