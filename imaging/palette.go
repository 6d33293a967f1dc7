// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package imaging

import (
	"image"
	"image/color"
	"sort"

	"golang.org/x/image/draw"

	"github.com/G2-Games/lbee-utils/errs"
)

// MaxPaletteColors is the largest palette this package ever produces; CZ#
// depths of 8 bits or fewer can address at most 256 distinct indices.
const MaxPaletteColors = 256

// ExpandIndexed looks up each byte in indices against palette, producing
// an RGBA bitmap four times as long. An index with no matching palette
// entry is a PaletteError.
func ExpandIndexed(indices []byte, palette []color.RGBA) ([]byte, error) {
	out := make([]byte, len(indices)*4)
	for i, idx := range indices {
		if int(idx) >= len(palette) {
			return nil, &errs.PaletteError{Reason: "index out of range"}
		}
		c := palette[idx]
		out[i*4+0] = c.R
		out[i*4+1] = c.G
		out[i*4+2] = c.B
		out[i*4+3] = c.A
	}
	return out, nil
}

// Reindex maps each RGBA pixel in rgba to the index of its first matching
// entry in palette, keeping a small pixel->index cache so repeated colors
// are only searched once. Pixels with no matching entry fall back to
// index 0, per section 4.6.
func Reindex(rgba []byte, palette []color.RGBA) []byte {
	n := len(rgba) / 4
	out := make([]byte, n)
	cache := make(map[[4]byte]byte, len(palette))

	for i := 0; i < n; i++ {
		var key [4]byte
		copy(key[:], rgba[i*4:i*4+4])

		idx, ok := cache[key]
		if !ok {
			idx = 0
			for p, c := range palette {
				if c.R == key[0] && c.G == key[1] && c.B == key[2] && c.A == key[3] {
					idx = byte(p)
					break
				}
			}
			cache[key] = idx
		}
		out[i] = idx
	}
	return out
}

// GeneratePalette produces an indexed representation of rgba (width x
// height pixels) using a median-cut quantizer capped at maxColors
// distinct entries, padded with transparent black up to 256 entries.
// Each pixel is indexed to the nearest quantized entry. The
// quantizer is deterministic: no dithering is performed, so the result is
// stable across runs, as section 4.6 requires for round-trip testing.
func GeneratePalette(rgba []byte, width, height, maxColors int) (indices []byte, palette []color.RGBA) {
	if maxColors <= 0 || maxColors > MaxPaletteColors {
		maxColors = MaxPaletteColors
	}

	img := &image.NRGBA{
		Pix:    rgba,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}

	q := medianCutQuantizer{maxColors: maxColors}
	pal := q.Quantize(make(color.Palette, 0, maxColors), img)

	palette = make([]color.RGBA, len(pal))
	for i, c := range pal {
		r, g, b, a := c.RGBA()
		palette[i] = color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
	}
	for len(palette) < MaxPaletteColors {
		palette = append(palette, color.RGBA{})
	}

	// Map each pixel to its nearest quantizer entry (exact matches resolve
	// to the first identical entry, as in Reindex).
	indices = make([]byte, len(rgba)/4)
	cache := make(map[color.RGBA]byte)
	for i := range indices {
		px := color.RGBA{R: rgba[i*4+0], G: rgba[i*4+1], B: rgba[i*4+2], A: rgba[i*4+3]}
		idx, ok := cache[px]
		if !ok {
			idx = byte(pal.Index(px))
			cache[px] = idx
		}
		indices[i] = idx
	}
	return indices, palette
}

// medianCutQuantizer implements draw.Quantizer with a median-cut
// algorithm over the RGBA cube, splitting the box with the most pixels
// along its longest axis until maxColors boxes exist.
//
// It satisfies golang.org/x/image/draw.Quantizer so palette generation
// composes with the standard Go imaging pipeline, though this package
// never routes pixels through draw.Draw itself (dithering is explicitly
// avoided; see GeneratePalette).
type medianCutQuantizer struct {
	maxColors int
}

var _ draw.Quantizer = medianCutQuantizer{}

type colorBox struct {
	pixels [][4]int32 // r, g, b, a
}

func (b *colorBox) bounds() (min, max [4]int32) {
	min = [4]int32{1 << 30, 1 << 30, 1 << 30, 1 << 30}
	max = [4]int32{-1 << 30, -1 << 30, -1 << 30, -1 << 30}
	for _, p := range b.pixels {
		for c := 0; c < 4; c++ {
			if p[c] < min[c] {
				min[c] = p[c]
			}
			if p[c] > max[c] {
				max[c] = p[c]
			}
		}
	}
	return min, max
}

func (b *colorBox) longestAxis() int {
	min, max := b.bounds()
	axis, spread := 0, int32(-1)
	for c := 0; c < 4; c++ {
		if s := max[c] - min[c]; s > spread {
			axis, spread = c, s
		}
	}
	return axis
}

func (b *colorBox) average() color.RGBA {
	var sum [4]int64
	for _, p := range b.pixels {
		for c := 0; c < 4; c++ {
			sum[c] += int64(p[c])
		}
	}
	n := int64(len(b.pixels))
	if n == 0 {
		return color.RGBA{}
	}
	return color.RGBA{
		R: uint8(sum[0] / n),
		G: uint8(sum[1] / n),
		B: uint8(sum[2] / n),
		A: uint8(sum[3] / n),
	}
}

// Quantize implements draw.Quantizer. The incoming palette p is ignored
// aside from its capacity hint; the returned palette always has at most
// q.maxColors entries, built purely from m's pixels.
func (q medianCutQuantizer) Quantize(p color.Palette, m image.Image) color.Palette {
	bounds := m.Bounds()
	seen := make(map[[4]int32]bool)
	var unique []([4]int32)

	// image.NRGBA stores straight (non-premultiplied) alpha, but its
	// Color.RGBA() still premultiplies for the color.Color interface,
	// which loses precision for translucent pixels. Read Pix directly
	// when possible so the quantizer sees exact bytes.
	if nrgba, ok := m.(*image.NRGBA); ok {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			row := nrgba.Pix[(y-bounds.Min.Y)*nrgba.Stride:]
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				i := (x - bounds.Min.X) * 4
				px := [4]int32{int32(row[i]), int32(row[i+1]), int32(row[i+2]), int32(row[i+3])}
				if !seen[px] {
					seen[px] = true
					unique = append(unique, px)
				}
			}
		}
	} else {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, a := m.At(x, y).RGBA()
				px := [4]int32{int32(r >> 8), int32(g >> 8), int32(b >> 8), int32(a >> 8)}
				if !seen[px] {
					seen[px] = true
					unique = append(unique, px)
				}
			}
		}
	}

	if len(unique) <= q.maxColors {
		pal := make(color.Palette, len(unique))
		for i, px := range unique {
			pal[i] = color.RGBA{R: uint8(px[0]), G: uint8(px[1]), B: uint8(px[2]), A: uint8(px[3])}
		}
		return pal
	}

	boxes := []*colorBox{{pixels: unique}}
	for len(boxes) < q.maxColors {
		// Split the box with the most pixels along its longest axis.
		splitIdx, splitSize := -1, -1
		for i, b := range boxes {
			if len(b.pixels) > 1 && len(b.pixels) > splitSize {
				splitIdx, splitSize = i, len(b.pixels)
			}
		}
		if splitIdx < 0 {
			break // every remaining box is a single color, nothing left to split
		}

		b := boxes[splitIdx]
		axis := b.longestAxis()
		sort.Slice(b.pixels, func(i, j int) bool { return b.pixels[i][axis] < b.pixels[j][axis] })
		mid := len(b.pixels) / 2

		left := &colorBox{pixels: append([][4]int32(nil), b.pixels[:mid]...)}
		right := &colorBox{pixels: append([][4]int32(nil), b.pixels[mid:]...)}

		boxes[splitIdx] = left
		boxes = append(boxes, right)
	}

	pal := make(color.Palette, len(boxes))
	for i, b := range boxes {
		pal[i] = b.average()
	}
	return pal
}
