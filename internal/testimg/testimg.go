// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package testimg

// RandomBytes returns n deterministic pseudo-random bytes seeded by seed,
// for tests that need raw byte matrices (line-diff planes, arbitrary
// strides) rather than a 4-channel RGBA bitmap.
func RandomBytes(seed, n int) []byte {
	return newRand(seed).bytes(n)
}

// RandomRGBA returns a deterministic width*height*4 RGBA bitmap with every
// channel of every pixel independently random, seeded by seed. Used to
// exercise the full-fidelity round trip (CZ0/depth-32 and line-diff
// invertibility) where no palette constraint applies.
func RandomRGBA(seed, width, height int) []byte {
	r := newRand(seed)
	return r.bytes(width * height * 4)
}

// FewColorRGBA returns a deterministic bitmap drawn from only numColors
// distinct, fully-opaque colors, arranged in a seeded per-pixel choice. Used
// to exercise palette generation (S4.6) and depth-8 round trips, where the
// input must actually fit within the requested palette budget.
func FewColorRGBA(seed, width, height, numColors int) []byte {
	if numColors < 1 {
		numColors = 1
	}
	r := newRand(seed)
	palette := make([][4]byte, numColors)
	for i := range palette {
		c := r.bytes(3)
		palette[i] = [4]byte{c[0], c[1], c[2], 0xFF}
	}

	out := make([]byte, width*height*4)
	for i := 0; i < width*height; i++ {
		c := palette[r.intn(numColors)]
		copy(out[i*4:i*4+4], c[:])
	}
	return out
}

// GradientRGBA returns a bitmap whose rows vary smoothly (a simple linear
// ramp plus a small seeded per-row perturbation), fully opaque. Line-diff
// filtering (S4.5) is most exercised by data with row-to-row correlation,
// unlike RandomRGBA's independent pixels. Such data compresses well, so it
// does not by itself push a payload past one LZW chunk.
func GradientRGBA(seed, width, height int) []byte {
	r := newRand(seed)
	out := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		base := byte((y * 255) / max(height-1, 1))
		jitter := r.bytes(3)
		for x := 0; x < width; x++ {
			i := (y*width + x) * 4
			out[i+0] = base + jitter[0]%8
			out[i+1] = base + jitter[1]%8
			out[i+2] = base + jitter[2]%8
			out[i+3] = 0xFF
		}
	}
	return out
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
