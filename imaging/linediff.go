// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package imaging implements the reversible row predictor used by CZ3 and
// CZ4 (Forward/Inverse) and the palette helpers used by every
// indexed-color CZ# version (ExpandIndexed, Reindex, GeneratePalette).
package imaging

// blockHeightDivisor is the canonical block-height divisor picked by
// spec.md's Open Questions resolution: the original reference decoder
// uses the header's color_block byte in one code path and the constant 3
// in another. This implementation always uses 3, on both encode and
// decode, per that resolution.
const blockHeightDivisor = 3

// BlockHeight returns ceil(height / blockHeightDivisor), at least 1.
func BlockHeight(height int) int {
	bh := (height + blockHeightDivisor - 1) / blockHeightDivisor
	if bh < 1 {
		bh = 1
	}
	return bh
}

// Forward applies the line-diff predictor to data, a height-row bitmap
// with the given row stride in bytes (len(data) must equal stride*height).
// Every row except the first row of each block is replaced by its
// byte-wise difference (wrapping) from the preceding row of the original,
// undiffed bitmap.
func Forward(data []byte, stride, height int) []byte {
	out := make([]byte, len(data))
	bh := BlockHeight(height)
	for y := 0; y < height; y++ {
		row := data[y*stride : (y+1)*stride]
		dst := out[y*stride : (y+1)*stride]
		if y%bh == 0 {
			copy(dst, row)
			continue
		}
		prev := data[(y-1)*stride : y*stride]
		for x := 0; x < stride; x++ {
			dst[x] = row[x] - prev[x]
		}
	}
	return out
}

// Inverse reverses Forward: every row except the first row of each block
// is reconstructed by adding the preceding, already-reconstructed row
// (wrapping).
func Inverse(data []byte, stride, height int) []byte {
	out := make([]byte, len(data))
	bh := BlockHeight(height)
	for y := 0; y < height; y++ {
		row := data[y*stride : (y+1)*stride]
		dst := out[y*stride : (y+1)*stride]
		if y%bh == 0 {
			copy(dst, row)
			continue
		}
		prev := out[(y-1)*stride : y*stride]
		for x := 0; x < stride; x++ {
			dst[x] = row[x] + prev[x]
		}
	}
	return out
}

// SplitPlanes divides a decompressed CZ4 payload into its RGB plane
// (stride 3, width*height*3 bytes) and alpha plane (stride 1, width*height
// bytes), the layout section 4.5's CZ4 variant describes.
func SplitPlanes(data []byte, width, height int) (rgb, alpha []byte) {
	n := width * height
	rgb = data[:n*3]
	alpha = data[n*3 : n*3+n]
	return rgb, alpha
}

// CombinePlanes is the inverse of SplitPlanes, concatenating an RGB plane
// then an alpha plane into one buffer ready for compression.
func CombinePlanes(rgb, alpha []byte) []byte {
	out := make([]byte, len(rgb)+len(alpha))
	copy(out, rgb)
	copy(out[len(rgb):], alpha)
	return out
}

// CombineRGBA interleaves a width*height*3 RGB plane and a width*height
// alpha plane into a width*height*4 RGBA bitmap.
func CombineRGBA(rgb, alpha []byte, width, height int) []byte {
	n := width * height
	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		out[i*4+0] = rgb[i*3+0]
		out[i*4+1] = rgb[i*3+1]
		out[i*4+2] = rgb[i*3+2]
		out[i*4+3] = alpha[i]
	}
	return out
}

// SplitRGBA is the inverse of CombineRGBA.
func SplitRGBA(rgba []byte, width, height int) (rgb, alpha []byte) {
	n := width * height
	rgb = make([]byte, n*3)
	alpha = make([]byte, n)
	for i := 0; i < n; i++ {
		rgb[i*3+0] = rgba[i*4+0]
		rgb[i*3+1] = rgba[i*4+1]
		rgb[i*3+2] = rgba[i*4+2]
		alpha[i] = rgba[i*4+3]
	}
	return rgb, alpha
}

// ExpandRGB24 expands a 3-byte-per-pixel (R,G,B) bitmap to RGBA with a
// fully opaque (0xFF) alpha channel.
func ExpandRGB24(data []byte, width, height int) []byte {
	n := width * height
	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		out[i*4+0] = data[i*3+0]
		out[i*4+1] = data[i*3+1]
		out[i*4+2] = data[i*3+2]
		out[i*4+3] = 0xFF
	}
	return out
}

// PackRGB24 is the inverse of ExpandRGB24, dropping the alpha channel.
func PackRGB24(rgba []byte, width, height int) []byte {
	n := width * height
	out := make([]byte, n*3)
	for i := 0; i < n; i++ {
		out[i*3+0] = rgba[i*4+0]
		out[i*3+1] = rgba[i*4+1]
		out[i*3+2] = rgba[i*4+2]
	}
	return out
}
