// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package cz

import (
	"image/color"
	"io"

	"github.com/G2-Games/lbee-utils/errs"
	"github.com/G2-Games/lbee-utils/imaging"
	"github.com/G2-Games/lbee-utils/lzw"
)

// expandToRGBA converts a decompressed, depth-native payload into a
// width*height*4 RGBA bitmap, per section 4.7's decode-side depth table.
func expandToRGBA(payload []byte, depth uint16, palette []color.RGBA, width, height int) ([]byte, error) {
	switch depth {
	case 4:
		return nil, errs.ErrUnsupportedDepth
	case 8:
		if palette == nil {
			return nil, &errs.PaletteError{Reason: "depth 8 payload has no palette"}
		}
		return imaging.ExpandIndexed(payload, palette)
	case 24:
		return imaging.ExpandRGB24(payload, width, height), nil
	case 32:
		return payload, nil
	default:
		return nil, &errs.CorruptError{Reason: "unsupported pixel depth"}
	}
}

// packFromRGBA is the encode-side inverse of expandToRGBA. For depth 8 it
// reindexes against the provided (already generated or cached) palette.
func packFromRGBA(rgba []byte, depth uint16, palette []color.RGBA, width, height int) ([]byte, error) {
	switch depth {
	case 4:
		return nil, errs.ErrUnsupportedDepth
	case 8:
		if palette == nil {
			return nil, &errs.PaletteError{Reason: "depth 8 encode requires a palette"}
		}
		return imaging.Reindex(rgba, palette), nil
	case 24:
		return imaging.PackRGB24(rgba, width, height), nil
	case 32:
		return rgba, nil
	default:
		return nil, &errs.CorruptError{Reason: "unsupported pixel depth"}
	}
}

// nativeSize is the byte length of one frame in the payload's native
// (pre-expansion) depth, before any CZ4 plane interleaving.
func nativeSize(width, height int, depth uint16) int {
	return width * height * int(depth/8)
}

// decodeChunked reads a chunk-info table followed by its compressed
// chunks from r, decompressing with the given LZW variant.
func decodeChunked(r io.Reader, useB bool) ([]byte, error) {
	chunks, err := lzw.ReadChunkTable(r)
	if err != nil {
		return nil, err
	}
	if useB {
		return lzw.DecodeB(r, chunks)
	}
	return lzw.DecodeA(r, chunks)
}

// encodeChunked compresses raw with the given LZW variant and writes its
// chunk-info table followed by the compressed chunks to w.
func encodeChunked(w io.Writer, raw []byte, useB bool) error {
	var chunks []lzw.Chunk
	var compressed []byte
	if useB {
		chunks, compressed = lzw.EncodeB(raw, lzw.DefaultBudgetB)
	} else {
		chunks, compressed = lzw.EncodeA(raw, lzw.DefaultBudgetA)
	}
	if err := lzw.WriteChunkTable(w, chunks); err != nil {
		return err
	}
	_, err := w.Write(compressed)
	return err
}

// decodePayload dispatches to the version-specific payload decoder,
// returning a normalized width*height*4 RGBA bitmap.
func decodePayload(r io.Reader, v Version, width, height int, depth uint16, palette []color.RGBA) ([]byte, error) {
	switch v {
	case CZ0:
		want := nativeSize(width, height, depth)
		raw := make([]byte, want)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, &errs.CorruptError{Reason: "CZ0 payload shorter than declared dimensions"}
		}
		return expandToRGBA(raw, depth, palette, width, height)

	case CZ1:
		raw, err := decodeChunked(r, false)
		if err != nil {
			return nil, err
		}
		if len(raw) != nativeSize(width, height, depth) {
			return nil, &errs.CorruptError{Reason: "CZ1 decompressed size mismatch"}
		}
		return expandToRGBA(raw, depth, palette, width, height)

	case CZ2:
		raw, err := decodeChunked(r, true)
		if err != nil {
			return nil, err
		}
		if len(raw) != nativeSize(width, height, depth) {
			return nil, &errs.CorruptError{Reason: "CZ2 decompressed size mismatch"}
		}
		return expandToRGBA(raw, depth, palette, width, height)

	case CZ3:
		raw, err := decodeChunked(r, false)
		if err != nil {
			return nil, err
		}
		stride := width * int(depth/8)
		if len(raw) != stride*height {
			return nil, &errs.CorruptError{Reason: "CZ3 decompressed size mismatch"}
		}
		raw = imaging.Inverse(raw, stride, height)
		return expandToRGBA(raw, depth, palette, width, height)

	case CZ4:
		raw, err := decodeChunked(r, false)
		if err != nil {
			return nil, err
		}
		if len(raw) != width*height*4 {
			return nil, &errs.CorruptError{Reason: "CZ4 decompressed size mismatch"}
		}
		rgb, alpha := imaging.SplitPlanes(raw, width, height)
		rgb = imaging.Inverse(rgb, width*3, height)
		alpha = imaging.Inverse(alpha, width, height)
		return imaging.CombineRGBA(rgb, alpha, width, height), nil

	case CZ5:
		return nil, errs.ErrUnimplementedVersion

	default:
		return nil, &errs.InvalidVersionError{Value: byte(v)}
	}
}

// encodePayload is the inverse of decodePayload: it consumes a
// width*height*4 RGBA bitmap and writes the version-specific payload.
func encodePayload(w io.Writer, v Version, rgba []byte, width, height int, depth uint16, palette []color.RGBA) error {
	switch v {
	case CZ0:
		raw, err := packFromRGBA(rgba, depth, palette, width, height)
		if err != nil {
			return err
		}
		_, err = w.Write(raw)
		return err

	case CZ1:
		raw, err := packFromRGBA(rgba, depth, palette, width, height)
		if err != nil {
			return err
		}
		return encodeChunked(w, raw, false)

	case CZ2:
		raw, err := packFromRGBA(rgba, depth, palette, width, height)
		if err != nil {
			return err
		}
		return encodeChunked(w, raw, true)

	case CZ3:
		raw, err := packFromRGBA(rgba, depth, palette, width, height)
		if err != nil {
			return err
		}
		stride := width * int(depth/8)
		raw = imaging.Forward(raw, stride, height)
		return encodeChunked(w, raw, false)

	case CZ4:
		rgb, alpha := imaging.SplitRGBA(rgba, width, height)
		rgb = imaging.Forward(rgb, width*3, height)
		alpha = imaging.Forward(alpha, width, height)
		raw := imaging.CombinePlanes(rgb, alpha)
		return encodeChunked(w, raw, false)

	case CZ5:
		return errs.ErrUnimplementedVersion

	default:
		return &errs.InvalidVersionError{Value: byte(v)}
	}
}
