// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package lzw implements the two dictionary-based codecs used by the CZ#
// payload formats (LZW-A and LZW-B) and the chunked compression envelope
// they are framed in.
//
// LZW-A emits u16 code words and is used by CZ1/CZ3/CZ4. LZW-B emits
// variable-width 15- or 18-bit codes selected by a leading flag bit, and is
// used by CZ2. Both share a conventional dictionary-of-byte-strings LZW
// scheme; the original reference decoder used a recursive back-reference
// copier instead, which this package deliberately does not reproduce (see
// DESIGN.md).
package lzw

import (
	"encoding/binary"
	"io"

	"github.com/G2-Games/lbee-utils/errs"
)

// Chunk describes one independently coded segment of a payload. The
// meaning of CompressedSize is codec-specific: CodecA counts 16-bit words,
// CodecB counts bytes.
type Chunk struct {
	CompressedSize int
	RawSize        int
}

// ReadChunkTable reads a u32 chunk count followed by that many
// (size_compressed, size_raw) u32 pairs.
func ReadChunkTable(r io.Reader) ([]Chunk, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	count := binary.LittleEndian.Uint32(hdr[:])

	chunks := make([]Chunk, count)
	var rec [8]byte
	for i := range chunks {
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			return nil, err
		}
		chunks[i] = Chunk{
			CompressedSize: int(binary.LittleEndian.Uint32(rec[0:4])),
			RawSize:        int(binary.LittleEndian.Uint32(rec[4:8])),
		}
	}
	return chunks, nil
}

// WriteChunkTable writes chunks in the on-disk layout ReadChunkTable
// expects.
func WriteChunkTable(w io.Writer, chunks []Chunk) error {
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(chunks)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	for _, c := range chunks {
		var rec [8]byte
		binary.LittleEndian.PutUint32(rec[0:4], uint32(c.CompressedSize))
		binary.LittleEndian.PutUint32(rec[4:8], uint32(c.RawSize))
		if _, err := w.Write(rec[:]); err != nil {
			return err
		}
	}
	return nil
}

// applyChunkQuirk implements the section 4.4 on-disk fingerprint: when a
// payload is split into 2 or more chunks, the first chunk's recorded
// size_raw is decreased by 1 and the last chunk's is increased by 1. The
// sum over all chunks is unaffected.
func applyChunkQuirk(chunks []Chunk) {
	if len(chunks) < 2 {
		return
	}
	chunks[0].RawSize--
	chunks[len(chunks)-1].RawSize++
}

// totalRawSize sums RawSize across chunks. DecodeA and DecodeB use it only
// to pre-size their output buffer; they do not check the decoded length
// against it.
func totalRawSize(chunks []Chunk) int {
	var n int
	for _, c := range chunks {
		n += c.RawSize
	}
	return n
}

func corrupt(reason string) {
	panic(&errs.CorruptError{Reason: reason})
}
