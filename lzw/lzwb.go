// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lzw

import (
	"io"

	"github.com/G2-Games/lbee-utils/bitio"
)

const (
	// maxDictSizeB is the largest dictionary CodecB can address: the
	// widest code it emits is 18 bits (section 4.3).
	maxDictSizeB = 1 << 18

	// codeWidthThreshold is the boundary between a 15-bit and an 18-bit
	// code: values above it need the wider encoding.
	codeWidthThreshold = 0x7FFF

	// DefaultBudgetB is the reference encoder's per-chunk byte budget for
	// CodecB (section 4.3).
	DefaultBudgetB = 0x87BDF

	// sentinelByte is the forced leading byte of every CodecB chunk; the
	// encoder always writes 0x00 here and the decoder ignores it.
	sentinelByte = 0x00
)

type sinkB struct {
	w      *bitio.Writer
	budget int
}

func newSinkB(budget int) chunkSink {
	w := bitio.NewWriter()
	w.WriteBits(sentinelByte, 8)
	return &sinkB{w: w, budget: budget}
}

func (s *sinkB) emit(code int) {
	if code <= codeWidthThreshold {
		s.w.WriteBits(0, 1)
		s.w.WriteBits(uint64(code), 15)
	} else {
		s.w.WriteBits(1, 1)
		s.w.WriteBits(uint64(code), 18)
	}
}

func (s *sinkB) full() bool    { return s.w.ByteSize() >= s.budget }
func (s *sinkB) size() int     { return s.w.ByteSize() }
func (s *sinkB) bytes() []byte { return s.w.Bytes() }

// EncodeB compresses raw with CodecB (LZW-B), closing each chunk once it
// reaches budget bytes; the budget is checked after each code, so a chunk
// can exceed it by the few bytes of its last code. Pass DefaultBudgetB to
// match the reference encoder.
func EncodeB(raw []byte, budget int) ([]Chunk, []byte) {
	return encodeCore(raw, maxDictSizeB, func() chunkSink { return newSinkB(budget) })
}

// DecodeB decompresses a CodecB payload described by chunks, reading
// exactly chunks[i].CompressedSize bytes per chunk from r.
func DecodeB(r io.Reader, chunks []Chunk) ([]byte, error) {
	total := totalRawSize(chunks)
	out := make([]byte, 0, total)

	for _, c := range chunks {
		raw := make([]byte, c.CompressedSize)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, err
		}
		out = append(out, decodeChunkB(raw)...)
	}
	return out, nil
}

// decodeChunkB decodes a single CodecB chunk. raw is padded with a few
// zero bytes so that the final variable-width read, which may straddle
// past the declared chunk length before the "cursor exceeded" check
// fires, never reads out of bounds.
func decodeChunkB(raw []byte) []byte {
	padded := make([]byte, len(raw)+4)
	copy(padded, raw)
	r := bitio.NewReader(padded)
	r.ReadBits(8) // discard the sentinel byte

	dict := newDecodeDict()
	var out []byte
	var prev []byte

	for {
		flag := r.ReadBits(1)
		width := uint(15)
		if flag == 1 {
			width = 18
		}
		code := int(r.ReadBits(width))
		if r.ByteOffset() > len(raw) {
			break
		}

		entry := resolveCode(dict, code, prev)
		out = append(out, entry...)
		if len(prev) > 0 {
			ext := make([]byte, len(prev)+1)
			copy(ext, prev)
			ext[len(prev)] = entry[0]
			dict.add(ext)
		}
		prev = entry
	}
	return out
}
