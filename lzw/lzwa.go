// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lzw

import (
	"encoding/binary"
	"io"
)

const (
	// maxDictSizeA is the largest dictionary CodecA can address: codes are
	// serialized as u16 words, so the dictionary never grows past 65536
	// entries (section 4.2).
	maxDictSizeA = 1 << 16

	// DefaultBudgetA is the reference encoder's per-chunk word budget for
	// CodecA (section 4.2).
	DefaultBudgetA = 0xFEFD
)

type sinkA struct {
	codes  []uint16
	budget int
}

func newSinkA(budget int) chunkSink { return &sinkA{budget: budget} }

func (s *sinkA) emit(code int)  { s.codes = append(s.codes, uint16(code)) }
func (s *sinkA) full() bool     { return len(s.codes) >= s.budget }
func (s *sinkA) size() int      { return len(s.codes) }
func (s *sinkA) bytes() []byte {
	buf := make([]byte, len(s.codes)*2)
	for i, c := range s.codes {
		binary.LittleEndian.PutUint16(buf[i*2:], c)
	}
	return buf
}

// EncodeA compresses raw with CodecA (LZW-A), splitting it into chunks no
// larger than budget words each. Pass DefaultBudgetA to match the
// reference encoder.
func EncodeA(raw []byte, budget int) ([]Chunk, []byte) {
	return encodeCore(raw, maxDictSizeA, func() chunkSink { return newSinkA(budget) })
}

// DecodeA decompresses a CodecA payload described by chunks, reading
// exactly chunks[i].CompressedSize u16 words per chunk from r.
func DecodeA(r io.Reader, chunks []Chunk) ([]byte, error) {
	total := totalRawSize(chunks)
	out := make([]byte, 0, total)

	for _, c := range chunks {
		wordBytes := make([]byte, c.CompressedSize*2)
		if _, err := io.ReadFull(r, wordBytes); err != nil {
			return nil, err
		}
		codes := make([]int, c.CompressedSize)
		for i := range codes {
			codes[i] = int(binary.LittleEndian.Uint16(wordBytes[i*2:]))
		}
		out = append(out, decodeStandard(codes)...)
	}
	return out, nil
}
