// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lzw

// chunkSink accumulates the codes emitted while compressing a single
// chunk. CodecA's sink packs u16 words; CodecB's sink packs variable-width
// bits behind a leading flag bit. Both track how large the chunk has
// grown so the caller can close it once a codec-specific budget is met.
type chunkSink interface {
	emit(code int)
	full() bool
	size() int // codec-specific unit: words for CodecA, bytes for CodecB
	bytes() []byte
}

// encodeCore is the dictionary-matching loop shared by CodecA and CodecB.
// It is a conventional LZW producer: extend the current match as long as
// it stays in the dictionary, emit a code and grow the dictionary when it
// doesn't, and start fresh (without consuming the byte that broke the
// match again) once a chunk's sink reports itself full. That "don't
// advance past the breaking byte" rule is exactly the carry-over behavior
// section 4.2 describes: the unemitted partial match becomes the start of
// the next chunk, encoded from a freshly rebuilt dictionary.
func encodeCore(raw []byte, maxDictSize int, newSink func() chunkSink) ([]Chunk, []byte) {
	var chunks []Chunk
	var out []byte

	pos := 0
	for pos < len(raw) {
		dict := newEncodeDict()
		sink := newSink()
		start := pos
		var w []byte
		full := false

		for pos < len(raw) {
			c := raw[pos]
			cand := make([]byte, len(w)+1)
			copy(cand, w)
			cand[len(w)] = c

			if _, ok := dict.find(cand); ok {
				w = cand
				pos++
				continue
			}

			code, ok := dict.find(w)
			if !ok {
				// w is always a previously matched (and thus dictionary
				// resident) string: either a single byte from the
				// 256-entry bootstrap, or a candidate added below.
				panic("lzw: encoder invariant violated: unmatched pending string")
			}
			sink.emit(code)
			if dict.len() < maxDictSize {
				dict.add(cand)
			}
			w = nil

			if sink.full() {
				full = true
				break
			}
		}

		if !full && len(w) > 0 {
			code, _ := dict.find(w)
			sink.emit(code)
		}

		chunks = append(chunks, Chunk{
			RawSize:        pos - start,
			CompressedSize: sink.size(),
		})
		out = append(out, sink.bytes()...)
	}

	applyChunkQuirk(chunks)
	return chunks, out
}

// decodeStandard runs the standard LZW decode over a sequence of codes
// already extracted from a chunk's compressed bytes, using a freshly
// bootstrapped dictionary (chunks never share dictionary state).
func decodeStandard(codes []int) []byte {
	dict := newDecodeDict()
	var out []byte
	var prev []byte

	for _, code := range codes {
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
