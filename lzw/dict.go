// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lzw

// encodeDict is a growable string-to-code dictionary used while
// compressing. It is rebuilt from scratch (256 single-byte entries) at the
// start of every chunk, per section 4.2/4.3.
type encodeDict struct {
	codes map[string]int
	next  int
}

func newEncodeDict() *encodeDict {
	d := &encodeDict{codes: make(map[string]int, 512), next: 256}
	for i := 0; i < 256; i++ {
		d.codes[string([]byte{byte(i)})] = i
	}
	return d
}

func (d *encodeDict) find(s []byte) (int, bool) {
	code, ok := d.codes[string(s)]
	return code, ok
}

func (d *encodeDict) add(s []byte) (code int, ok bool) {
	code = d.next
	d.codes[string(s)] = code
	d.next++
	return code, true
}

func (d *encodeDict) len() int { return d.next }

// decodeDict is the inverse: code-to-string, also rebuilt per chunk.
type decodeDict struct {
	entries [][]byte
}

func newDecodeDict() *decodeDict {
	d := &decodeDict{entries: make([][]byte, 256, 1024)}
	for i := 0; i < 256; i++ {
		d.entries[i] = []byte{byte(i)}
	}
	return d
}

func (d *decodeDict) get(code int) ([]byte, bool) {
	if code < 0 || code >= len(d.entries) {
		return nil, false
	}
	return d.entries[code], true
}

func (d *decodeDict) len() int { return len(d.entries) }

func (d *decodeDict) add(s []byte) {
	entry := make([]byte, len(s))
	copy(entry, s)
	d.entries = append(d.entries, entry)
}

// resolveCode implements the standard unknown-code LZW decode rule shared by
// both codecs (section 4.2 Decode / section 4.3): if code is in the
// dictionary, return its string; if code equals the dictionary's next free
// slot, return prev + prev[0]; otherwise the stream is corrupt.
func resolveCode(dict *decodeDict, code int, prev []byte) []byte {
	if entry, ok := dict.get(code); ok {
		return entry
	}
	if code == dict.len() {
		if len(prev) == 0 {
			corrupt("bad element: dictionary extension with no previous entry")
		}
		entry := make([]byte, len(prev)+1)
		copy(entry, prev)
		entry[len(prev)] = prev[0]
		return entry
	}
	corrupt("bad element: code not in dictionary and not the next free slot")
	return nil // unreachable
}
