// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package pak

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/G2-Games/lbee-utils/errs"
)

// buildPak constructs a minimal, well-formed PAK byte image from a
// header skeleton and a list of entry payloads, block-aligning each
// entry the way Encode does, and returns the archive bytes.
func buildPak(t *testing.T, blockSize uint32, flags Flags, entries [][]byte, names []string, subdir string) []byte {
	t.Helper()

	entryCount := uint32(len(entries))

	preHeaderSize := headerSize + int(entryCount)*8
	if flags.HasBlobs() {
		preHeaderSize += int(entryCount) * 12
	}
	if flags.HasNames() {
		if subdir != "" {
			preHeaderSize += len(subdir) + 1
		}
		for _, n := range names {
			preHeaderSize += len(n) + 1
		}
	}

	dataOffset := ((uint32(preHeaderSize) + blockSize - 1) / blockSize) * blockSize
	if dataOffset == 0 {
		dataOffset = blockSize
	}

	offsets := make([]uint32, entryCount)
	lengths := make([]uint32, entryCount)
	next := dataOffset / blockSize
	totalDataBytes := uint32(0)
	for i, e := range entries {
		offsets[i] = next
		lengths[i] = uint32(len(e))
		blocks := ceilDivBlocks(lengths[i], blockSize)
		next += blocks
		totalDataBytes += blocks * blockSize
	}

	total := int(dataOffset + totalDataBytes)
	buf := make([]byte, total)

	header := Header{
		DataOffset: dataOffset,
		EntryCount: entryCount,
		BlockSize:  blockSize,
		Flags:      flags,
	}
	if subdir != "" {
		header.SubdirOffset = 1
	}

	w := &sliceWriter{buf: buf}
	if err := header.write(w); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for i := range entries {
		var eb [8]byte
		putU32(eb[0:4], offsets[i])
		putU32(eb[4:8], lengths[i])
		w.write(eb[:])
	}
	if flags.HasBlobs() {
		for range entries {
			w.write(make([]byte, 12))
		}
	}
	if flags.HasNames() {
		if subdir != "" {
			w.write(append([]byte(subdir), 0))
		}
		for _, n := range names {
			w.write(append([]byte(n), 0))
		}
	}
	// Remaining bytes up to dataOffset are the zero opaque tail, already
	// zero in buf.

	for i, e := range entries {
		pos := int(offsets[i]) * int(blockSize)
		copy(buf[pos:], e)
	}

	return buf
}

type sliceWriter struct {
	buf []byte
	pos int
}

func (w *sliceWriter) write(p []byte) { w.pos += copy(w.buf[w.pos:], p) }
func (w *sliceWriter) Write(p []byte) (int, error) {
	w.write(p)
	return len(p), nil
}

func putU32(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 24)
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	entries := [][]byte{
		bytes.Repeat([]byte{0x11}, 1000),
		bytes.Repeat([]byte{0x22}, 3000),
		bytes.Repeat([]byte{0x33}, 500),
	}
	raw := buildPak(t, 2048, 0, entries, nil, "")

	p, err := Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(p.Entries()) != 3 {
		t.Fatalf("got %d entries, want 3", len(p.Entries()))
	}
	for i, want := range entries {
		if !bytes.Equal(p.Entries()[i].Data, want) {
			t.Fatalf("entry %d data mismatch", i)
		}
	}

	var out bytes.Buffer
	if err := p.Encode(&out); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("encode(decode(P)) != P (property P7)")
	}

	reDecoded, err := Decode(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if diff := cmp.Diff(p.Header, reDecoded.Header); diff != "" {
		t.Fatalf("header mismatch across an encode/decode cycle (-want +got):\n%s", diff)
	}
}

// TestReplaceOffsetRecompute exercises S5 and property P6: entry_count=3,
// block_size=2048, sizes 1000/3000/500 give offsets 1,2,4; replacing
// entry 0 with 5000 bytes gives offsets 1,4,6.
func TestReplaceOffsetRecompute(t *testing.T) {
	entries := [][]byte{
		bytes.Repeat([]byte{0xAA}, 1000),
		bytes.Repeat([]byte{0xBB}, 3000),
		bytes.Repeat([]byte{0xCC}, 500),
	}
	raw := buildPak(t, 2048, 0, entries, nil, "")

	p, err := Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	wantBefore := []uint32{1, 2, 4}
	for i, want := range wantBefore {
		if got := p.Entries()[i].Offset; got != want {
			t.Fatalf("entry %d offset = %d, want %d (before replace)", i, got, want)
		}
	}

	if err := p.Replace(0, bytes.Repeat([]byte{0xDD}, 5000)); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	wantAfter := []uint32{1, 4, 6}
	for i, want := range wantAfter {
		if got := p.Entries()[i].Offset; got != want {
			t.Fatalf("entry %d offset = %d, want %d (after replace)", i, got, want)
		}
	}
}

// TestNamesRoundTrip exercises S6: a PAK with the names flag set
// survives an encode/decode cycle with byte-identical names.
func TestNamesRoundTrip(t *testing.T) {
	entries := [][]byte{{1, 2, 3}, {4, 5, 6, 7}}
	names := []string{"bg_event01.cz3", "se_thunder.ogg"}
	raw := buildPak(t, 2048, Flags(flagHasNames), entries, names, "event")

	p, err := Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.Subdirectory != "event" {
		t.Fatalf("Subdirectory = %q, want %q", p.Subdirectory, "event")
	}
	for i, want := range names {
		if got := p.Entries()[i].Name; got != want {
			t.Fatalf("entry %d name = %q, want %q", i, got, want)
		}
	}

	var out bytes.Buffer
	if err := p.Encode(&out); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("name-flagged encode(decode(P)) != P")
	}
}

func TestReplaceByIDAndName(t *testing.T) {
	entries := [][]byte{{1}, {2, 2}, {3, 3, 3}}
	names := []string{"a.cz0", "b.cz0", "c.cz0"}
	raw := buildPak(t, 512, Flags(flagHasNames), entries, names, "")

	p, err := Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if err := p.ReplaceByName("b.cz0", []byte{9, 9, 9, 9}); err != nil {
		t.Fatalf("ReplaceByName: %v", err)
	}
	if got := p.Entries()[1].Length; got != 4 {
		t.Fatalf("entry 1 length = %d, want 4", got)
	}

	id := p.Entries()[2].ID
	if err := p.ReplaceByID(id, []byte{7}); err != nil {
		t.Fatalf("ReplaceByID: %v", err)
	}
	if got := p.Entries()[2].Length; got != 1 {
		t.Fatalf("entry 2 length = %d, want 1", got)
	}

	if err := p.ReplaceByName("missing", nil); err == nil {
		t.Fatalf("expected an error replacing a missing name")
	}
	if !p.ContainsName("a.cz0") {
		t.Fatalf("ContainsName(a.cz0) = false, want true")
	}
	if p.ContainsName("missing") {
		t.Fatalf("ContainsName(missing) = true, want false")
	}
}

func TestChecksums(t *testing.T) {
	entries := [][]byte{{1, 2, 3}, {4, 5, 6}}
	raw := buildPak(t, 512, 0, entries, nil, "")
	p, err := Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	perEntry, combined := p.Checksums()
	if len(perEntry) != 2 {
		t.Fatalf("got %d checksums, want 2", len(perEntry))
	}
	if combined == 0 {
		t.Fatalf("combined checksum is zero")
	}

	ok, err := p.VerifyEntry(0, perEntry[0])
	if err != nil || !ok {
		t.Fatalf("VerifyEntry(0, matching) = (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = p.VerifyEntry(0, perEntry[0]+1)
	if err != nil || ok {
		t.Fatalf("VerifyEntry(0, mismatched) = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestDecodeHeaderErrorWhenSentinelMissing(t *testing.T) {
	// A header whose data_offset is reached before any word equals the
	// sentinel must fail with HeaderError.
	header := Header{DataOffset: 40, EntryCount: 0, BlockSize: 4}
	buf := make([]byte, 40)
	w := &sliceWriter{buf: buf}
	if err := header.write(w); err != nil {
		t.Fatalf("write header: %v", err)
	}
	// Bytes 36..40 are pre-position words that never equal data_offset/block_size (10).
	putU32(buf[36:40], 0xFFFFFFFF)

	_, err := Decode(bytes.NewReader(buf))
	if err != errs.ErrHeaderError {
		t.Fatalf("Decode = %v, want HeaderError", err)
	}
}
