// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitio

import "testing"

func TestWriteReadBits(t *testing.T) {
	vectors := []struct {
		n uint
		v uint64
	}{
		{1, 1},
		{1, 0},
		{3, 5},
		{7, 0x7f},
		{8, 0xAB},
		{9, 0x1FF},
		{15, 0x7FFF},
		{16, 0xBEEF},
		{18, 0x3FFFF},
		{32, 0xDEADBEEF},
		{64, 0xFFFFFFFFFFFFFFFF},
	}

	for _, v := range vectors {
		w := NewWriter()
		w.WriteBits(v.v, v.n)
		r := NewReader(w.Bytes())
		got := r.ReadBits(v.n)
		want := v.v & (uint64(1)<<v.n - 1)
		if v.n == 64 {
			want = v.v
		}
		if got != want {
			t.Errorf("ReadBits(%d) after WriteBits(%#x, %d) = %#x, want %#x", v.n, v.v, v.n, got, want)
		}
	}
}

func TestSequentialRoundTrip(t *testing.T) {
	type field struct {
		n uint
		v uint64
	}
	fields := []field{
		{1, 1}, {1, 0}, {3, 5}, {5, 17}, {8, 0xFF}, {2, 2}, {16, 0x1234}, {4, 9},
	}

	w := NewWriter()
	for _, f := range fields {
		w.WriteBits(f.v, f.n)
	}

	r := NewReader(w.Bytes())
	for i, f := range fields {
		got := r.ReadBits(f.n)
		want := f.v & (uint64(1)<<f.n - 1)
		if got != want {
			t.Fatalf("field %d: ReadBits(%d) = %#x, want %#x", i, f.n, got, want)
		}
	}
}

func TestByteAlignedFastPath(t *testing.T) {
	w := NewWriter()
	w.WriteBits(0x0102030405060708, 64)
	if got, want := w.ByteSize(), 8; got != want {
		t.Fatalf("ByteSize() = %d, want %d", got, want)
	}
	if !w.Aligned() {
		t.Fatalf("expected writer to be byte-aligned after a multiple-of-8 write")
	}

	r := NewReader(w.Bytes())
	got := r.ReadBits(32)
	if want := uint64(0x05060708); got != want {
		t.Fatalf("ReadBits(32) = %#x, want %#x", got, want)
	}
}

func TestUnalignedWritePreservesEarlierBits(t *testing.T) {
	w := NewWriter()
	w.WriteBits(0x3, 2) // low 2 bits of byte 0
	w.WriteBits(0x3, 2) // next 2 bits
	// At this point, the byte should be 0b00001111 with the top 4 bits
	// still unset; writing into bit positions 4..7 must not disturb the
	// low nibble already written.
	w.WriteBits(0x5, 3)
	if got, want := w.Bytes()[0]&0x0F, byte(0x0F); got != want {
		t.Fatalf("low nibble = %#x, want %#x (must be preserved)", got, want)
	}
}

func TestByteSizeInvariant(t *testing.T) {
	w := NewWriter()
	w.WriteBits(1, 1)
	if got, want := w.ByteSize(), 1; got != want {
		t.Errorf("ByteSize() after 1 bit = %d, want %d", got, want)
	}
	w.WriteBits(1, 1)
	w.WriteBits(1, 1)
	w.WriteBits(1, 1)
	w.WriteBits(1, 1)
	w.WriteBits(1, 1)
	w.WriteBits(1, 1)
	w.WriteBits(1, 1)
	if got, want := w.ByteSize(), 1; got != want {
		t.Errorf("ByteSize() after 8 bits = %d, want %d", got, want)
	}
	w.WriteBits(1, 1)
	if got, want := w.ByteSize(), 2; got != want {
		t.Errorf("ByteSize() after 9 bits = %d, want %d", got, want)
	}
}
