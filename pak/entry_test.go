// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package pak

import (
	"bytes"
	"testing"
)

func TestProbeType(t *testing.T) {
	cases := []struct {
		data []byte
		want EntryType
	}{
		{[]byte("CZ0\x00extra"), TypeCZ0},
		{[]byte("CZ4\x00extra"), TypeCZ4},
		{[]byte("CZ5\x00extra"), TypeCZ5},
		{[]byte("MVT\x00"), TypeMVT},
		{[]byte("RIFF\x00\x00\x00\x00WAVEfmt "), TypeWAV},
		{[]byte("OggS\x00"), TypeOGG},
		{append([]byte("OGGPAK"), bytes.Repeat([]byte{0}, 20)...), TypeOGGPAK},
		{[]byte("????"), TypeUnknown},
	}
	for _, c := range cases {
		if got := ProbeType(c.data); got != c.want {
			t.Errorf("ProbeType(%q) = %v, want %v", c.data, got, c.want)
		}
	}
}

func TestEntryPayloadStripsOGGPAKWrapper(t *testing.T) {
	inner := []byte("OggS\x00realoggdata")
	// The first 15 bytes are the engine wrapper header (here starting
	// with the OGGPAK magic the probe looks for); Payload should strip
	// exactly that span.
	data := append([]byte("OGGPAK"), bytes.Repeat([]byte{0}, oggpakWrapperSize-6)...)
	data = append(data, inner...)

	e := &Entry{Data: data}
	if got := e.ProbeType(); got != TypeOGGPAK {
		t.Fatalf("ProbeType = %v, want OGGPAK", got)
	}
	if got := e.Payload(); !bytes.Equal(got, inner) {
		t.Fatalf("Payload() = %q, want %q", got, inner)
	}
}

func TestEntryPayloadPassthroughForNonOGGPAK(t *testing.T) {
	e := &Entry{Data: []byte("CZ0\x00therestofit")}
	if got := e.Payload(); !bytes.Equal(got, e.Data) {
		t.Fatalf("Payload() modified non-OGGPAK data")
	}
}
