// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package pak implements the block-aligned PAK archive container used by
// the LUCA System engine: a fixed header, an offset table, optional
// per-entry metadata blocks, and block-padded entry payloads.
package pak

import (
	"encoding/binary"
	"io"
)

// headerSize is the fixed 36-byte PAK header.
const headerSize = 36

// Header is the fixed-size prefix of a PAK archive.
type Header struct {
	DataOffset   uint32
	EntryCount   uint32
	IDStart      uint32
	BlockSize    uint32
	SubdirOffset uint32

	// Opaque1..3 are three reserved u32 fields of unknown purpose,
	// preserved byte-for-byte on round-trip.
	Opaque1, Opaque2, Opaque3 uint32

	Flags Flags
}

func readHeader(r io.Reader) (Header, error) {
	var buf [headerSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, err
	}
	le := binary.LittleEndian
	return Header{
		DataOffset:   le.Uint32(buf[0:4]),
		EntryCount:   le.Uint32(buf[4:8]),
		IDStart:      le.Uint32(buf[8:12]),
		BlockSize:    le.Uint32(buf[12:16]),
		SubdirOffset: le.Uint32(buf[16:20]),
		Opaque1:      le.Uint32(buf[20:24]),
		Opaque2:      le.Uint32(buf[24:28]),
		Opaque3:      le.Uint32(buf[28:32]),
		Flags:        Flags(le.Uint32(buf[32:36])),
	}, nil
}

func (h Header) write(w io.Writer) error {
	var buf [headerSize]byte
	le := binary.LittleEndian
	le.PutUint32(buf[0:4], h.DataOffset)
	le.PutUint32(buf[4:8], h.EntryCount)
	le.PutUint32(buf[8:12], h.IDStart)
	le.PutUint32(buf[12:16], h.BlockSize)
	le.PutUint32(buf[16:20], h.SubdirOffset)
	le.PutUint32(buf[20:24], h.Opaque1)
	le.PutUint32(buf[24:28], h.Opaque2)
	le.PutUint32(buf[28:32], h.Opaque3)
	le.PutUint32(buf[32:36], uint32(h.Flags))
	_, err := w.Write(buf[:])
	return err
}

// Flags is the PAK header's feature bitmask.
type Flags uint32

const (
	flagHasBlobs uint32 = 1 << 8
	flagHasNames uint32 = 1 << 9
)

// HasBlobs reports whether each entry carries a 12-byte opaque metadata
// blob after the offset table.
func (f Flags) HasBlobs() bool { return uint32(f)&flagHasBlobs != 0 }

// HasNames reports whether entries (and possibly a subdirectory string)
// follow the offset table / blobs as NUL-terminated names.
func (f Flags) HasNames() bool { return uint32(f)&flagHasNames != 0 }

// preDataSlotCounts maps the header's low 3 bits to a pre-data slot
// count. This mirrors the reference encoder's lookup table; the decoder
// itself never consults it, instead scanning for the sentinel word (see
// Decode), so this accessor is purely descriptive.
var preDataSlotCounts = [8]int{1, 2, 4, 5, 7, 0, 0, 0}

// PreDataSlotCount returns the informational pre-data slot count implied
// by the flags' low 3 bits.
func (f Flags) PreDataSlotCount() int {
	return preDataSlotCounts[uint32(f)&0b111]
}
