// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package cz

import (
	"encoding/binary"
	"io"

	"github.com/G2-Games/lbee-utils/errs"
)

// commonHeaderSize is the fixed 15-byte span shared by every CZ# version:
// magic(4) + header_length(4) + width(2) + height(2) + depth(2) + color_block(1).
const commonHeaderSize = 15

// cz2HeaderLength is the fixed header_length CZ2 always declares: the
// common 15 bytes plus 3 opaque bytes, with no extended header.
const cz2HeaderLength = 0x12

// CommonHeader is the 15-byte prefix every CZ# file begins with.
type CommonHeader struct {
	Version      Version
	HeaderLength uint32
	Width        uint16
	Height       uint16

	// Depth is bits per pixel. A value read from a file that exceeds 32
	// is clamped to 8, per section 4.1's invariant.
	Depth uint16

	// ColorBlock is an opaque byte carried through unchanged; CZ4 used
	// it as a tile-size hint in one historical code path, but this
	// implementation always derives block height from the constant 3
	// (see package imaging) and treats ColorBlock as pass-through data.
	ColorBlock byte
}

func readCommonHeader(r io.Reader) (CommonHeader, error) {
	var buf [commonHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return CommonHeader{}, err
	}

	if buf[0] != 'C' || buf[1] != 'Z' {
		return CommonHeader{}, errs.ErrNotCzFile
	}
	version, err := parseVersion(buf[2])
	if err != nil {
		return CommonHeader{}, err
	}

	depth := binary.LittleEndian.Uint16(buf[12:14])
	if depth > 32 {
		depth = 8
	}

	return CommonHeader{
		Version:      version,
		HeaderLength: binary.LittleEndian.Uint32(buf[4:8]),
		Width:        binary.LittleEndian.Uint16(buf[8:10]),
		Height:       binary.LittleEndian.Uint16(buf[10:12]),
		Depth:        depth,
		ColorBlock:   buf[14],
	}, nil
}

func (h CommonHeader) write(w io.Writer) error {
	var buf [commonHeaderSize]byte
	buf[0], buf[1], buf[2], buf[3] = 'C', 'Z', '0'+byte(h.Version), 0x00
	binary.LittleEndian.PutUint32(buf[4:8], h.HeaderLength)
	binary.LittleEndian.PutUint16(buf[8:10], h.Width)
	binary.LittleEndian.PutUint16(buf[10:12], h.Height)
	binary.LittleEndian.PutUint16(buf[12:14], h.Depth)
	buf[14] = h.ColorBlock
	_, err := w.Write(buf[:])
	return err
}

// ExtendedHeader carries the crop/bounds/offset metadata every non-CZ2
// version stores when header_length > 15. The original engine's use of
// these fields is rendering-specific and out of scope (see spec
// Non-goals); this implementation preserves them byte-for-byte.
type ExtendedHeader struct {
	Opaque1 [5]byte

	CropWidth, CropHeight     uint16
	BoundsWidth, BoundsHeight uint16

	// HasOffset selects the 36-byte header variant (header_length > 28)
	// that additionally carries OffsetX/OffsetY and a trailing opaque
	// quadruplet.
	HasOffset bool
	OffsetX   uint16
	OffsetY   uint16
	Opaque2   [4]byte
}

// length reports the header_length this extended header implies: 28
// without offsets, 36 with them.
func (e *ExtendedHeader) length() uint32 {
	if e == nil {
		return commonHeaderSize
	}
	if e.HasOffset {
		return 36
	}
	return 28
}

func readExtendedHeader(r io.Reader, headerLength uint32) (*ExtendedHeader, error) {
	ext := &ExtendedHeader{}
	if _, err := io.ReadFull(r, ext.Opaque1[:]); err != nil {
		return nil, err
	}

	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	ext.CropWidth = binary.LittleEndian.Uint16(buf[0:2])
	ext.CropHeight = binary.LittleEndian.Uint16(buf[2:4])
	ext.BoundsWidth = binary.LittleEndian.Uint16(buf[4:6])
	ext.BoundsHeight = binary.LittleEndian.Uint16(buf[6:8])

	if headerLength > 28 {
		ext.HasOffset = true
		var tail [8]byte
		if _, err := io.ReadFull(r, tail[:]); err != nil {
			return nil, err
		}
		ext.OffsetX = binary.LittleEndian.Uint16(tail[0:2])
		ext.OffsetY = binary.LittleEndian.Uint16(tail[2:4])
		copy(ext.Opaque2[:], tail[4:8])
	}

	return ext, nil
}

func (e *ExtendedHeader) write(w io.Writer) error {
	if _, err := w.Write(e.Opaque1[:]); err != nil {
		return err
	}

	var buf [8]byte
	binary.LittleEndian.PutUint16(buf[0:2], e.CropWidth)
	binary.LittleEndian.PutUint16(buf[2:4], e.CropHeight)
	binary.LittleEndian.PutUint16(buf[4:6], e.BoundsWidth)
	binary.LittleEndian.PutUint16(buf[6:8], e.BoundsHeight)
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}

	if e.HasOffset {
		var tail [8]byte
		binary.LittleEndian.PutUint16(tail[0:2], e.OffsetX)
		binary.LittleEndian.PutUint16(tail[2:4], e.OffsetY)
		copy(tail[4:8], e.Opaque2[:])
		if _, err := w.Write(tail[:]); err != nil {
			return err
		}
	}
	return nil
}
