// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package cz

import (
	"image/color"
	"io"

	"github.com/G2-Games/lbee-utils/errs"
	"github.com/G2-Games/lbee-utils/imaging"
)

// File is a decoded or constructed CZ# image: its header metadata, an
// optional cached palette, and a normalized 32-bit RGBA bitmap. All
// pixel access outside this package goes through RGBA; the depth-native
// representation only exists transiently during Decode/Encode.
type File struct {
	Common CommonHeader

	// Ext is the crop/bounds/offset metadata block. Always nil for CZ2,
	// which stores a 3-byte opaque field (CZ2Opaque) instead.
	Ext       *ExtendedHeader
	CZ2Opaque [3]byte

	// Palette is the cached indexed-color table, present only when a
	// depth-8 file has been decoded or a palette has been generated by
	// a previous Encode. ClearPalette drops it so the next Encode
	// regenerates one from RGBA.
	Palette []color.RGBA

	// RGBA is the normalized bitmap: width*height*4 bytes, straight
	// (non-premultiplied) alpha.
	RGBA []byte
}

// Decode reads a complete CZ# file from r: common header, optional
// extended header (or CZ2's opaque triple), optional palette, and the
// version-specific payload, normalizing the result to 32-bit RGBA.
func Decode(r io.ReadSeeker) (f *File, err error) {
	defer errs.Recover(&err)

	common, err := readCommonHeader(r)
	if err != nil {
		return nil, err
	}

	if common.Version == CZ5 {
		return nil, errs.ErrUnimplementedVersion
	}

	logger.Debug("cz: decoded common header",
		"version", common.Version,
		"width", common.Width,
		"height", common.Height,
		"depth", common.Depth,
		"header_length", common.HeaderLength)

	f = &File{Common: common}

	switch {
	case common.Version == CZ2:
		if _, err := io.ReadFull(r, f.CZ2Opaque[:]); err != nil {
			return nil, err
		}
	case common.HeaderLength > commonHeaderSize:
		ext, err := readExtendedHeader(r, common.HeaderLength)
		if err != nil {
			return nil, err
		}
		f.Ext = ext
	}

	// The header's declared length is authoritative regardless of how
	// many extended-header bytes were actually parsed above.
	if _, err := r.Seek(int64(common.HeaderLength), io.SeekStart); err != nil {
		return nil, err
	}

	width, height, depth := int(common.Width), int(common.Height), common.Depth

	if depth <= 8 {
		palette, err := readPalette(r, 1<<depth)
		if err != nil {
			return nil, err
		}
		f.Palette = palette
	}
	if depth == 4 {
		return nil, errs.ErrUnsupportedDepth
	}

	rgba, err := decodePayload(r, common.Version, width, height, depth, f.Palette)
	if err != nil {
		return nil, err
	}
	f.RGBA = rgba

	return f, nil
}

// Encode writes f as a complete CZ# file to w, generating a palette for
// depth-8 output when none is cached.
func (f *File) Encode(w io.Writer) error {
	if f.Common.Version == CZ5 {
		return errs.ErrUnimplementedVersion
	}

	width, height, depth := int(f.Common.Width), int(f.Common.Height), f.Common.Depth

	switch {
	case f.Common.Version == CZ2:
		f.Common.HeaderLength = cz2HeaderLength
	case f.Ext != nil:
		f.Common.HeaderLength = f.Ext.length()
	default:
		f.Common.HeaderLength = commonHeaderSize
	}

	if err := f.Common.write(w); err != nil {
		return err
	}

	switch {
	case f.Common.Version == CZ2:
		if _, err := w.Write(f.CZ2Opaque[:]); err != nil {
			return err
		}
	case f.Ext != nil:
		if err := f.Ext.write(w); err != nil {
			return err
		}
	}

	if depth == 8 && f.Palette == nil {
		_, palette := imaging.GeneratePalette(f.RGBA, width, height, imaging.MaxPaletteColors)
		f.Palette = palette
	}
	if depth <= 8 {
		if err := writePalette(w, f.Palette); err != nil {
			return err
		}
	}

	return encodePayload(w, f.Common.Version, f.RGBA, width, height, depth, f.Palette)
}

// FromRaw constructs a File wrapping an existing RGBA buffer, defaulting
// to 32-bit depth, no palette, and no extended header.
func FromRaw(version Version, width, height int, rgba []byte) *File {
	return &File{
		Common: CommonHeader{
			Version: version,
			Width:   uint16(width),
			Height:  uint16(height),
			Depth:   32,
		},
		RGBA: rgba,
	}
}

// WithExtendedHeader attaches ext to f (ignored for CZ2, which never
// carries one) and returns f for chaining.
func (f *File) WithExtendedHeader(ext *ExtendedHeader) *File {
	if f.Common.Version != CZ2 {
		f.Ext = ext
	}
	return f
}

// ClearPalette drops any cached palette, forcing Encode to generate a
// fresh one the next time depth is 8.
func (f *File) ClearPalette() { f.Palette = nil }

// SetDepth changes the pixel depth used on the next Encode. It does not
// touch RGBA or Palette; callers that shrink to depth 8 typically also
// call ClearPalette first unless they intend to reuse a prior palette.
func (f *File) SetDepth(depth uint16) { f.Common.Depth = depth }

// SetVersion changes only the version byte, per section 4.7: header
// layout and payload framing are unaffected until the next Encode
// actually dispatches on the new version.
func (f *File) SetVersion(v Version) { f.Common.Version = v }

func readPalette(r io.Reader, count int) ([]color.RGBA, error) {
	buf := make([]byte, count*4)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	palette := make([]color.RGBA, count)
	for i := range palette {
		palette[i] = color.RGBA{
			R: buf[i*4+0],
			G: buf[i*4+1],
			B: buf[i*4+2],
			A: buf[i*4+3],
		}
	}
	return palette, nil
}

func writePalette(w io.Writer, palette []color.RGBA) error {
	buf := make([]byte, len(palette)*4)
	for i, c := range palette {
		buf[i*4+0] = c.R
		buf[i*4+1] = c.G
		buf[i*4+2] = c.B
		buf[i*4+3] = c.A
	}
	_, err := w.Write(buf)
	return err
}
