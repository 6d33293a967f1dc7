// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package pak

import "bytes"

// Entry is a single file packed inside a PAK archive.
type Entry struct {
	Index int
	ID    uint32

	// Offset is in block_size units, as stored on disk; Length is in
	// bytes.
	Offset uint32
	Length uint32

	Data []byte

	// Name is only meaningful when the owning Pak's Flags.HasNames() is
	// true; it is the empty string otherwise.
	Name string

	// Blob is only meaningful when the owning Pak's Flags.HasBlobs() is
	// true.
	Blob [12]byte
}

// EntryType classifies an entry's payload by sniffing its leading bytes,
// for UI/help purposes (section 4.8's "entry file-type probe"). It never
// validates the remainder of the payload.
type EntryType int

const (
	TypeUnknown EntryType = iota
	TypeCZ0
	TypeCZ1
	TypeCZ2
	TypeCZ3
	TypeCZ4
	TypeCZ5
	TypeMVT
	TypeWAV
	TypeOGG
	TypeOGGPAK
)

func (t EntryType) String() string {
	switch t {
	case TypeCZ0:
		return "CZ0"
	case TypeCZ1:
		return "CZ1"
	case TypeCZ2:
		return "CZ2"
	case TypeCZ3:
		return "CZ3"
	case TypeCZ4:
		return "CZ4"
	case TypeCZ5:
		return "CZ5"
	case TypeMVT:
		return "MVT"
	case TypeWAV:
		return "WAV"
	case TypeOGG:
		return "OGG"
	case TypeOGGPAK:
		return "OGGPAK"
	default:
		return "unknown"
	}
}

// oggpakWrapperSize is the length of the engine-specific header OGGPAK
// prepends to an otherwise standard OGG stream.
const oggpakWrapperSize = 15

var czTypesByDigit = [6]EntryType{TypeCZ0, TypeCZ1, TypeCZ2, TypeCZ3, TypeCZ4, TypeCZ5}

// ProbeType classifies e's data by its leading magic bytes.
func (e *Entry) ProbeType() EntryType {
	return ProbeType(e.Data)
}

// ProbeType classifies data by its leading magic bytes: "CZ0".."CZ5",
// "MVT", "RIFF" (WAV), "OggS" (OGG), or "OGGPAK" (an engine-wrapped OGG
// stream, see Payload).
func ProbeType(data []byte) EntryType {
	if len(data) >= 3 && data[0] == 'C' && data[1] == 'Z' && data[2] >= '0' && data[2] <= '5' {
		return czTypesByDigit[data[2]-'0']
	}
	switch {
	case bytes.HasPrefix(data, []byte("OGGPAK")):
		return TypeOGGPAK
	case bytes.HasPrefix(data, []byte("MVT")):
		return TypeMVT
	case bytes.HasPrefix(data, []byte("RIFF")):
		return TypeWAV
	case bytes.HasPrefix(data, []byte("OggS")):
		return TypeOGG
	default:
		return TypeUnknown
	}
}

// Payload returns e's data with any engine-specific wrapper stripped: for
// TypeOGGPAK entries, the leading 15-byte wrapper is removed to expose a
// standard OGG stream; every other type returns Data unchanged.
func (e *Entry) Payload() []byte {
	if e.ProbeType() == TypeOGGPAK && len(e.Data) >= oggpakWrapperSize {
		return e.Data[oggpakWrapperSize:]
	}
	return e.Data
}
