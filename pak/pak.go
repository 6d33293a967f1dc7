// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package pak

import (
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/dsnet/golib/hashutil"

	"github.com/G2-Games/lbee-utils/errs"
)

// Pak is a decoded PAK archive: its header, the opaque bytes surrounding
// the offset table that this implementation never interprets, and its
// entries.
type Pak struct {
	Header Header

	// Subdirectory is the optional name-table prefix string, present
	// only when Header.Flags.HasNames() and Header.SubdirOffset != 0.
	Subdirectory string

	// PrePosition holds the u32 words scanned before the offset table
	// during Decode (section 4.8's pre-position sentinel scan),
	// preserved verbatim so Encode reproduces them byte-for-byte.
	PrePosition []uint32

	// PostHeaderTail is the opaque span between the end of the
	// offset/blob/name sections and Header.DataOffset.
	PostHeaderTail []byte

	entries []Entry
}

// Decode reads a complete PAK archive from r.
func Decode(r io.ReadSeeker) (p *Pak, err error) {
	defer errs.Recover(&err)

	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	logger.Debug("pak: decoded header",
		"data_offset", header.DataOffset,
		"entry_count", header.EntryCount,
		"block_size", header.BlockSize,
		"has_blobs", header.Flags.HasBlobs(),
		"has_names", header.Flags.HasNames())

	var sentinel uint32
	if header.BlockSize != 0 {
		sentinel = header.DataOffset / header.BlockSize
	}

	var prePosition []uint32
	for {
		pos, err := r.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		if uint32(pos) >= header.DataOffset {
			break
		}

		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		word := binary.LittleEndian.Uint32(buf[:])
		if word == sentinel {
			if _, err := r.Seek(-4, io.SeekCurrent); err != nil {
				return nil, err
			}
			break
		}
		prePosition = append(prePosition, word)
	}

	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	if uint32(pos) == header.DataOffset {
		return nil, errs.ErrHeaderError
	}

	logger.Debug("pak: pre-position scan complete", "words", len(prePosition))

	type location struct{ offset, length uint32 }
	locations := make([]location, header.EntryCount)
	for i := range locations {
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		locations[i] = location{
			offset: binary.LittleEndian.Uint32(buf[0:4]),
			length: binary.LittleEndian.Uint32(buf[4:8]),
		}
	}

	var blobs [][12]byte
	if header.Flags.HasBlobs() {
		blobs = make([][12]byte, header.EntryCount)
		for i := range blobs {
			if _, err := io.ReadFull(r, blobs[i][:]); err != nil {
				return nil, err
			}
		}
	}

	var subdirectory string
	var names []string
	if header.Flags.HasNames() {
		if header.SubdirOffset != 0 {
			s, err := readCString(r)
			if err != nil {
				return nil, err
			}
			subdirectory = s
		}
		names = make([]string, header.EntryCount)
		for i := range names {
			s, err := readCString(r)
			if err != nil {
				return nil, err
			}
			names[i] = s
		}
	}

	pos, err = r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	tail := make([]byte, int64(header.DataOffset)-pos)
	if _, err := io.ReadFull(r, tail); err != nil {
		return nil, err
	}

	entries := make([]Entry, header.EntryCount)
	for i := range entries {
		if _, err := r.Seek(int64(locations[i].offset)*int64(header.BlockSize), io.SeekStart); err != nil {
			return nil, err
		}
		data := make([]byte, locations[i].length)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, err
		}

		e := Entry{
			Index:  i,
			ID:     header.IDStart + uint32(i),
			Offset: locations[i].offset,
			Length: locations[i].length,
			Data:   data,
		}
		if names != nil {
			e.Name = names[i]
		}
		if blobs != nil {
			e.Blob = blobs[i]
		}
		entries[i] = e
	}

	return &Pak{
		Header:         header,
		Subdirectory:   subdirectory,
		PrePosition:    prePosition,
		PostHeaderTail: tail,
		entries:        entries,
	}, nil
}

// Encode writes p to w: header, pre-position words, offset table built
// from current entry state, optional blobs, optional names, the opaque
// post-header tail verbatim, then each entry's data block-padded to
// Header.BlockSize.
func (p *Pak) Encode(w io.Writer) error {
	if err := p.Header.write(w); err != nil {
		return err
	}

	for _, word := range p.PrePosition {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], word)
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}

	for _, e := range p.entries {
		var buf [8]byte
		binary.LittleEndian.PutUint32(buf[0:4], e.Offset)
		binary.LittleEndian.PutUint32(buf[4:8], e.Length)
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}

	if p.Header.Flags.HasBlobs() {
		for _, e := range p.entries {
			if _, err := w.Write(e.Blob[:]); err != nil {
				return err
			}
		}
	}

	if p.Header.Flags.HasNames() {
		if p.Header.SubdirOffset != 0 {
			if err := writeCString(w, p.Subdirectory); err != nil {
				return err
			}
		}
		for _, e := range p.entries {
			if err := writeCString(w, e.Name); err != nil {
				return err
			}
		}
	}

	if _, err := w.Write(p.PostHeaderTail); err != nil {
		return err
	}

	blockSize := int(p.Header.BlockSize)
	for _, e := range p.entries {
		if _, err := w.Write(e.Data); err != nil {
			return err
		}
		if blockSize == 0 {
			continue
		}
		if remainder := blockSize - len(e.Data)%blockSize; remainder != blockSize {
			if _, err := w.Write(make([]byte, remainder)); err != nil {
				return err
			}
		}
	}

	return nil
}

// Replace sets entry index's data, then slides every subsequent entry's
// offset forward to keep entries block-contiguous. The replaced entry's
// own offset is unchanged.
func (p *Pak) Replace(index int, data []byte) error {
	if index < 0 || index >= len(p.entries) {
		return errs.ErrIndexError
	}

	blockSize := p.Header.BlockSize
	p.entries[index].Data = data
	p.entries[index].Length = uint32(len(data))

	next := p.entries[index].Offset + ceilDivBlocks(p.entries[index].Length, blockSize)
	realigned := 0
	for i := index + 1; i < len(p.entries); i++ {
		p.entries[i].Offset = next
		next = p.entries[i].Offset + ceilDivBlocks(p.entries[i].Length, blockSize)
		realigned++
	}
	logger.Debug("pak: replaced entry", "index", index, "new_length", len(data), "realigned", realigned)
	return nil
}

// ReplaceByID is Replace, looking up the entry by Header.IDStart-relative
// ID rather than index.
func (p *Pak) ReplaceByID(id uint32, data []byte) error {
	e, ok := p.GetEntryByID(id)
	if !ok {
		return errs.ErrIndexError
	}
	return p.Replace(e.Index, data)
}

// ReplaceByName is Replace, looking up the entry by name.
func (p *Pak) ReplaceByName(name string, data []byte) error {
	e, ok := p.GetEntryByName(name)
	if !ok {
		return errs.ErrIndexError
	}
	return p.Replace(e.Index, data)
}

// Entries returns every entry in index order. The returned slice shares
// storage with p; callers that need to mutate an entry's data should go
// through Replace so offsets stay consistent.
func (p *Pak) Entries() []Entry { return p.entries }

// GetEntryByID returns the entry with the given ID, if any.
func (p *Pak) GetEntryByID(id uint32) (*Entry, bool) {
	idx := int(id - p.Header.IDStart)
	if idx < 0 || idx >= len(p.entries) {
		return nil, false
	}
	return &p.entries[idx], true
}

// GetEntryByName returns the first entry with the given name, if any.
func (p *Pak) GetEntryByName(name string) (*Entry, bool) {
	for i := range p.entries {
		if p.entries[i].Name == name {
			return &p.entries[i], true
		}
	}
	return nil, false
}

// ContainsName reports whether any entry has the given name.
func (p *Pak) ContainsName(name string) bool {
	_, ok := p.GetEntryByName(name)
	return ok
}

func ceilDivBlocks(length, blockSize uint32) uint32 {
	if blockSize == 0 {
		return 0
	}
	return (length + blockSize - 1) / blockSize
}

func readCString(r io.Reader) (string, error) {
	var buf []byte
	var b [1]byte
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return "", err
		}
		if b[0] == 0 {
			return string(buf), nil
		}
		buf = append(buf, b[0])
	}
}

func writeCString(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return err
	}
	_, err := w.Write([]byte{0})
	return err
}

// Checksums returns a diagnostic CRC-32 of every entry's data plus a
// combined CRC-32 across all entries in index order, folded together the
// way bzip2 combines per-block CRCs into one stream CRC. This has no
// bearing on the archive's wire format; it exists to let tooling verify
// an extracted or replaced entry without re-reading the whole archive.
func (p *Pak) Checksums() (perEntry []uint32, combined uint32) {
	perEntry = make([]uint32, len(p.entries))
	for i, e := range p.entries {
		perEntry[i] = crc32.ChecksumIEEE(e.Data)
	}
	if len(perEntry) == 0 {
		return perEntry, 0
	}
	combined = perEntry[0]
	for i := 1; i < len(perEntry); i++ {
		combined = hashutil.CombineCRC32(crc32.IEEE, combined, perEntry[i], int64(len(p.entries[i].Data)))
	}
	return perEntry, combined
}

// VerifyEntry reports whether entry index's current data matches want.
func (p *Pak) VerifyEntry(index int, want uint32) (bool, error) {
	if index < 0 || index >= len(p.entries) {
		return false, errs.ErrIndexError
	}
	return crc32.ChecksumIEEE(p.entries[index].Data) == want, nil
}
