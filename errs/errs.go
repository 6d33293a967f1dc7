// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package errs defines the error taxonomy shared by the cz and pak
// packages, and a panic/recover bridge so that decoders can use ordinary
// panics internally and still return a plain error at the public API.
package errs

import (
	"fmt"
	"runtime"
)

// Error is the wrapper type for errors specific to this module.
type Error string

func (e Error) Error() string { return string(e) }

// Sentinel errors common to both the cz and pak packages.
const (
	ErrNotCzFile            = Error("cz: not a CZ# file")
	ErrUnimplementedVersion = Error("cz: version is recognized but not implemented")
	ErrUnsupportedDepth     = Error("cz: unsupported bit depth")
	ErrDecode               = Error("cz: decode failed")
	ErrFileCountMismatch    = Error("pak: entry count mismatch")
	ErrHeaderError          = Error("pak: malformed header")
	ErrIndexError           = Error("pak: index not found")
)

// VersionMismatchError reports that a header's version byte did not match
// the version a caller expected, e.g. decoding a CZ1 image via the Cz3
// decoder.
type VersionMismatchError struct {
	Expected, Got uint8
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("cz: version mismatch: expected CZ%d, got CZ%d", e.Expected, e.Got)
}

// InvalidVersionError reports a version byte outside the recognized range
// 0..=5.
type InvalidVersionError struct {
	Value uint8
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("cz: invalid version byte: %d", e.Value)
}

// PaletteError reports a missing palette, or a pixel index with no
// corresponding palette entry.
type PaletteError struct {
	Reason string
}

func (e *PaletteError) Error() string { return "cz: palette error: " + e.Reason }

// BitmapFormatError reports a bitmap whose length does not match the
// dimensions and depth it is being assigned against.
type BitmapFormatError struct {
	Reason string
}

func (e *BitmapFormatError) Error() string { return "cz: bitmap format error: " + e.Reason }

// CorruptError reports malformed compressed data.
type CorruptError struct {
	Reason string
}

func (e *CorruptError) Error() string { return "cz: corrupt: " + e.Reason }

// Recover is intended to be used in a defer statement within the public
// entry point of a decoder or encoder:
//
//	func Decode(r io.Reader) (f *File, err error) {
//		defer errs.Recover(&err)
//		...
//		panic(&errs.CorruptError{Reason: "bad element"})
//	}
//
// Internal helpers are free to panic with an error value (or a
// runtime.Error, which is always re-raised) and Recover converts that
// into a normal returned error, matching the approach the teacher takes
// in its own decoders.
func Recover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case error:
		*err = ex
	default:
		panic(ex)
	}
}
