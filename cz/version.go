// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package cz implements the CZ# image container used by the LUCA System
// engine: a common header, an optional extended header, an optional
// palette, and a version-dispatched payload codec (see package lzw for
// the payload compression and package imaging for the line-diff and
// palette machinery the payloads build on).
package cz

import "github.com/G2-Games/lbee-utils/errs"

// Version identifies one of the six CZ# payload formats.
type Version uint8

const (
	CZ0 Version = 0
	CZ1 Version = 1
	CZ2 Version = 2
	CZ3 Version = 3
	CZ4 Version = 4
	CZ5 Version = 5
)

func (v Version) String() string {
	if v > CZ5 {
		return "CZ?"
	}
	return "CZ" + string('0'+byte(v))
}

// Valid reports whether v is one of CZ0..CZ5. Values above 5 never
// appear in a well-formed magic and are rejected as InvalidVersionError
// rather than NotCzFile, since the 'C','Z' prefix still matched.
func (v Version) Valid() bool {
	return v <= CZ5
}

// parseVersion extracts the version digit from a CZ# magic's third byte.
func parseVersion(digit byte) (Version, error) {
	if digit < '0' || digit > '9' {
		return 0, errs.ErrNotCzFile
	}
	v := Version(digit - '0')
	if !v.Valid() {
		return 0, &errs.InvalidVersionError{Value: byte(v)}
	}
	return v, nil
}

// Sniff reports the CZ# version of data's leading bytes, if any. It only
// inspects the magic ('C','Z',digit) and never validates the rest of the
// header; callers that need a fully parsed header should use Decode.
func Sniff(data []byte) (Version, bool) {
	if len(data) < 3 || data[0] != 'C' || data[1] != 'Z' {
		return 0, false
	}
	v, err := parseVersion(data[2])
	if err != nil {
		return 0, false
	}
	return v, true
}
