// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package testimg generates deterministic RGBA test bitmaps shared by the
// cz and imaging package tests.
package testimg

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
)

// rand implements a deterministic pseudo-random number generator so the
// bitmaps it drives stay identical across Go versions and platforms.
type rand struct {
	cipher.Block
	blk [aes.BlockSize]byte
}

func newRand(seed int) *rand {
	var key [aes.BlockSize]byte
	binary.LittleEndian.PutUint64(key[:], uint64(seed))
	c, _ := aes.NewCipher(key[:])
	return &rand{Block: c}
}

func (r *rand) bytes(n int) []byte {
	b := make([]byte, n)
	bb := b
	for len(bb) > 0 {
		r.Encrypt(r.blk[:], r.blk[:])
		cnt := copy(bb, r.blk[:])
		bb = bb[cnt:]
	}
	return b
}

func (r *rand) intn(n int) int {
	r.Encrypt(r.blk[:], r.blk[:])
	var x int
	x |= int(r.blk[0]) << 0
	x |= int(r.blk[1]) << 8
	x |= int(r.blk[2]&0x7f) << 16
	return x % n
}
