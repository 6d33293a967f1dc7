// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"testing"

	"github.com/G2-Games/lbee-utils/pak"
)

func TestExtFor(t *testing.T) {
	cases := []struct {
		t    pak.EntryType
		want string
	}{
		{pak.TypeCZ0, ".cz0"},
		{pak.TypeCZ4, ".cz4"},
		{pak.TypeOGG, ".ogg"},
		{pak.TypeOGGPAK, ".ogg"},
		{pak.TypeWAV, ".wav"},
		{pak.TypeMVT, ".mvt"},
		{pak.TypeUnknown, ".bin"},
	}
	for _, c := range cases {
		if got := extFor(c.t); got != c.want {
			t.Errorf("extFor(%v) = %q, want %q", c.t, got, c.want)
		}
	}
}
