// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import "testing"

func TestDimsSet(t *testing.T) {
	var d dims
	if err := d.Set("128x64"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if d.w != 128 || d.h != 64 || !d.set {
		t.Fatalf("Set(128x64) = %+v", d)
	}
	if got := d.String(); got != "128x64" {
		t.Fatalf("String() = %q, want %q", got, "128x64")
	}
}

func TestDimsSetInvalid(t *testing.T) {
	var d dims
	for _, s := range []string{"128", "128x", "x64", "axb"} {
		if err := d.Set(s); err == nil {
			t.Errorf("Set(%q) = nil, want an error", s)
		}
	}
}

func TestReplaceExt(t *testing.T) {
	cases := map[string]string{
		"bg_event01.cz3": "bg_event01.png",
		"noext":          "noext.png",
		"a.b.cz1":        "a.b.png",
	}
	for in, want := range cases {
		if got := replaceExt(in, ".png"); got != want {
			t.Errorf("replaceExt(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtendedHeaderFromFlagsNilWhenUnset(t *testing.T) {
	var crop, bounds, offset dims
	if ext := extendedHeaderFromFlags(crop, bounds, offset, 10, 10); ext != nil {
		t.Fatalf("expected nil extended header when no dims flags are set")
	}
}

func TestExtendedHeaderFromFlagsDefaultsToDimensions(t *testing.T) {
	var crop, bounds, offset dims
	crop.Set("4x5")
	ext := extendedHeaderFromFlags(crop, bounds, offset, 10, 20)
	if ext == nil {
		t.Fatalf("expected a non-nil extended header")
	}
	if ext.CropWidth != 4 || ext.CropHeight != 5 {
		t.Fatalf("crop = %dx%d, want 4x5", ext.CropWidth, ext.CropHeight)
	}
	if ext.BoundsWidth != 10 || ext.BoundsHeight != 20 {
		t.Fatalf("bounds defaulted to %dx%d, want 10x20", ext.BoundsWidth, ext.BoundsHeight)
	}
	if ext.HasOffset {
		t.Fatalf("HasOffset = true, want false")
	}
}
