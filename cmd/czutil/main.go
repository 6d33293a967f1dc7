// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command czutil converts between CZ# image files and PNG, and swaps the
// bitmap inside an existing CZ# file.
//
// Example usage:
//	$ czutil decode bg_event01.cz3 bg_event01.png
//	$ czutil encode -version 3 -depth 32 bg_event01.png bg_event01.cz3
//	$ czutil replace bg_event01.cz3 patched.png bg_event01_new.cz3
package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/G2-Games/lbee-utils/cz"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "decode":
		err = runDecode(os.Args[2:])
	case "encode":
		err = runEncode(os.Args[2:])
	case "replace":
		err = runReplace(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: czutil decode|encode|replace ...")
}

// dims is a parsed "WxH" flag value.
type dims struct {
	w, h int
	set  bool
}

func (d *dims) String() string {
	if !d.set {
		return ""
	}
	return fmt.Sprintf("%dx%d", d.w, d.h)
}

func (d *dims) Set(s string) error {
	parts := strings.SplitN(s, "x", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid WxH value %q", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return fmt.Errorf("invalid width in %q: %v", s, err)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("invalid height in %q: %v", s, err)
	}
	d.w, d.h, d.set = w, h, true
	return nil
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	batch := fs.Bool("batch", false, "treat INPUT as a directory of CZ# files")
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) < 1 {
		return fmt.Errorf("decode: missing INPUT")
	}
	input := rest[0]

	if *batch {
		output := input
		if len(rest) >= 2 {
			output = rest[1]
		}
		entries, err := os.ReadDir(input)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(output, 0o755); err != nil {
			return err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			in := filepath.Join(input, e.Name())
			out := filepath.Join(output, replaceExt(e.Name(), ".png"))
			if err := decodeOne(in, out); err != nil {
				return fmt.Errorf("%s: %w", e.Name(), err)
			}
		}
		return nil
	}

	output := replaceExt(input, ".png")
	if len(rest) >= 2 {
		output = rest[1]
	}
	return decodeOne(input, output)
}

func decodeOne(input, output string) error {
	in, err := os.Open(input)
	if err != nil {
		return err
	}
	defer in.Close()

	f, err := cz.Decode(in)
	if err != nil {
		return err
	}

	img := rgbaToImage(f.RGBA, int(f.Common.Width), int(f.Common.Height))

	out, err := os.Create(output)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, img)
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	version := fs.Int("version", int(cz.CZ1), "CZ# version to write (0-4)")
	depth := fs.Int("depth", 32, "pixel depth: 8, 24, or 32")
	var crop, bounds, offset dims
	fs.Var(&crop, "crop", "crop WxH")
	fs.Var(&bounds, "bounds", "bounds WxH")
	fs.Var(&offset, "offset", "offset WxH")
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) < 2 {
		return fmt.Errorf("encode: missing INPUT OUTPUT")
	}
	input, output := rest[0], rest[1]

	rgba, width, height, err := readPNG(input)
	if err != nil {
		return err
	}

	v := cz.Version(*version)
	if !v.Valid() {
		return fmt.Errorf("invalid version %d", *version)
	}

	f := cz.FromRaw(v, width, height, rgba)
	if err := setDepth(f, *depth); err != nil {
		return err
	}
	if ext := extendedHeaderFromFlags(crop, bounds, offset, width, height); ext != nil {
		f.WithExtendedHeader(ext)
	}

	out, err := os.Create(output)
	if err != nil {
		return err
	}
	defer out.Close()
	return f.Encode(out)
}

func runReplace(args []string) error {
	fs := flag.NewFlagSet("replace", flag.ExitOnError)
	batch := fs.Bool("batch", false, "treat INPUT/REPLACEMENT/OUTPUT as directories")
	version := fs.Int("version", -1, "override CZ# version")
	depth := fs.Int("depth", -1, "override pixel depth")
	noClearPalette := fs.Bool("no-clear-palette", false, "keep the cached palette instead of regenerating it")
	noAutoBounds := fs.Bool("no-auto-bounds", false, "do not adjust crop/bounds to the replacement's dimensions")
	var crop, bounds, offset dims
	fs.Var(&crop, "crop", "crop WxH")
	fs.Var(&bounds, "bounds", "bounds WxH")
	fs.Var(&offset, "offset", "offset WxH")
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) < 3 {
		return fmt.Errorf("replace: missing INPUT REPLACEMENT OUTPUT")
	}
	input, replacement, output := rest[0], rest[1], rest[2]

	opts := replaceOpts{
		version:        *version,
		depth:          *depth,
		clearPalette:   !*noClearPalette,
		autoBounds:     !*noAutoBounds,
		crop:           crop,
		bounds:         bounds,
		offset:         offset,
	}

	if *batch {
		entries, err := os.ReadDir(input)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(output, 0o755); err != nil {
			return err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			in := filepath.Join(input, e.Name())
			repl := filepath.Join(replacement, replaceExt(e.Name(), ".png"))
			out := filepath.Join(output, e.Name())
			if _, err := os.Stat(repl); err != nil {
				continue // no matching replacement for this entry
			}
			if err := replaceOne(in, repl, out, opts); err != nil {
				return fmt.Errorf("%s: %w", e.Name(), err)
			}
		}
		return nil
	}

	return replaceOne(input, replacement, output, opts)
}

type replaceOpts struct {
	version      int
	depth        int
	clearPalette bool
	autoBounds   bool
	crop, bounds, offset dims
}

func replaceOne(input, replacement, output string, opts replaceOpts) error {
	in, err := os.Open(input)
	if err != nil {
		return err
	}
	f, err := cz.Decode(in)
	in.Close()
	if err != nil {
		return err
	}

	oldWidth, oldHeight := int(f.Common.Width), int(f.Common.Height)

	rgba, width, height, err := readPNG(replacement)
	if err != nil {
		return err
	}
	f.RGBA = rgba
	f.Common.Width = uint16(width)
	f.Common.Height = uint16(height)

	if opts.clearPalette {
		f.ClearPalette()
	}
	if opts.version >= 0 {
		f.SetVersion(cz.Version(opts.version))
	}
	if opts.depth >= 0 {
		if err := setDepth(f, opts.depth); err != nil {
			return err
		}
	}

	if opts.autoBounds && f.Ext != nil {
		if int(f.Ext.CropWidth) == oldWidth && int(f.Ext.CropHeight) == oldHeight {
			f.Ext.CropWidth, f.Ext.CropHeight = uint16(width), uint16(height)
		}
		if int(f.Ext.BoundsWidth) == oldWidth && int(f.Ext.BoundsHeight) == oldHeight {
			f.Ext.BoundsWidth, f.Ext.BoundsHeight = uint16(width), uint16(height)
		}
	}
	if ext := extendedHeaderFromFlags(opts.crop, opts.bounds, opts.offset, width, height); ext != nil {
		f.WithExtendedHeader(ext)
	}

	out, err := os.Create(output)
	if err != nil {
		return err
	}
	defer out.Close()
	return f.Encode(out)
}

func setDepth(f *cz.File, depth int) error {
	switch depth {
	case 8, 24, 32:
		f.SetDepth(uint16(depth))
		return nil
	default:
		return fmt.Errorf("unsupported depth %d", depth)
	}
}

func extendedHeaderFromFlags(crop, bounds, offset dims, width, height int) *cz.ExtendedHeader {
	if !crop.set && !bounds.set && !offset.set {
		return nil
	}
	ext := &cz.ExtendedHeader{
		CropWidth: uint16(width), CropHeight: uint16(height),
		BoundsWidth: uint16(width), BoundsHeight: uint16(height),
	}
	if crop.set {
		ext.CropWidth, ext.CropHeight = uint16(crop.w), uint16(crop.h)
	}
	if bounds.set {
		ext.BoundsWidth, ext.BoundsHeight = uint16(bounds.w), uint16(bounds.h)
	}
	if offset.set {
		ext.HasOffset = true
		ext.OffsetX, ext.OffsetY = uint16(offset.w), uint16(offset.h)
	}
	return ext
}

// readPNG decodes a PNG file into straight-alpha RGBA bytes.
func readPNG(path string) (rgba []byte, width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, 0, 0, err
	}

	b := img.Bounds()
	width, height = b.Dx(), b.Dy()
	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), img, b.Min, draw.Src)
	return canvas.Pix, width, height, nil
}

func rgbaToImage(rgba []byte, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, rgba)
	return img
}

func replaceExt(name, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}
