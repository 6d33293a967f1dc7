// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command pakutil extracts PAK archives and replaces individual entries
// inside them.
//
// Example usage:
//	$ pakutil script.pak extract out/
//	$ pakutil script.pak replace -name bg_event01.cz3 new.cz3 patched.pak
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/G2-Games/lbee-utils/pak"
)

func main() {
	if len(os.Args) < 3 {
		usage()
		os.Exit(1)
	}

	archive, sub, rest := os.Args[1], os.Args[2], os.Args[3:]

	var err error
	switch sub {
	case "extract":
		err = runExtract(archive, rest)
	case "replace":
		err = runReplace(archive, rest)
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
	fmt.Fprintln(os.Stderr, "usage: pakutil ARCHIVE extract OUT_DIR")
	fmt.Fprintln(os.Stderr, "       pakutil ARCHIVE replace [-batch] [-name N | -id I] REPL OUT_PAK")
}

func openPak(path string) (*pak.Pak, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return pak.Decode(f)
}

func runExtract(archive string, args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) < 1 {
		return fmt.Errorf("extract: missing OUT_DIR")
	}
	outDir := rest[0]

	p, err := openPak(archive)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	for _, e := range p.Entries() {
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("%06d%s", e.ID, extFor(e.ProbeType()))
		}
		out := filepath.Join(outDir, name)
		if err := os.WriteFile(out, e.Payload(), 0o644); err != nil {
			return fmt.Errorf("entry %d: %w", e.Index, err)
		}
	}
	return nil
}

func extFor(t pak.EntryType) string {
	switch t {
	case pak.TypeCZ0:
		return ".cz0"
	case pak.TypeCZ1:
		return ".cz1"
	case pak.TypeCZ2:
		return ".cz2"
	case pak.TypeCZ3:
		return ".cz3"
	case pak.TypeCZ4:
		return ".cz4"
	case pak.TypeCZ5:
		return ".cz5"
	case pak.TypeMVT:
		return ".mvt"
	case pak.TypeWAV:
		return ".wav"
	case pak.TypeOGG, pak.TypeOGGPAK:
		return ".ogg"
	default:
		return ".bin"
	}
}

func runReplace(archive string, args []string) error {
	fs := flag.NewFlagSet("replace", flag.ExitOnError)
	batch := fs.Bool("batch", false, "treat REPL as a directory of per-entry replacement files")
	name := fs.String("name", "", "replace the entry with this name")
	id := fs.Int("id", -1, "replace the entry with this ID")
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) < 2 {
		return fmt.Errorf("replace: missing REPL OUT_PAK")
	}
	repl, outPath := rest[0], rest[1]

	p, err := openPak(archive)
	if err != nil {
		return err
	}

	if *batch {
		if *name != "" || *id >= 0 {
			return fmt.Errorf("replace: -name/-id are not used with -batch")
		}
		entries, err := os.ReadDir(repl)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			target, ok := p.GetEntryByName(e.Name())
			if !ok {
				continue // no archive entry by this name; skip
			}
			data, err := os.ReadFile(filepath.Join(repl, e.Name()))
			if err != nil {
				return err
			}
			if err := p.Replace(target.Index, data); err != nil {
				return err
			}
		}
	} else {
		data, err := os.ReadFile(repl)
		if err != nil {
			return err
		}
		switch {
		case *name != "":
			if err := p.ReplaceByName(*name, data); err != nil {
				return err
			}
		case *id >= 0:
			if err := p.ReplaceByID(uint32(*id), data); err != nil {
				return err
			}
		default:
			return fmt.Errorf("replace: exactly one of -name or -id is required")
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	return p.Encode(out)
}
