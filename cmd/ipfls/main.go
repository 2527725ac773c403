package main

import (
	"flag"
	"fmt"
	"os"

	"tos-asset-extract/internal/ipf"
)

func main() {
	long := flag.Bool("l", false, "Long listing: sizes, CRC, container")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: ipfls [-l] archive.ipf ...")
		os.Exit(2)
	}

	failed := false
	for _, path := range flag.Args() {
		arc, err := ipf.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", path, err)
			failed = true
			continue
		}

		f := arc.Footer()
		fmt.Printf("%s: %d entries (revision %d, base %d)\n",
			path, len(arc.Entries()), f.Revision, f.BaseRevision)

		for i := range arc.Entries() {
			e := &arc.Entries()[i]
			if *long {
				mode := "stored"
				if e.Compressed() {
					mode = "deflate"
				}
				fmt.Printf("  %10d %10d %s %08x %-20s %s\n",
					e.CompressedSize, e.UncompressedSize, mode, e.CRC32, e.Container, e.Path)
			} else {
				fmt.Printf("  %s\n", e.Path)
			}
		}
	}

	if failed {
		os.Exit(1)
	}
}
