package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tos-asset-extract/internal/gltfexport"
	"tos-asset-extract/internal/xac"
)

func main() {
	out := flag.String("o", "", "Output .glb path (default: entry name with .glb)")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: xac2glb [-o out.glb] archive.ipf entry.xac")
		os.Exit(2)
	}
	archivePath, entryName := flag.Arg(0), flag.Arg(1)

	meshes, err := xac.ExtractModels(archivePath, entryName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	outPath := *out
	if outPath == "" {
		base := filepath.Base(strings.ReplaceAll(entryName, "\\", "/"))
		outPath = strings.TrimSuffix(base, filepath.Ext(base)) + ".glb"
	}

	if err := gltfexport.Export(meshes, outPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	subs := 0
	for i := range meshes {
		subs += meshes[i].SubmeshCount()
	}
	fmt.Printf("%s: %d meshes, %d submeshes -> %s\n", entryName, len(meshes), subs, outPath)
}
