package main

import (
	"flag"
	"fmt"
	"os"

	"tos-asset-extract/internal/xac"
)

// xacdump prints a bounded preview of every attribute stream of a
// model entry, for eyeballing a decode without loading a viewer.
func main() {
	maxSubs := flag.Int("submeshes", 1, "Max submeshes to dump per mesh")
	maxVals := flag.Int("n", 10, "Max values to dump per attribute stream")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: xacdump [-submeshes N] [-n N] archive.ipf entry.xac")
		os.Exit(2)
	}

	meshes, err := xac.ExtractModels(flag.Arg(0), flag.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Number of meshes: %d\n", len(meshes))
	for mi, m := range meshes {
		fmt.Printf("\nMesh %d: node=%d submeshes=%d\n", mi, m.NodeIndex, m.SubmeshCount())

		limit := *maxSubs
		if limit > len(m.Submeshes) {
			limit = len(m.Submeshes)
		}
		for si := 0; si < limit; si++ {
			sub := &m.Submeshes[si]
			fmt.Printf("Submesh %d:\n", si+1)
			fmt.Printf("  Texture Name: %s\n", sub.TextureName)

			dumpVec3("Positions", sub.Positions, *maxVals)
			dumpVec3("Normals", sub.Normals, *maxVals)
			dumpVec4("Tangents", sub.Tangents, *maxVals)
			dumpVec2("UV Coordinates", sub.UVCoords, *maxVals)
			dumpU32("Colors32", sub.Colors32, *maxVals)
			dumpU32("Original Vertex Numbers", sub.OrigVertexNumbers, *maxVals)
			dumpVec4("Colors128", sub.Colors128, *maxVals)
			dumpVec3("Bitangents", sub.Bitangents, *maxVals)
			dumpU32("Indices", sub.Indices, *maxVals)
		}
	}
}

func bound(name string, total, max int) int {
	n := total
	if n > max {
		n = max
	}
	fmt.Printf("  %s (showing %d of %d):\n", name, n, total)
	return n
}

func dumpVec2(name string, vals [][2]float32, max int) {
	for i := 0; i < bound(name, len(vals), max); i++ {
		fmt.Printf("    [%g, %g]\n", vals[i][0], vals[i][1])
	}
}

func dumpVec3(name string, vals [][3]float32, max int) {
	for i := 0; i < bound(name, len(vals), max); i++ {
		fmt.Printf("    [%g, %g, %g]\n", vals[i][0], vals[i][1], vals[i][2])
	}
}

func dumpVec4(name string, vals [][4]float32, max int) {
	for i := 0; i < bound(name, len(vals), max); i++ {
		fmt.Printf("    [%g, %g, %g, %g]\n", vals[i][0], vals[i][1], vals[i][2], vals[i][3])
	}
}

func dumpU32(name string, vals []uint32, max int) {
	for i := 0; i < bound(name, len(vals), max); i++ {
		fmt.Printf("    %d\n", vals[i])
	}
}
