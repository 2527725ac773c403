package gltfexport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"

	"tos-asset-extract/internal/xac"
)

func sampleMeshes() []xac.Mesh {
	return []xac.Mesh{
		{
			NodeIndex: 3,
			Submeshes: []xac.Submesh{
				{
					TextureName: "wall_stone.dds",
					Positions:   [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
					Normals:     [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
					UVCoords:    [][2]float32{{0, 0}, {1, 0}, {0, 1}},
					Indices:     []uint32{0, 1, 2},
				},
				{
					TextureName: "wall_stone.dds",
					Positions:   [][3]float32{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}},
					Indices:     []uint32{0, 1, 2},
				},
				// No geometry; must not produce a primitive.
				{TextureName: "empty.dds"},
			},
		},
	}
}

func TestBuildDocument(t *testing.T) {
	doc := BuildDocument(sampleMeshes())

	if len(doc.Meshes) != 1 {
		t.Fatalf("Meshes = %d, want 1", len(doc.Meshes))
	}
	prims := doc.Meshes[0].Primitives
	if len(prims) != 2 {
		t.Fatalf("Primitives = %d, want 2", len(prims))
	}

	if _, ok := prims[0].Attributes[gltf.POSITION]; !ok {
		t.Fatal("first primitive has no POSITION accessor")
	}
	if _, ok := prims[0].Attributes[gltf.NORMAL]; !ok {
		t.Fatal("first primitive has no NORMAL accessor")
	}
	if _, ok := prims[0].Attributes[gltf.TEXCOORD_0]; !ok {
		t.Fatal("first primitive has no TEXCOORD_0 accessor")
	}
	if prims[0].Indices == nil {
		t.Fatal("first primitive has no index accessor")
	}
	// Second submesh has no normals or UVs.
	if _, ok := prims[1].Attributes[gltf.NORMAL]; ok {
		t.Fatal("second primitive has a NORMAL accessor for an absent stream")
	}

	// Both textured submeshes share one material.
	if len(doc.Materials) != 1 {
		t.Fatalf("Materials = %d, want 1", len(doc.Materials))
	}
	if doc.Materials[0].Name != "wall_stone.dds" {
		t.Fatalf("material name = %q", doc.Materials[0].Name)
	}
	if *prims[0].Material != *prims[1].Material {
		t.Fatal("shared texture produced distinct materials")
	}

	if len(doc.Scenes[0].Nodes) != 1 {
		t.Fatalf("scene nodes = %d, want 1", len(doc.Scenes[0].Nodes))
	}
}

func TestUntexturedMaterial(t *testing.T) {
	meshes := []xac.Mesh{{
		Submeshes: []xac.Submesh{{
			Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			Indices:   []uint32{0, 1, 2},
		}},
	}}
	doc := BuildDocument(meshes)
	if len(doc.Materials) != 1 || doc.Materials[0].Name != "untextured" {
		t.Fatalf("Materials = %+v", doc.Materials)
	}
}

func TestFlipV(t *testing.T) {
	got := flipV([][2]float32{{0.25, 0}, {0.5, 1}, {0, 0.75}})
	want := [][2]float32{{0.25, 1}, {0.5, 0}, {0, 0.25}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("flipV[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestExportWritesGLB(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.glb")
	if err := Export(sampleMeshes(), outPath); err != nil {
		t.Fatalf("Export: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 12 || string(data[:4]) != "glTF" {
		t.Fatalf("output is not a binary glTF container (%d bytes)", len(data))
	}
}
