// Package gltfexport writes decoded actor meshes as binary glTF. Each
// submesh becomes one primitive; submeshes sharing a texture name share
// a material.
package gltfexport

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"tos-asset-extract/internal/xac"
)

// Export writes meshes to a .glb file at outPath.
func Export(meshes []xac.Mesh, outPath string) error {
	doc := BuildDocument(meshes)
	if err := gltf.SaveBinary(doc, outPath); err != nil {
		return fmt.Errorf("gltfexport: save %s: %w", outPath, err)
	}
	return nil
}

// BuildDocument converts meshes into an in-memory glTF document with
// one glTF mesh per source mesh and one node per mesh, all attached to
// the default scene.
func BuildDocument(meshes []xac.Mesh) *gltf.Document {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "tos-asset-extract"

	materialFor := make(map[string]int)

	for mi := range meshes {
		m := &meshes[mi]
		gm := &gltf.Mesh{Name: fmt.Sprintf("mesh%d", m.NodeIndex)}

		for si := range m.Submeshes {
			sub := &m.Submeshes[si]
			if len(sub.Positions) == 0 || len(sub.Indices) == 0 {
				continue
			}

			prim := &gltf.Primitive{Attributes: gltf.PrimitiveAttributes{}}
			prim.Attributes[gltf.POSITION] = modeler.WritePosition(doc, sub.Positions)
			if len(sub.Normals) > 0 {
				prim.Attributes[gltf.NORMAL] = modeler.WriteNormal(doc, sub.Normals)
			}
			if len(sub.UVCoords) > 0 {
				prim.Attributes[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, flipV(sub.UVCoords))
			}
			prim.Indices = gltf.Index(modeler.WriteIndices(doc, sub.Indices))
			prim.Material = gltf.Index(materialIndex(doc, materialFor, sub.TextureName))
			gm.Primitives = append(gm.Primitives, prim)
		}
		if len(gm.Primitives) == 0 {
			continue
		}

		doc.Meshes = append(doc.Meshes, gm)
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: gm.Name, Mesh: gltf.Index(len(doc.Meshes) - 1)})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}
	return doc
}

// materialIndex returns the material for a texture name, creating it on
// first use. The empty name maps to a single untextured material.
func materialIndex(doc *gltf.Document, seen map[string]int, texName string) int {
	if idx, ok := seen[texName]; ok {
		return idx
	}
	name := texName
	if name == "" {
		name = "untextured"
	}
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name: name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 1, 1, 1},
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(1),
		},
		AlphaMode:   gltf.AlphaOpaque,
		DoubleSided: true,
	})
	idx := len(doc.Materials) - 1
	seen[texName] = idx
	return idx
}

// flipV converts the source UV convention (V grows up) to glTF's (V
// grows down).
func flipV(uvs [][2]float32) [][2]float32 {
	out := make([][2]float32, len(uvs))
	for i, uv := range uvs {
		out[i] = [2]float32{uv[0], 1 - uv[1]}
	}
	return out
}
