package xac

// Mesh is one decoded model unit: the submeshes of a single mesh chunk,
// in on-disk order.
type Mesh struct {
	// NodeIndex ties the mesh to its node in the actor hierarchy.
	NodeIndex uint32
	// OrigVertexCount is the size of the source skin-vertex list that
	// OrigVertexNumbers values index into.
	OrigVertexCount uint32
	Submeshes       []Submesh
}

// SubmeshCount is derived from the submesh slice, never stored.
func (m *Mesh) SubmeshCount() int { return len(m.Submeshes) }

// Submesh is a renderable subset of a mesh sharing one material. Every
// attribute stream except Indices either is empty (the layer was absent
// from the file, a valid state) or has exactly len(Positions) elements.
// Indices is a flattened triangle list; each value is < len(Positions).
type Submesh struct {
	// TextureName is resolved through the material table; empty when the
	// submesh references no material.
	TextureName string

	Positions  [][3]float32
	Normals    [][3]float32
	Tangents   [][4]float32
	Bitangents [][3]float32
	UVCoords   [][2]float32
	// Colors32 holds one packed little-endian word per vertex; byte
	// order low to high is B, G, R, A.
	Colors32  []uint32
	Colors128 [][4]float32
	// OrigVertexNumbers maps each vertex back to its position in the
	// source skin/bone-weight vertex list.
	OrigVertexNumbers []uint32

	Indices []uint32
}

// Node is one transform in the actor hierarchy.
type Node struct {
	Name          string
	ParentIndex   uint32
	Rotation      [4]float32
	ScaleRotation [4]float32
	Position      [3]float32
	Scale         [3]float32
	Shear         [3]float32
	Flags         uint8
}

// Info carries the actor file's provenance strings.
type Info struct {
	ExporterHi      uint8
	ExporterLo      uint8
	SourceApp       string
	OriginalFile    string
	CompilationDate string
	ActorName       string
}

// MaterialLayer is one texture map inside a standard material.
type MaterialLayer struct {
	Amount          float32
	UOffset         float32
	VOffset         float32
	UTiling         float32
	VTiling         float32
	RotationRadians float32
	MaterialNumber  uint16
	MapType         uint8
	BlendMode       uint8
	Texture         string
}

// Material is a standard (fixed-function) material definition.
type Material struct {
	Name             string
	Ambient          [4]float32
	Diffuse          [4]float32
	Specular         [4]float32
	Emissive         [4]float32
	Shine            float32
	ShineStrength    float32
	Opacity          float32
	IOR              float32
	DoubleSided      bool
	Wireframe        bool
	TransparencyType uint8
	Layers           []MaterialLayer
}

// FXMaterial is a shader-driven material; its bitmap parameters carry
// texture references.
type FXMaterial struct {
	Name            string
	EffectFile      string
	ShaderTechnique string
	IntParams       []IntParam
	FloatParams     []FloatParam
	ColorParams     []ColorParam
	BoolParams      []BoolParam
	Vector3Params   []Vector3Param
	BitmapParams    []BitmapParam
}

type IntParam struct {
	Name  string
	Value int32
}

type FloatParam struct {
	Name  string
	Value float32
}

type ColorParam struct {
	Name  string
	Value [4]float32
}

type BoolParam struct {
	Name  string
	Value bool
}

type Vector3Param struct {
	Name  string
	Value [3]float32
}

type BitmapParam struct {
	Name    string
	Texture string
}

// MaterialInfo summarizes the material chunks that follow it.
type MaterialInfo struct {
	LOD               uint32
	TotalMaterials    uint32
	StandardMaterials uint32
	FXMaterials       uint32
}

// SkinInfluence is one bone weight.
type SkinInfluence struct {
	Weight    float32
	NodeIndex uint32
}

// SkinTableEntry addresses the influence run for one original vertex.
type SkinTableEntry struct {
	StartIndex uint32
	Count      uint32
}

// SkinningInfo is the per-node bone weighting table.
type SkinningInfo struct {
	NodeIndex        uint32
	LOD              uint32
	LocalBones       uint32
	ForCollisionMesh bool
	Influences       []SkinInfluence
	Table            []SkinTableEntry
}
