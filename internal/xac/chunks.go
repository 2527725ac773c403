package xac

import (
	"tos-asset-extract/internal/binreader"
)

func (p *parser) decodeInfo(r *binreader.Reader, version uint32) error {
	var info Info
	var err error

	skipU32 := func(n int) {
		for i := 0; i < n && err == nil; i++ {
			_, err = r.U32()
		}
	}

	switch version {
	case 1:
		skipU32(2) // repositioning mask, repositioning node
	case 2:
		skipU32(2)
	case 3:
		skipU32(3) // trajectory node, motion extraction node, mask
	case 4:
		skipU32(3) // LOD count, trajectory node, motion extraction node
	}
	if err == nil {
		info.ExporterHi, err = r.U8()
	}
	if err == nil {
		info.ExporterLo, err = r.U8()
	}
	if version >= 2 && err == nil {
		_, err = r.F32() // retarget root offset
	}
	if err == nil {
		_, err = r.U16() // padding
	}
	if err != nil {
		return err
	}

	if info.SourceApp, err = readString(r); err != nil {
		return err
	}
	if info.OriginalFile, err = readString(r); err != nil {
		return err
	}
	if info.CompilationDate, err = readString(r); err != nil {
		return err
	}
	if info.ActorName, err = readString(r); err != nil {
		return err
	}
	p.actor.Info = &info
	return nil
}

func decodeNode(r *binreader.Reader, version uint32) (Node, error) {
	var n Node
	var err error

	if n.Rotation, err = readVec4(r); err != nil {
		return n, err
	}
	if n.ScaleRotation, err = readVec4(r); err != nil {
		return n, err
	}
	if n.Position, err = readVec3(r); err != nil {
		return n, err
	}
	if n.Scale, err = readVec3(r); err != nil {
		return n, err
	}
	if n.Shear, err = readVec3(r); err != nil {
		return n, err
	}
	if _, err = r.U32(); err != nil { // skeletal LODs
		return n, err
	}
	if version == 4 {
		if _, err = r.U32(); err != nil { // motion LODs
			return n, err
		}
	}
	if n.ParentIndex, err = r.U32(); err != nil {
		return n, err
	}
	if version == 4 {
		if _, err = r.U32(); err != nil { // child count
			return n, err
		}
	}
	if version >= 2 {
		if n.Flags, err = r.U8(); err != nil {
			return n, err
		}
	}
	if version >= 3 {
		if _, err = r.Bytes(16 * 4); err != nil { // oriented bounding box
			return n, err
		}
	}
	if version == 4 {
		if _, err = r.F32(); err != nil { // motion LOD importance
			return n, err
		}
	}
	if version >= 2 {
		if _, err = r.Bytes(3); err != nil { // padding
			return n, err
		}
	}
	n.Name, err = readString(r)
	return n, err
}

func (p *parser) decodeNodes(r *binreader.Reader) error {
	count, err := r.U32()
	if err != nil {
		return err
	}
	if _, err = r.U32(); err != nil { // root node count
		return err
	}
	for i := uint32(0); i < count; i++ {
		n, err := decodeNode(r, 4)
		if err != nil {
			return err
		}
		p.actor.Nodes = append(p.actor.Nodes, n)
	}
	return nil
}

func (p *parser) decodeMaterialInfo(r *binreader.Reader, version uint32) error {
	var mi MaterialInfo
	var err error
	if version == 2 {
		if mi.LOD, err = r.U32(); err != nil {
			return err
		}
	}
	if mi.TotalMaterials, err = r.U32(); err != nil {
		return err
	}
	if mi.StandardMaterials, err = r.U32(); err != nil {
		return err
	}
	if mi.FXMaterials, err = r.U32(); err != nil {
		return err
	}
	p.actor.MaterialInfo = &mi
	return nil
}

func (p *parser) decodeStdMaterial(r *binreader.Reader, version uint32) error {
	var m Material
	var err error

	if version == 3 {
		if _, err = r.U32(); err != nil { // LOD
			return err
		}
	}
	for _, dst := range []*[4]float32{&m.Ambient, &m.Diffuse, &m.Specular, &m.Emissive} {
		if *dst, err = readVec4(r); err != nil {
			return err
		}
	}
	if m.Shine, err = r.F32(); err != nil {
		return err
	}
	if m.ShineStrength, err = r.F32(); err != nil {
		return err
	}
	if m.Opacity, err = r.F32(); err != nil {
		return err
	}
	if m.IOR, err = r.F32(); err != nil {
		return err
	}
	ds, err := r.U8()
	if err != nil {
		return err
	}
	wf, err := r.U8()
	if err != nil {
		return err
	}
	m.DoubleSided = ds != 0
	m.Wireframe = wf != 0
	if m.TransparencyType, err = r.U8(); err != nil {
		return err
	}

	layerCount := uint8(0)
	if version == 1 {
		if _, err = r.U8(); err != nil { // padding
			return err
		}
	} else {
		if layerCount, err = r.U8(); err != nil {
			return err
		}
	}
	if m.Name, err = readString(r); err != nil {
		return err
	}
	for i := uint8(0); i < layerCount; i++ {
		l, err := decodeMaterialLayer(r, 2)
		if err != nil {
			return err
		}
		m.Layers = append(m.Layers, l)
	}

	p.actor.Materials = append(p.actor.Materials, m)
	p.actor.textures = append(p.actor.textures, m.Name)
	return nil
}

func decodeMaterialLayer(r *binreader.Reader, version uint32) (MaterialLayer, error) {
	var l MaterialLayer
	var err error
	for _, dst := range []*float32{&l.Amount, &l.UOffset, &l.VOffset, &l.UTiling, &l.VTiling, &l.RotationRadians} {
		if *dst, err = r.F32(); err != nil {
			return l, err
		}
	}
	if l.MaterialNumber, err = r.U16(); err != nil {
		return l, err
	}
	if l.MapType, err = r.U8(); err != nil {
		return l, err
	}
	b, err := r.U8() // v1: alignment padding, v2: blend mode
	if err != nil {
		return l, err
	}
	if version >= 2 {
		l.BlendMode = b
	}
	l.Texture, err = readString(r)
	return l, err
}

func (p *parser) decodeFXMaterial(r *binreader.Reader, version uint32) error {
	var m FXMaterial
	var err error

	if version == 3 {
		if _, err = r.U32(); err != nil { // LOD
			return err
		}
	}
	counts := make([]uint32, 0, 6)
	n := 4 // v1: int, float, color, bitmap
	if version >= 2 {
		n = 6 // + bool, vector3
	}
	for i := 0; i < n; i++ {
		c, err := r.U32()
		if err != nil {
			return err
		}
		counts = append(counts, c)
	}

	if m.Name, err = readString(r); err != nil {
		return err
	}
	if m.EffectFile, err = readString(r); err != nil {
		return err
	}
	if m.ShaderTechnique, err = readString(r); err != nil {
		return err
	}

	numInt, numFloat, numColor := counts[0], counts[1], counts[2]
	var numBool, numVec3, numBitmap uint32
	if version >= 2 {
		numBool, numVec3, numBitmap = counts[3], counts[4], counts[5]
	} else {
		numBitmap = counts[3]
	}

	for i := uint32(0); i < numInt; i++ {
		var pr IntParam
		if pr.Value, err = r.I32(); err != nil {
			return err
		}
		if pr.Name, err = readString(r); err != nil {
			return err
		}
		m.IntParams = append(m.IntParams, pr)
	}
	for i := uint32(0); i < numFloat; i++ {
		var pr FloatParam
		if pr.Value, err = r.F32(); err != nil {
			return err
		}
		if pr.Name, err = readString(r); err != nil {
			return err
		}
		m.FloatParams = append(m.FloatParams, pr)
	}
	for i := uint32(0); i < numColor; i++ {
		var pr ColorParam
		if pr.Value, err = readVec4(r); err != nil {
			return err
		}
		if pr.Name, err = readString(r); err != nil {
			return err
		}
		m.ColorParams = append(m.ColorParams, pr)
	}
	for i := uint32(0); i < numBool; i++ {
		var pr BoolParam
		b, err := r.U8()
		if err != nil {
			return err
		}
		pr.Value = b != 0
		if pr.Name, err = readString(r); err != nil {
			return err
		}
		m.BoolParams = append(m.BoolParams, pr)
	}
	for i := uint32(0); i < numVec3; i++ {
		var pr Vector3Param
		if pr.Value, err = readVec3(r); err != nil {
			return err
		}
		if pr.Name, err = readString(r); err != nil {
			return err
		}
		m.Vector3Params = append(m.Vector3Params, pr)
	}
	for i := uint32(0); i < numBitmap; i++ {
		var pr BitmapParam
		if pr.Name, err = readString(r); err != nil {
			return err
		}
		if pr.Texture, err = readString(r); err != nil {
			return err
		}
		m.BitmapParams = append(m.BitmapParams, pr)
		p.actor.textures = append(p.actor.textures, pr.Texture)
	}

	p.actor.FXMaterials = append(p.actor.FXMaterials, m)
	return nil
}

func (p *parser) decodeSkinningInfo(r *binreader.Reader, version uint32) error {
	var s SkinningInfo
	var err error

	if s.NodeIndex, err = r.U32(); err != nil {
		return err
	}
	if version == 4 {
		if s.LOD, err = r.U32(); err != nil {
			return err
		}
	}
	if version >= 3 {
		if s.LocalBones, err = r.U32(); err != nil {
			return err
		}
	}
	totalInfluences, err := r.U32()
	if err != nil {
		return err
	}
	coll, err := r.U8()
	if err != nil {
		return err
	}
	s.ForCollisionMesh = coll != 0
	if _, err = r.Bytes(3); err != nil { // padding
		return err
	}

	s.Influences = make([]SkinInfluence, 0, totalInfluences)
	for i := uint32(0); i < totalInfluences; i++ {
		var inf SkinInfluence
		if inf.Weight, err = r.F32(); err != nil {
			return err
		}
		if inf.NodeIndex, err = r.U32(); err != nil {
			return err
		}
		s.Influences = append(s.Influences, inf)
	}

	// The table has one entry per original vertex of the mesh on the
	// same node; a skinning chunk preceding its mesh chunk has nothing
	// to size the table with and keeps it empty.
	orgVerts := p.origVerts[s.NodeIndex]
	s.Table = make([]SkinTableEntry, 0, orgVerts)
	for i := uint32(0); i < orgVerts; i++ {
		var te SkinTableEntry
		if te.StartIndex, err = r.U32(); err != nil {
			return err
		}
		if te.Count, err = r.U32(); err != nil {
			return err
		}
		s.Table = append(s.Table, te)
	}

	p.actor.SkinningInfos = append(p.actor.SkinningInfos, s)
	return nil
}
