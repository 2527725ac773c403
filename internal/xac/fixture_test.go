package xac

import (
	"bytes"
	"encoding/binary"
	"math"
)

// actorBuilder assembles synthetic actor files for tests.
type actorBuilder struct {
	buf bytes.Buffer
}

func newActorBuilder() *actorBuilder {
	b := &actorBuilder{}
	b.buf.WriteString("XAC ")
	b.buf.Write([]byte{1, 0, 0, 0}) // hiVer, loVer, little-endian, mulOrder
	return b
}

func (b *actorBuilder) chunk(id, version uint32, payload []byte) *actorBuilder {
	le := binary.LittleEndian
	binary.Write(&b.buf, le, id)
	binary.Write(&b.buf, le, uint32(len(payload)))
	binary.Write(&b.buf, le, version)
	b.buf.Write(payload)
	return b
}

func (b *actorBuilder) bytes() []byte {
	return b.buf.Bytes()
}

// payload is a little-endian scratch buffer for chunk bodies.
type payload struct {
	bytes.Buffer
}

func (p *payload) u8(v uint8)   { p.WriteByte(v) }
func (p *payload) u16(v uint16) { binary.Write(p, binary.LittleEndian, v) }
func (p *payload) u32(v uint32) { binary.Write(p, binary.LittleEndian, v) }
func (p *payload) f32(v float32) {
	p.u32(math.Float32bits(v))
}
func (p *payload) str(s string) {
	p.u32(uint32(len(s)))
	p.WriteString(s)
}
func (p *payload) pad(n int) {
	p.Write(make([]byte, n))
}

// stdMaterialV1 builds a version 1 standard material chunk body with
// neutral lighting constants.
func stdMaterialV1(name string) []byte {
	var p payload
	for i := 0; i < 16; i++ { // ambient, diffuse, specular, emissive
		p.f32(1)
	}
	p.f32(25)  // shine
	p.f32(1)   // shine strength
	p.f32(1)   // opacity
	p.f32(1.5) // index of refraction
	p.u8(0)    // double sided
	p.u8(0)    // wireframe
	p.u8(0)    // transparency type
	p.u8(0)    // padding
	p.str(name)
	return p.Bytes()
}

// meshLayer is one attribute stream for meshChunkV1.
type meshLayer struct {
	typeID   uint32
	elemSize uint32
	data     []byte
}

// meshSub is one submesh record for meshChunkV1.
type meshSub struct {
	numVerts      uint32
	materialIndex uint32
	indices       []uint32
	bones         []uint32
}

// meshChunkV1 builds a version 1 mesh chunk body.
func meshChunkV1(nodeIndex, origVerts, totalVerts uint32, layers []meshLayer, subs []meshSub) []byte {
	totalIndices := uint32(0)
	for _, s := range subs {
		totalIndices += uint32(len(s.indices))
	}

	var p payload
	p.u32(nodeIndex)
	p.u32(origVerts)
	p.u32(totalVerts)
	p.u32(totalIndices)
	p.u32(uint32(len(subs)))
	p.u32(uint32(len(layers)))
	p.u8(0) // collision mesh flag
	p.pad(3)

	for _, l := range layers {
		p.u32(l.typeID)
		p.u32(l.elemSize)
		p.pad(4) // deformation flag, scale flag, padding
		p.Write(l.data)
	}
	for _, s := range subs {
		p.u32(uint32(len(s.indices)))
		p.u32(s.numVerts)
		p.u32(s.materialIndex)
		p.u32(uint32(len(s.bones)))
		for _, ix := range s.indices {
			p.u32(ix)
		}
		for _, bn := range s.bones {
			p.u32(bn)
		}
	}
	return p.Bytes()
}

// vec3Layer packs [x y z] triples into a positions/normals style stream.
func vec3Layer(typeID uint32, vals ...[3]float32) meshLayer {
	var p payload
	for _, v := range vals {
		p.f32(v[0])
		p.f32(v[1])
		p.f32(v[2])
	}
	return meshLayer{typeID: typeID, elemSize: 12, data: p.Bytes()}
}

func vec2Layer(typeID uint32, vals ...[2]float32) meshLayer {
	var p payload
	for _, v := range vals {
		p.f32(v[0])
		p.f32(v[1])
	}
	return meshLayer{typeID: typeID, elemSize: 8, data: p.Bytes()}
}

func u32Layer(typeID uint32, vals ...uint32) meshLayer {
	var p payload
	for _, v := range vals {
		p.u32(v)
	}
	return meshLayer{typeID: typeID, elemSize: 4, data: p.Bytes()}
}
