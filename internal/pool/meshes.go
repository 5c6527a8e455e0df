package pool

import "github.com/Faultbox/genepool/pkg/math"

// NeutralMeshPool stores archetype vertex positions and blocked per-variant
// deltas, per mesh.
type NeutralMeshPool struct {
	archetype []xyzArray
	deltas    []blockedXYZ
}

func newNeutralMeshPool(archetype RigSource, dnas []RigSource) NeutralMeshPool {
	meshCount := int(archetype.MeshCount())
	p := NeutralMeshPool{
		archetype: make([]xyzArray, meshCount),
		deltas:    make([]blockedXYZ, meshCount),
	}

	for m := 0; m < meshCount; m++ {
		mesh := uint16(m)
		n := int(archetype.VertexPositionCount(mesh))
		arch := copyXYZ(n, archetype.VertexPositionXs(mesh), archetype.VertexPositionYs(mesh), archetype.VertexPositionZs(mesh))
		deltas := newBlockedXYZ(BlockCount(n), len(dnas))

		for d, dna := range dnas {
			xs, ys, zs := dna.VertexPositionXs(mesh), dna.VertexPositionYs(mesh), dna.VertexPositionZs(mesh)
			for v := 0; v < n; v++ {
				deltas.set(d, v,
					at(xs, v)-arch.Xs[v],
					at(ys, v)-arch.Ys[v],
					at(zs, v)-arch.Zs[v])
			}
		}

		p.archetype[m] = arch
		p.deltas[m] = deltas
	}
	return p
}

// MeshCount returns the number of meshes held.
func (p *NeutralMeshPool) MeshCount() int {
	return len(p.archetype)
}

// VertexCount returns the logical vertex count of a mesh.
func (p *NeutralMeshPool) VertexCount(mesh int) int {
	if mesh < 0 || mesh >= len(p.archetype) {
		return 0
	}
	return p.archetype[mesh].Len()
}

// BlockCount returns the number of 16-vertex blocks of a mesh.
func (p *NeutralMeshPool) BlockCount(mesh int) int {
	if mesh < 0 || mesh >= len(p.deltas) {
		return 0
	}
	return p.deltas[mesh].blockCount()
}

// Block returns the delta block of a variant, or nil. Lanes past
// VertexCount in the final block are zero.
func (p *NeutralMeshPool) Block(mesh, block, variant int) *XYZBlock {
	if mesh < 0 || mesh >= len(p.deltas) {
		return nil
	}
	return p.deltas[mesh].at(block, variant)
}

// ArchetypeVertexPosition returns the archetype position of a vertex.
func (p *NeutralMeshPool) ArchetypeVertexPosition(mesh, vertex int) math.Vec3 {
	if mesh < 0 || mesh >= len(p.archetype) {
		return math.Vec3{}
	}
	v, _ := p.archetype[mesh].at(vertex)
	return v
}

// VertexDelta returns the stored delta of a variant vertex.
func (p *NeutralMeshPool) VertexDelta(variant, mesh, vertex int) math.Vec3 {
	if mesh < 0 || mesh >= len(p.deltas) || vertex >= p.VertexCount(mesh) {
		return math.Vec3{}
	}
	x, y, z, _ := p.deltas[mesh].get(variant, vertex)
	return math.V3(x, y, z)
}

// VariantVertexPosition reconstructs the absolute position of a variant
// vertex as archetype + delta. Out of range indices yield a zero vector.
func (p *NeutralMeshPool) VariantVertexPosition(variant, mesh, vertex int) math.Vec3 {
	if mesh < 0 || mesh >= len(p.deltas) {
		return math.Vec3{}
	}
	return reconstruct(&p.archetype[mesh], &p.deltas[mesh], variant, vertex)
}
