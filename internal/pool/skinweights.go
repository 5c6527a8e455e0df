package pool

import "golang.org/x/exp/slices"

// WeightBlock holds the weights of up to 16 vertices for every variant.
// Width is the largest merged influence count of any vertex in the block;
// Values is laid out [variant][lane][vertexOffset], where lane is the rank
// of a joint within the vertex's merged index row.
type WeightBlock struct {
	Width  int
	Values []float32
}

func (b *WeightBlock) index(variant, lane, offset int) int {
	return (variant*b.Width+lane)*BlockWidth + offset
}

type skinWeightMesh struct {
	indices       VariableWidthMatrix[uint16]
	blocks        []WeightBlock
	maxInfluences uint16
}

// SkinWeightPool stores per-vertex joint influences of every variant. All
// variants share one merged joint index row per vertex.
type SkinWeightPool struct {
	meshes   []skinWeightMesh
	variants int
}

func newSkinWeightPool(archetype RigSource, dnas []RigSource) SkinWeightPool {
	meshCount := int(archetype.MeshCount())
	jointCount := int(archetype.JointCount())
	p := SkinWeightPool{
		meshes:   make([]skinWeightMesh, meshCount),
		variants: len(dnas),
	}
	for m := 0; m < meshCount; m++ {
		p.meshes[m] = buildSkinWeightMesh(uint16(m), jointCount, dnas)
	}
	return p
}

func buildSkinWeightMesh(mesh uint16, jointCount int, dnas []RigSource) skinWeightMesh {
	var sm skinWeightMesh

	vertexCount := 0
	for _, dna := range dnas {
		if n := int(dna.SkinWeightsCount(mesh)); n > vertexCount {
			vertexCount = n
		}
		if mi := dna.MaximumInfluencePerVertex(mesh); mi > sm.maxInfluences {
			sm.maxInfluences = mi
		}
	}

	// Index merge: one sorted, deduplicated row per vertex.
	row := make([]uint16, 0, 16)
	for v := 0; v < vertexCount; v++ {
		row = row[:0]
		for _, dna := range dnas {
			if uint32(v) >= dna.SkinWeightsCount(mesh) {
				continue
			}
			for _, j := range dna.SkinWeightsJointIndices(mesh, uint32(v)) {
				if int(j) < jointCount {
					row = append(row, j)
				}
			}
		}
		slices.Sort(row)
		sm.indices.Append(slices.Compact(row))
	}

	// Dense packing: each block is only as wide as its widest vertex.
	sm.blocks = make([]WeightBlock, BlockCount(vertexCount))
	for b := range sm.blocks {
		width := 0
		for off := 0; off < BlockWidth; off++ {
			if w := sm.indices.RowWidth(b*BlockWidth + off); w > width {
				width = w
			}
		}
		sm.blocks[b] = WeightBlock{
			Width:  width,
			Values: make([]float32, len(dnas)*width*BlockWidth),
		}
	}

	for d, dna := range dnas {
		n := int(dna.SkinWeightsCount(mesh))
		for v := 0; v < n && v < vertexCount; v++ {
			merged := sm.indices.Row(v)
			blk := &sm.blocks[v/BlockWidth]
			offset := v % BlockWidth
			joints := dna.SkinWeightsJointIndices(mesh, uint32(v))
			weights := dna.SkinWeightsValues(mesh, uint32(v))
			for k, j := range joints {
				lane, found := slices.BinarySearch(merged, j)
				if !found {
					continue
				}
				blk.Values[blk.index(d, lane, offset)] = at(weights, k)
			}
		}
	}
	return sm
}

// MeshCount returns the number of meshes held.
func (p *SkinWeightPool) MeshCount() int {
	return len(p.meshes)
}

// VertexCount returns the number of skinned vertices of a mesh.
func (p *SkinWeightPool) VertexCount(mesh int) int {
	if mesh < 0 || mesh >= len(p.meshes) {
		return 0
	}
	return p.meshes[mesh].indices.RowCount()
}

// MaximumInfluences returns the largest per-vertex influence bound any
// variant declared for a mesh.
func (p *SkinWeightPool) MaximumInfluences(mesh int) int {
	if mesh < 0 || mesh >= len(p.meshes) {
		return 0
	}
	return int(p.meshes[mesh].maxInfluences)
}

// JointIndices returns the merged joint index row of a vertex. The slice
// must not be modified.
func (p *SkinWeightPool) JointIndices(mesh, vertex int) []uint16 {
	if mesh < 0 || mesh >= len(p.meshes) {
		return nil
	}
	return p.meshes[mesh].indices.Row(vertex)
}

// Indices returns the shared index matrix of a mesh, or nil.
func (p *SkinWeightPool) Indices(mesh int) *VariableWidthMatrix[uint16] {
	if mesh < 0 || mesh >= len(p.meshes) {
		return nil
	}
	return &p.meshes[mesh].indices
}

// BlockCount returns the number of 16-vertex blocks of a mesh.
func (p *SkinWeightPool) BlockCount(mesh int) int {
	if mesh < 0 || mesh >= len(p.meshes) {
		return 0
	}
	return len(p.meshes[mesh].blocks)
}

// Block returns a weight block, or nil.
func (p *SkinWeightPool) Block(mesh, block int) *WeightBlock {
	if mesh < 0 || mesh >= len(p.meshes) {
		return nil
	}
	blocks := p.meshes[mesh].blocks
	if block < 0 || block >= len(blocks) {
		return nil
	}
	return &blocks[block]
}

// VariantWeights returns a variant's weights of a vertex, one per entry of
// JointIndices. Joints the variant does not reference have weight zero.
func (p *SkinWeightPool) VariantWeights(variant, mesh, vertex int) []float32 {
	row := p.JointIndices(mesh, vertex)
	if row == nil || variant < 0 || variant >= p.variants {
		return nil
	}
	blk := p.Block(mesh, vertex/BlockWidth)
	out := make([]float32, len(row))
	for lane := range row {
		out[lane] = blk.Values[blk.index(variant, lane, vertex%BlockWidth)]
	}
	return out
}

// VariantWeight returns the weight a variant assigns to a joint at a vertex.
func (p *SkinWeightPool) VariantWeight(variant, mesh, vertex int, joint uint16) float32 {
	row := p.JointIndices(mesh, vertex)
	if variant < 0 || variant >= p.variants {
		return 0
	}
	lane, found := slices.BinarySearch(row, joint)
	if !found {
		return 0
	}
	blk := p.Block(mesh, vertex/BlockWidth)
	return blk.Values[blk.index(variant, lane, vertex%BlockWidth)]
}
