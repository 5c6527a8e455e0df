package pool

import (
	"golang.org/x/exp/slices"

	"github.com/Faultbox/genepool/pkg/math"
)

type blendShapeTarget struct {
	channel   uint16
	archetype xyzArray
	deltas    blockedXYZ
}

type blendShapeMesh struct {
	// One row per target: the merged vertex indices the target touches.
	vertexIndices VariableWidthMatrix[uint32]
	targets       []blendShapeTarget
}

// BlendShapePool stores blend-shape target deltas. For every target the
// vertex index lists of all rigs are merged into one row; archetype deltas
// are stored dense over that row and variants as blocked differences from
// the archetype.
type BlendShapePool struct {
	meshes []blendShapeMesh
}

func newBlendShapePool(archetype RigSource, dnas []RigSource) BlendShapePool {
	meshCount := int(archetype.MeshCount())
	p := BlendShapePool{meshes: make([]blendShapeMesh, meshCount)}

	sources := append([]RigSource{archetype}, dnas...)
	for m := 0; m < meshCount; m++ {
		mesh := uint16(m)
		vertexCount := archetype.VertexPositionCount(mesh)
		targetCount := int(archetype.BlendShapeTargetCount(mesh))
		bm := blendShapeMesh{targets: make([]blendShapeTarget, targetCount)}

		for t := 0; t < targetCount; t++ {
			target := uint16(t)
			merged := mergeVertexIndices(sources, mesh, target, vertexCount)
			bm.vertexIndices.Append(merged)

			arch := denseTargetDeltas(archetype, mesh, target, merged)
			bt := blendShapeTarget{
				channel:   archetype.BlendShapeChannelIndex(mesh, target),
				archetype: arch,
				deltas:    newBlockedXYZ(BlockCount(len(merged)), len(dnas)),
			}
			for d, dna := range dnas {
				dense := denseTargetDeltas(dna, mesh, target, merged)
				for i := range merged {
					bt.deltas.set(d, i,
						dense.Xs[i]-arch.Xs[i],
						dense.Ys[i]-arch.Ys[i],
						dense.Zs[i]-arch.Zs[i])
				}
			}
			bm.targets[t] = bt
		}
		p.meshes[m] = bm
	}
	return p
}

// mergeVertexIndices unions the vertex indices of a target across sources,
// dropping indices outside the mesh.
func mergeVertexIndices(sources []RigSource, mesh, target uint16, vertexCount uint32) []uint32 {
	var merged []uint32
	for _, src := range sources {
		if target >= src.BlendShapeTargetCount(mesh) {
			continue
		}
		for _, v := range src.BlendShapeTargetVertexIndices(mesh, target) {
			if v < vertexCount {
				merged = append(merged, v)
			}
		}
	}
	slices.Sort(merged)
	return slices.Compact(merged)
}

// denseTargetDeltas scatters a source's sparse target deltas onto the merged
// index row. Vertices the source does not touch stay zero.
func denseTargetDeltas(src RigSource, mesh, target uint16, merged []uint32) xyzArray {
	out := newXYZArray(len(merged))
	if target >= src.BlendShapeTargetCount(mesh) {
		return out
	}
	xs := src.BlendShapeTargetDeltaXs(mesh, target)
	ys := src.BlendShapeTargetDeltaYs(mesh, target)
	zs := src.BlendShapeTargetDeltaZs(mesh, target)
	for k, v := range src.BlendShapeTargetVertexIndices(mesh, target) {
		pos, found := slices.BinarySearch(merged, v)
		if !found {
			continue
		}
		out.set(pos, math.V3(at(xs, k), at(ys, k), at(zs, k)))
	}
	return out
}

func (p *BlendShapePool) target(mesh, target int) *blendShapeTarget {
	if mesh < 0 || mesh >= len(p.meshes) {
		return nil
	}
	targets := p.meshes[mesh].targets
	if target < 0 || target >= len(targets) {
		return nil
	}
	return &targets[target]
}

// MeshCount returns the number of meshes held.
func (p *BlendShapePool) MeshCount() int {
	return len(p.meshes)
}

// TargetCount returns the number of blend-shape targets of a mesh.
func (p *BlendShapePool) TargetCount(mesh int) int {
	if mesh < 0 || mesh >= len(p.meshes) {
		return 0
	}
	return len(p.meshes[mesh].targets)
}

// ChannelIndex returns the blend-shape channel driving a target.
func (p *BlendShapePool) ChannelIndex(mesh, target int) uint16 {
	if t := p.target(mesh, target); t != nil {
		return t.channel
	}
	return 0
}

// VertexIndices returns the merged vertex indices of a target. The slice
// must not be modified.
func (p *BlendShapePool) VertexIndices(mesh, target int) []uint32 {
	if mesh < 0 || mesh >= len(p.meshes) {
		return nil
	}
	return p.meshes[mesh].vertexIndices.Row(target)
}

// BlockCount returns the number of 16-entry blocks of a target.
func (p *BlendShapePool) BlockCount(mesh, target int) int {
	if t := p.target(mesh, target); t != nil {
		return t.deltas.blockCount()
	}
	return 0
}

// Block returns a variant's delta block of a target, or nil.
func (p *BlendShapePool) Block(mesh, target, block, variant int) *XYZBlock {
	if t := p.target(mesh, target); t != nil {
		return t.deltas.at(block, variant)
	}
	return nil
}

// ArchetypeDelta returns the archetype's delta at a merged position.
func (p *BlendShapePool) ArchetypeDelta(mesh, target, position int) math.Vec3 {
	if t := p.target(mesh, target); t != nil {
		v, _ := t.archetype.at(position)
		return v
	}
	return math.Vec3{}
}

// VariantDelta reconstructs a variant's delta at a merged position.
func (p *BlendShapePool) VariantDelta(variant, mesh, target, position int) math.Vec3 {
	if t := p.target(mesh, target); t != nil {
		return reconstruct(&t.archetype, &t.deltas, variant, position)
	}
	return math.Vec3{}
}
