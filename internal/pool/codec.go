package pool

import (
	"github.com/pkg/errors"

	"github.com/Faultbox/genepool/internal/archive"
)

// section describes one entry of the archive section table.
type section struct {
	index  int
	flag   Mask // None for sections that are always loaded
	name   string
	encode func(w *archive.Writer, p *genePool)
	decode func(r *archive.Reader, p *genePool) error
}

var sections = []section{
	{0, None, "metadata", encodeMetaData, decodeMetaData},
	{1, NeutralMeshes, "neutral meshes", encodeNeutralMeshes, decodeNeutralMeshes},
	{2, BlendShapes, "blend shapes", encodeBlendShapes, decodeBlendShapes},
	{3, NeutralJoints, "neutral joints", encodeNeutralJoints, decodeNeutralJoints},
	{4, SkinWeights, "skin weights", encodeSkinWeights, decodeSkinWeights},
	{5, JointBehavior, "joint behavior", encodeJointBehavior, decodeJointBehavior},
}

func corrupt(format string, args ...interface{}) error {
	return errors.Wrapf(ErrCorrupt, format, args...)
}

// --- metadata ---

func encodeMetaData(w *archive.Writer, p *genePool) {
	md := &p.meta
	w.String(md.DBName)
	w.String(md.DBComplexity)
	w.U16(md.DBMaxLOD)
	w.U8(uint8(md.Mask))
	w.U32(uint32(len(md.DNAs)))
	for _, dna := range md.DNAs {
		w.String(dna.Name)
		w.U16(dna.Gender)
		w.U16(dna.Age)
	}
	w.Strings(md.JointNames)
	w.U16s(md.JointParents)
	w.U32s(md.VertexCounts)
}

func decodeMetaData(r *archive.Reader, p *genePool) error {
	md := &p.meta
	md.DBName = r.String()
	md.DBComplexity = r.String()
	md.DBMaxLOD = r.U16()
	md.Mask = Mask(r.U8()) & All
	n := r.Count()
	md.DNAs = make([]DNAInfo, 0, n)
	for i := 0; i < n && r.Err() == nil; i++ {
		md.DNAs = append(md.DNAs, DNAInfo{Name: r.String(), Gender: r.U16(), Age: r.U16()})
	}
	md.JointNames = r.Strings()
	md.JointParents = r.U16s()
	md.VertexCounts = r.U32s()
	if err := r.Err(); err != nil {
		return err
	}
	if len(md.JointParents) != len(md.JointNames) {
		return corrupt("%d joint parents for %d joints", len(md.JointParents), len(md.JointNames))
	}
	return nil
}

// --- shared encodings ---

func encodeXYZArray(w *archive.Writer, a *xyzArray) {
	w.U32(uint32(a.Len()))
	w.F32Array(a.Xs)
	w.F32Array(a.Ys)
	w.F32Array(a.Zs)
}

func decodeXYZArray(r *archive.Reader) xyzArray {
	n := r.Count()
	a := xyzArray{Xs: r.F32Array(n), Ys: r.F32Array(n), Zs: r.F32Array(n)}
	if r.Err() != nil || n == 0 {
		return newXYZArray(0)
	}
	return a
}

func encodeBlockedXYZ(w *archive.Writer, b *blockedXYZ) {
	w.U32(uint32(b.blockCount()))
	w.U32(uint32(b.variants))
	for i := range b.blocks {
		w.F32Array(b.blocks[i].X[:])
		w.F32Array(b.blocks[i].Y[:])
		w.F32Array(b.blocks[i].Z[:])
	}
}

// decodeBlockedXYZ reads a blocked array and checks it against the expected
// element and variant counts.
func decodeBlockedXYZ(r *archive.Reader, elements, variants int) (blockedXYZ, error) {
	blocks := r.Count()
	v := r.Count()
	if err := r.Err(); err != nil {
		return blockedXYZ{}, err
	}
	if blocks != BlockCount(elements) || v != variants {
		return blockedXYZ{}, corrupt("%dx%d blocks for %d elements of %d variants", blocks, v, elements, variants)
	}
	b := newBlockedXYZ(blocks, v)
	for i := range b.blocks {
		copy(b.blocks[i].X[:], r.F32Array(BlockWidth))
		copy(b.blocks[i].Y[:], r.F32Array(BlockWidth))
		copy(b.blocks[i].Z[:], r.F32Array(BlockWidth))
	}
	return b, r.Err()
}

// --- neutral meshes ---

func encodeNeutralMeshes(w *archive.Writer, p *genePool) {
	nm := &p.neutralMeshes
	w.U32(uint32(nm.MeshCount()))
	for m := range nm.archetype {
		encodeXYZArray(w, &nm.archetype[m])
		encodeBlockedXYZ(w, &nm.deltas[m])
	}
}

func decodeNeutralMeshes(r *archive.Reader, p *genePool) error {
	n := r.Count()
	if r.Err() == nil && n != len(p.meta.VertexCounts) {
		return corrupt("%d meshes, expected %d", n, len(p.meta.VertexCounts))
	}
	nm := NeutralMeshPool{
		archetype: make([]xyzArray, 0, n),
		deltas:    make([]blockedXYZ, 0, n),
	}
	for m := 0; m < n && r.Err() == nil; m++ {
		arch := decodeXYZArray(r)
		if r.Err() == nil && arch.Len() != int(p.meta.VertexCounts[m]) {
			return corrupt("mesh %d: %d vertices, expected %d", m, arch.Len(), p.meta.VertexCounts[m])
		}
		deltas, err := decodeBlockedXYZ(r, arch.Len(), p.meta.DNACount())
		if err != nil {
			return errors.Wrapf(err, "mesh %d", m)
		}
		nm.archetype = append(nm.archetype, arch)
		nm.deltas = append(nm.deltas, deltas)
	}
	if err := r.Err(); err != nil {
		return err
	}
	p.neutralMeshes = nm
	return nil
}

// --- blend shapes ---

func encodeBlendShapes(w *archive.Writer, p *genePool) {
	bs := &p.blendShapes
	w.U32(uint32(len(bs.meshes)))
	for m := range bs.meshes {
		mesh := &bs.meshes[m]
		w.U32(uint32(len(mesh.targets)))
		for t := range mesh.targets {
			target := &mesh.targets[t]
			w.U16(target.channel)
			w.U32s(mesh.vertexIndices.Row(t))
			encodeXYZArray(w, &target.archetype)
			encodeBlockedXYZ(w, &target.deltas)
		}
	}
}

func decodeBlendShapes(r *archive.Reader, p *genePool) error {
	meshCount := r.Count()
	if r.Err() == nil && meshCount != len(p.meta.VertexCounts) {
		return corrupt("%d meshes, expected %d", meshCount, len(p.meta.VertexCounts))
	}
	bs := BlendShapePool{meshes: make([]blendShapeMesh, 0, meshCount)}
	for m := 0; m < meshCount && r.Err() == nil; m++ {
		vertexCount := p.meta.VertexCounts[m]
		targetCount := r.Count()
		mesh := blendShapeMesh{targets: make([]blendShapeTarget, 0, targetCount)}
		for t := 0; t < targetCount && r.Err() == nil; t++ {
			channel := r.U16()
			indices := r.U32s()
			for _, v := range indices {
				if v >= vertexCount {
					return corrupt("mesh %d target %d: vertex %d of %d", m, t, v, vertexCount)
				}
			}
			arch := decodeXYZArray(r)
			if r.Err() == nil && arch.Len() != len(indices) {
				return corrupt("mesh %d target %d: %d deltas for %d vertices", m, t, arch.Len(), len(indices))
			}
			deltas, err := decodeBlockedXYZ(r, len(indices), p.meta.DNACount())
			if err != nil {
				return errors.Wrapf(err, "mesh %d target %d", m, t)
			}
			mesh.vertexIndices.Append(indices)
			mesh.targets = append(mesh.targets, blendShapeTarget{channel: channel, archetype: arch, deltas: deltas})
		}
		bs.meshes = append(bs.meshes, mesh)
	}
	if err := r.Err(); err != nil {
		return err
	}
	p.blendShapes = bs
	return nil
}

// --- neutral joints ---

func encodeNeutralJoints(w *archive.Writer, p *genePool) {
	nj := &p.neutralJoints
	encodeXYZArray(w, &nj.translations)
	encodeXYZArray(w, &nj.rotations)
	encodeBlockedXYZ(w, &nj.translationDeltas)
	encodeBlockedXYZ(w, &nj.rotationDeltas)
}

func decodeNeutralJoints(r *archive.Reader, p *genePool) error {
	var (
		nj  NeutralJointPool
		err error
	)
	nj.translations = decodeXYZArray(r)
	nj.rotations = decodeXYZArray(r)
	if err := r.Err(); err != nil {
		return err
	}
	n := nj.translations.Len()
	if nj.rotations.Len() != n {
		return corrupt("%d rotations for %d translations", nj.rotations.Len(), n)
	}
	if nj.translationDeltas, err = decodeBlockedXYZ(r, n, p.meta.DNACount()); err != nil {
		return errors.Wrap(err, "translations")
	}
	if nj.rotationDeltas, err = decodeBlockedXYZ(r, n, p.meta.DNACount()); err != nil {
		return errors.Wrap(err, "rotations")
	}
	p.neutralJoints = nj
	return nil
}

// --- skin weights ---

func encodeSkinWeights(w *archive.Writer, p *genePool) {
	sw := &p.skinWeights
	w.U32(uint32(sw.variants))
	w.U32(uint32(len(sw.meshes)))
	for m := range sw.meshes {
		mesh := &sw.meshes[m]
		w.U16(mesh.maxInfluences)
		w.U32s(mesh.indices.ends)
		w.U16s(mesh.indices.values)
		w.U32(uint32(len(mesh.blocks)))
		for _, blk := range mesh.blocks {
			w.U32(uint32(blk.Width))
			w.F32Array(blk.Values)
		}
	}
}

func decodeSkinWeights(r *archive.Reader, p *genePool) error {
	variants := r.Count()
	meshCount := r.Count()
	if r.Err() == nil && variants != p.meta.DNACount() {
		return corrupt("skin weights hold %d variants, expected %d", variants, p.meta.DNACount())
	}
	sw := SkinWeightPool{variants: variants, meshes: make([]skinWeightMesh, 0, meshCount)}
	for m := 0; m < meshCount && r.Err() == nil; m++ {
		mesh := skinWeightMesh{maxInfluences: r.U16()}
		mesh.indices.ends = r.U32s()
		mesh.indices.values = r.U16s()
		if err := checkRowEnds(mesh.indices.ends, len(mesh.indices.values)); err != nil {
			return errors.Wrapf(err, "mesh %d", m)
		}
		blockCount := r.Count()
		if r.Err() == nil && blockCount != BlockCount(mesh.indices.RowCount()) {
			return corrupt("mesh %d: %d blocks for %d vertices", m, blockCount, mesh.indices.RowCount())
		}
		mesh.blocks = make([]WeightBlock, 0, blockCount)
		for b := 0; b < blockCount && r.Err() == nil; b++ {
			width := r.Count()
			widest := 0
			for off := 0; off < BlockWidth; off++ {
				if w := mesh.indices.RowWidth(b*BlockWidth + off); w > widest {
					widest = w
				}
			}
			if r.Err() == nil && width != widest {
				return corrupt("mesh %d block %d: width %d, widest row %d", m, b, width, widest)
			}
			values := r.F32Array(variants * width * BlockWidth)
			if values == nil {
				values = []float32{}
			}
			mesh.blocks = append(mesh.blocks, WeightBlock{Width: width, Values: values})
		}
		sw.meshes = append(sw.meshes, mesh)
	}
	if err := r.Err(); err != nil {
		return err
	}
	p.skinWeights = sw
	return nil
}

// checkRowEnds validates the row end offsets of a VariableWidthMatrix.
func checkRowEnds(ends []uint32, n int) error {
	prev := uint32(0)
	for i, end := range ends {
		if end < prev || int(end) > n {
			return corrupt("row %d ends at %d", i, end)
		}
		prev = end
	}
	if int(prev) != n {
		return corrupt("rows cover %d of %d values", prev, n)
	}
	return nil
}

// --- joint behavior ---

func encodeJointBehavior(w *archive.Writer, p *genePool) {
	jb := &p.jointBehavior
	w.U32(uint32(len(jb.groups)))
	for g := range jb.groups {
		group := &jb.groups[g]
		w.U32(uint32(group.variants))
		w.U16s(group.inputs)
		w.U16s(group.outputs)
		w.F32Array(group.archetype)
		w.F32Array(group.deltas)
	}
}

func decodeJointBehavior(r *archive.Reader, p *genePool) error {
	n := r.Count()
	jb := JointBehaviorPool{groups: make([]jointGroup, 0, n)}
	for g := 0; g < n && r.Err() == nil; g++ {
		group := jointGroup{variants: r.Count()}
		if r.Err() == nil && group.variants != p.meta.DNACount() {
			return corrupt("group %d holds %d variants, expected %d", g, group.variants, p.meta.DNACount())
		}
		group.inputs = r.U16s()
		group.outputs = r.U16s()
		group.archetype = r.F32Array(len(group.inputs) * len(group.outputs))
		group.deltas = r.F32Array(group.blockCount() * group.variants * group.blockStride())
		jb.groups = append(jb.groups, group)
	}
	if err := r.Err(); err != nil {
		return err
	}
	p.jointBehavior = jb
	return nil
}
