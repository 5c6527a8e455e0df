package pool

import "go.uber.org/zap"

// Pool is the read-only view of a gene pool. A pool is either populated or
// the Null pool, in which every count is zero and every view is empty.
type Pool interface {
	Mask() Mask
	MetaData() *MetaData

	DNACount() int
	MeshCount() int
	VertexCount(mesh int) int
	JointCount() int

	NeutralMeshes() *NeutralMeshPool
	NeutralJoints() *NeutralJointPool
	SkinWeights() *SkinWeightPool
	BlendShapes() *BlendShapePool
	JointBehavior() *JointBehaviorPool

	// IsNull reports whether this is the Null pool.
	IsNull() bool
}

type genePool struct {
	meta          MetaData
	neutralMeshes NeutralMeshPool
	neutralJoints NeutralJointPool
	skinWeights   SkinWeightPool
	blendShapes   BlendShapePool
	jointBehavior JointBehaviorPool
}

// New builds a pool from an archetype and its variants. Only the categories
// in mask are populated. On failure the Null pool is returned together with
// the error.
func New(archetype RigSource, dnas []RigSource, mask Mask, opts ...Option) (Pool, error) {
	o := buildOptions(opts)
	log := o.log

	if len(dnas) == 0 {
		log.Warn("Gene pool construction failed", zap.Error(ErrDNAsEmpty))
		return Null(), ErrDNAsEmpty
	}
	if err := validate(archetype, dnas); err != nil {
		log.Warn("Gene pool construction failed", zap.Error(err))
		return Null(), err
	}

	mask &= All
	p := &genePool{meta: newMetaData(archetype, dnas, mask)}
	if mask.Has(NeutralMeshes) {
		p.neutralMeshes = newNeutralMeshPool(archetype, dnas)
	}
	if mask.Has(BlendShapes) {
		p.blendShapes = newBlendShapePool(archetype, dnas)
	}
	if mask.Has(SkinWeights) {
		p.skinWeights = newSkinWeightPool(archetype, dnas)
	}
	if mask.Has(NeutralJoints) {
		p.neutralJoints = newNeutralJointPool(archetype, dnas)
	}
	if mask.Has(JointBehavior) {
		p.jointBehavior = newJointBehaviorPool(archetype, dnas)
	}

	log.Info("Gene pool built",
		zap.String("db", p.meta.DBName),
		zap.Int("dnas", len(dnas)),
		zap.Int("meshes", len(p.meta.VertexCounts)),
		zap.Int("joints", len(p.meta.JointNames)),
		zap.Stringer("mask", mask))
	return p, nil
}

// validate checks every variant against the archetype and reports the
// first mismatch.
func validate(archetype RigSource, dnas []RigSource) error {
	for i, dna := range dnas {
		if field := mismatch(archetype, dna); field != "" {
			return &MismatchError{Index: i, Field: field}
		}
	}
	return nil
}

func mismatch(archetype, dna RigSource) string {
	switch {
	case dna.DBName() != archetype.DBName():
		return "db name"
	case dna.DBMaxLOD() != archetype.DBMaxLOD():
		return "db max LOD"
	case dna.DBComplexity() != archetype.DBComplexity():
		return "db complexity"
	case dna.MeshCount() != archetype.MeshCount():
		return "mesh count"
	case dna.JointCount() != archetype.JointCount():
		return "joint count"
	}
	for m := uint16(0); m < archetype.MeshCount(); m++ {
		if dna.VertexPositionCount(m) != archetype.VertexPositionCount(m) {
			return "vertex position count"
		}
		if dna.BlendShapeTargetCount(m) != archetype.BlendShapeTargetCount(m) {
			return "blend shape target count"
		}
	}
	return ""
}

func (p *genePool) Mask() Mask          { return p.meta.Mask }
func (p *genePool) MetaData() *MetaData { return &p.meta }
func (p *genePool) DNACount() int       { return p.meta.DNACount() }
func (p *genePool) MeshCount() int      { return len(p.meta.VertexCounts) }
func (p *genePool) JointCount() int     { return len(p.meta.JointNames) }
func (p *genePool) IsNull() bool        { return false }

func (p *genePool) VertexCount(mesh int) int {
	return p.meta.VertexCount(mesh)
}

func (p *genePool) NeutralMeshes() *NeutralMeshPool   { return &p.neutralMeshes }
func (p *genePool) NeutralJoints() *NeutralJointPool  { return &p.neutralJoints }
func (p *genePool) SkinWeights() *SkinWeightPool      { return &p.skinWeights }
func (p *genePool) BlendShapes() *BlendShapePool      { return &p.blendShapes }
func (p *genePool) JointBehavior() *JointBehaviorPool { return &p.jointBehavior }
