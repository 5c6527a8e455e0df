// Package genepool is the public entry point for building, loading and
// querying gene pools.
//
// A GenePool is always usable: when construction or loading fails it wraps
// the empty pool, answers every query with zero values and reports the
// failure through Status.
package genepool

import (
	"io"
	"os"

	"github.com/Faultbox/genepool/internal/pool"
	"github.com/Faultbox/genepool/pkg/math"
)

type (
	Mask      = pool.Mask
	RigSource = pool.RigSource
	Option    = pool.Option
	MetaData  = pool.MetaData
	DNAInfo   = pool.DNAInfo

	MismatchError = pool.MismatchError
)

// Data categories.
const (
	NeutralMeshes = pool.NeutralMeshes
	BlendShapes   = pool.BlendShapes
	SkinWeights   = pool.SkinWeights
	NeutralJoints = pool.NeutralJoints
	JointBehavior = pool.JointBehavior
	None          = pool.None
	All           = pool.All
)

// Errors.
var (
	ErrDNAsEmpty   = pool.ErrDNAsEmpty
	ErrDNAMismatch = pool.ErrDNAMismatch
	ErrNullPool    = pool.ErrNullPool
)

// Options.
var (
	WithLogger       = pool.WithLogger
	WithTrailerCheck = pool.WithTrailerCheck
)

// ParseMask builds a mask from category names such as "neutral_meshes".
var ParseMask = pool.ParseMask

// GenePool is a handle to a populated or empty pool.
type GenePool struct {
	p      pool.Pool
	status error
}

func wrap(p pool.Pool, err error) *GenePool {
	if p == nil {
		p = pool.Null()
	}
	return &GenePool{p: p, status: err}
}

// New builds a pool from an archetype and its variants.
func New(archetype RigSource, dnas []RigSource, mask Mask, opts ...Option) (*GenePool, error) {
	p, err := pool.New(archetype, dnas, mask, opts...)
	return wrap(p, err), err
}

// Load reads a pool from a seekable stream.
func Load(r io.ReadSeeker, mask Mask, opts ...Option) (*GenePool, error) {
	p, err := pool.Load(r, mask, opts...)
	return wrap(p, err), err
}

// Open loads a pool from a file.
func Open(path string, mask Mask, opts ...Option) (*GenePool, error) {
	f, err := os.Open(path)
	if err != nil {
		return wrap(nil, err), err
	}
	defer f.Close()
	return Load(f, mask, opts...)
}

// Dump writes the pool to w, recording Mask() & mask as present.
func (g *GenePool) Dump(w io.Writer, mask Mask, opts ...Option) error {
	return pool.Dump(g.p, w, mask, opts...)
}

// Save dumps the pool to a file.
func (g *GenePool) Save(path string, mask Mask, opts ...Option) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := g.Dump(f, mask, opts...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Status returns the error that produced this handle, or nil.
func (g *GenePool) Status() error {
	return g.status
}

// Pool returns the underlying pool with its per-category views.
func (g *GenePool) Pool() pool.Pool {
	return g.p
}

func (g *GenePool) IsNull() bool        { return g.p.IsNull() }
func (g *GenePool) Mask() Mask          { return g.p.Mask() }
func (g *GenePool) MetaData() *MetaData { return g.p.MetaData() }
func (g *GenePool) DNACount() int       { return g.p.DNACount() }
func (g *GenePool) MeshCount() int      { return g.p.MeshCount() }
func (g *GenePool) JointCount() int     { return g.p.JointCount() }

func (g *GenePool) VertexCount(mesh int) int {
	return g.p.VertexCount(mesh)
}

// DNA returns the name, gender and age of a variant.
func (g *GenePool) DNA(dna int) DNAInfo {
	return g.p.MetaData().DNA(dna)
}

// JointName returns the name of a joint.
func (g *GenePool) JointName(joint int) string {
	return g.p.MetaData().JointName(joint)
}

// VertexPosition returns a variant's neutral vertex position.
func (g *GenePool) VertexPosition(dna, mesh, vertex int) math.Vec3 {
	return g.p.NeutralMeshes().VariantVertexPosition(dna, mesh, vertex)
}

// JointTranslation returns a variant's world-space joint translation.
func (g *GenePool) JointTranslation(dna, joint int) math.Vec3 {
	return g.p.NeutralJoints().VariantJointTranslation(dna, joint)
}

// JointRotation returns a variant's world-space joint rotation in degrees.
func (g *GenePool) JointRotation(dna, joint int) math.Vec3 {
	return g.p.NeutralJoints().VariantJointRotation(dna, joint)
}

// SkinWeights returns the joints influencing a vertex and a variant's
// weight for each of them.
func (g *GenePool) SkinWeights(dna, mesh, vertex int) ([]uint16, []float32) {
	sw := g.p.SkinWeights()
	weights := sw.VariantWeights(dna, mesh, vertex)
	if weights == nil {
		return nil, nil
	}
	return sw.JointIndices(mesh, vertex), weights
}

// BlendShapeTargetCount returns the number of blend-shape targets of a mesh.
func (g *GenePool) BlendShapeTargetCount(mesh int) int {
	return g.p.BlendShapes().TargetCount(mesh)
}

// BlendShapeDeltas returns the vertex indices of a target and a variant's
// delta for each of them.
func (g *GenePool) BlendShapeDeltas(dna, mesh, target int) ([]uint32, []math.Vec3) {
	bs := g.p.BlendShapes()
	indices := bs.VertexIndices(mesh, target)
	if indices == nil || dna < 0 || dna >= g.p.DNACount() {
		return nil, nil
	}
	deltas := make([]math.Vec3, len(indices))
	for i := range indices {
		deltas[i] = bs.VariantDelta(dna, mesh, target, i)
	}
	return indices, deltas
}

// JointGroupCount returns the number of joint groups.
func (g *GenePool) JointGroupCount() int {
	return g.p.JointBehavior().GroupCount()
}

// JointGroupValues returns a variant's value matrix of a joint group, one
// row of len(inputs) per output.
func (g *GenePool) JointGroupValues(dna, group int) (inputs, outputs []uint16, values []float32) {
	jb := g.p.JointBehavior()
	inputs, outputs = jb.InputIndices(group), jb.OutputIndices(group)
	if inputs == nil || dna < 0 || dna >= g.p.DNACount() {
		return nil, nil, nil
	}
	values = make([]float32, 0, len(inputs)*len(outputs))
	for o := range outputs {
		for i := range inputs {
			values = append(values, jb.VariantValue(dna, group, o, i))
		}
	}
	return inputs, outputs, values
}
