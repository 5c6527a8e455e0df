package pool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/genepool/pkg/math"
	"github.com/Faultbox/genepool/pkg/rig"
)

func assertNull(t *testing.T, p Pool) {
	t.Helper()
	assert.True(t, p.IsNull())
	assert.Equal(t, None, p.Mask())
	assert.Equal(t, 0, p.DNACount())
	assert.Equal(t, 0, p.MeshCount())
	assert.Equal(t, 0, p.JointCount())
	assert.Equal(t, 0, p.VertexCount(0))
	assert.Equal(t, 0, p.NeutralMeshes().MeshCount())
	assert.Equal(t, 0, p.NeutralJoints().JointCount())
	assert.Equal(t, 0, p.SkinWeights().MeshCount())
	assert.Equal(t, 0, p.BlendShapes().MeshCount())
	assert.Equal(t, 0, p.JointBehavior().GroupCount())
	assert.Equal(t, math.Vec3{}, p.NeutralMeshes().VariantVertexPosition(0, 0, 0))
}

func TestNew_DNAsEmpty(t *testing.T) {
	p, err := New(createTestRig("arch", 4, 0), nil, All)

	assert.ErrorIs(t, err, ErrDNAsEmpty)
	assertNull(t, p)
}

func TestNew_Mismatch(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *rig.Rig)
		field  string
	}{
		{"db name", func(r *rig.Rig) { r.DB.Name = "bodies" }, "db name"},
		{"max lod", func(r *rig.Rig) { r.DB.MaxLOD = 4 }, "db max LOD"},
		{"complexity", func(r *rig.Rig) { r.DB.Complexity = "high" }, "db complexity"},
		{"mesh count", func(r *rig.Rig) { r.Meshes = append(r.Meshes, rig.Mesh{}) }, "mesh count"},
		{"joint count", func(r *rig.Rig) { r.Joints = r.Joints[:1] }, "joint count"},
		{"vertex count", func(r *rig.Rig) { r.Meshes[0].Positions = r.Meshes[0].Positions[:2] }, "vertex position count"},
		{"target count", func(r *rig.Rig) { r.Meshes[0].BlendShapes = nil }, "blend shape target count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := createTestRig("bad", 4, 0)
			tt.modify(bad)
			dnas := sources(createTestRig("ok", 4, 0), bad, createTestRig("ok2", 4, 0))

			p, err := New(createTestRig("arch", 4, 0), dnas, All)

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDNAMismatch))
			var mm *MismatchError
			require.True(t, errors.As(err, &mm))
			assert.Equal(t, 1, mm.Index)
			assert.Equal(t, tt.field, mm.Field)
			assertNull(t, p)
		})
	}
}

func TestNew_IdenticalVariants(t *testing.T) {
	arch := createTestRig("arch", 4, 0)
	dnas := sources(createTestRig("a", 4, 0), createTestRig("b", 4, 0))

	p, err := New(arch, dnas, All)
	require.NoError(t, err)

	assert.False(t, p.IsNull())
	assert.Equal(t, All, p.Mask())
	assert.Equal(t, 2, p.DNACount())
	assert.Equal(t, 1, p.MeshCount())
	assert.Equal(t, 4, p.VertexCount(0))
	assert.Equal(t, 2, p.JointCount())

	md := p.MetaData()
	assert.Equal(t, "heads", md.DBName)
	assert.Equal(t, "b", md.DNA(1).Name)
	assert.Equal(t, "neck", md.JointName(1))
	assert.Equal(t, []uint16{0, 0}, md.JointParents)

	nm := p.NeutralMeshes()
	assert.Equal(t, 1, nm.BlockCount(0))
	for d := 0; d < 2; d++ {
		blk := nm.Block(0, 0, d)
		require.NotNil(t, blk)
		assert.Equal(t, XYZBlock{}, *blk, "variant %d deltas", d)
		for v := 0; v < 4; v++ {
			assert.Equal(t, nm.ArchetypeVertexPosition(0, v), nm.VariantVertexPosition(d, 0, v))
		}
	}
}

func TestNew_MaskSubset(t *testing.T) {
	p, err := New(createTestRig("arch", 4, 0), sources(createTestRig("a", 4, 1)), NeutralMeshes|SkinWeights)
	require.NoError(t, err)

	assert.Equal(t, NeutralMeshes|SkinWeights, p.Mask())
	assert.Equal(t, 1, p.NeutralMeshes().MeshCount())
	assert.Equal(t, 1, p.SkinWeights().MeshCount())
	assert.Equal(t, 0, p.NeutralJoints().JointCount())
	assert.Equal(t, 0, p.BlendShapes().MeshCount())
	assert.Equal(t, 0, p.JointBehavior().GroupCount())

	// Metadata is always populated.
	assert.Equal(t, 1, p.MeshCount())
	assert.Equal(t, 2, p.JointCount())
}

func TestNullPool(t *testing.T) {
	assertNull(t, Null())
	assert.Empty(t, Null().MetaData().DNAs)
}
