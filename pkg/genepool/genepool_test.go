package genepool

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/genepool/pkg/math"
	"github.com/Faultbox/genepool/pkg/rig"
)

func createTestRig(name string, shift float32) *rig.Rig {
	return &rig.Rig{
		DB:   rig.DB{Name: "heads", Complexity: "base", MaxLOD: 1},
		Info: rig.Info{Name: name, Gender: 2, Age: 40},
		Meshes: []rig.Mesh{{
			Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}},
			SkinWeights: []rig.VertexSkin{
				{Joints: []uint16{0}, Weights: []float32{1}},
				{Joints: []uint16{0, 1}, Weights: []float32{0.5, 0.5}},
				{Joints: []uint16{1}, Weights: []float32{1}},
				{Joints: []uint16{1}, Weights: []float32{1}},
			},
			BlendShapes: []rig.BlendShape{
				{Vertices: []uint32{3}, Deltas: [][3]float32{{0, 0, shift}}},
			},
		}},
		Joints: []rig.Joint{
			{Name: "root", Parent: -1, Translation: [3]float32{shift, 0, 0}},
			{Name: "jaw", Parent: 0, Translation: [3]float32{0, -1, 0}},
		},
		JointGroups: []rig.JointGroup{
			{Inputs: []uint16{0}, Outputs: []uint16{1, 2}, Values: []float32{shift, 1}},
		},
	}
}

func TestNew_Queries(t *testing.T) {
	g, err := New(createTestRig("arch", 0), []RigSource{createTestRig("a", 1), createTestRig("b", 2)}, All)
	require.NoError(t, err)
	require.NoError(t, g.Status())

	assert.False(t, g.IsNull())
	assert.Equal(t, 2, g.DNACount())
	assert.Equal(t, "b", g.DNA(1).Name)
	assert.Equal(t, "jaw", g.JointName(1))
	assert.Equal(t, 4, g.VertexCount(0))

	assert.Equal(t, math.V3(1, 1, 0), g.VertexPosition(1, 0, 3))
	assert.Equal(t, math.V3(2, 0, 0), g.JointTranslation(1, 0))
	assert.True(t, g.JointTranslation(0, 1).ApproxEqual(math.V3(1, -1, 0), 1e-5))

	joints, weights := g.SkinWeights(0, 0, 1)
	assert.Equal(t, []uint16{0, 1}, joints)
	assert.Equal(t, []float32{0.5, 0.5}, weights)

	assert.Equal(t, 1, g.BlendShapeTargetCount(0))
	indices, deltas := g.BlendShapeDeltas(1, 0, 0)
	assert.Equal(t, []uint32{3}, indices)
	assert.Equal(t, []math.Vec3{math.V3(0, 0, 2)}, deltas)

	assert.Equal(t, 1, g.JointGroupCount())
	inputs, outputs, values := g.JointGroupValues(0, 0)
	assert.Equal(t, []uint16{0}, inputs)
	assert.Equal(t, []uint16{1, 2}, outputs)
	assert.Equal(t, []float32{1, 1}, values)
}

func TestNew_FailureYieldsNull(t *testing.T) {
	bad := createTestRig("bad", 0)
	bad.Meshes = nil

	g, err := New(createTestRig("arch", 0), []RigSource{createTestRig("a", 0), bad}, All)

	assert.True(t, errors.Is(err, ErrDNAMismatch))
	assert.Equal(t, err, g.Status())
	assert.True(t, g.IsNull())
	assert.Equal(t, 0, g.DNACount())
	assert.Equal(t, math.Vec3{}, g.VertexPosition(0, 0, 0))

	joints, weights := g.SkinWeights(0, 0, 0)
	assert.Nil(t, joints)
	assert.Nil(t, weights)
	assert.ErrorIs(t, g.Dump(&bytes.Buffer{}, All), ErrNullPool)
}

func TestNew_DNAsEmpty(t *testing.T) {
	g, err := New(createTestRig("arch", 0), nil, All)

	assert.ErrorIs(t, err, ErrDNAsEmpty)
	assert.ErrorIs(t, g.Status(), ErrDNAsEmpty)
	assert.Equal(t, 0, g.DNACount())
}

func TestSaveOpen(t *testing.T) {
	g, err := New(createTestRig("arch", 0), []RigSource{createTestRig("a", 3)}, All)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "heads.gnp")
	require.NoError(t, g.Save(path, All))

	loaded, err := Open(path, NeutralMeshes, WithTrailerCheck(true))
	require.NoError(t, err)

	assert.Equal(t, NeutralMeshes, loaded.Mask())
	assert.Equal(t, g.VertexPosition(0, 0, 2), loaded.VertexPosition(0, 0, 2))
	assert.Equal(t, math.Vec3{}, loaded.JointTranslation(0, 0))
}

func TestOpen_Missing(t *testing.T) {
	g, err := Open(filepath.Join(t.TempDir(), "missing.gnp"), All)

	assert.Error(t, err)
	assert.Equal(t, err, g.Status())
	assert.True(t, g.IsNull())
}
