package pool

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/genepool/internal/archive"
	"github.com/Faultbox/genepool/pkg/rig"
)

// createTestPool builds a pool whose variants differ from the archetype in
// every category.
func createTestPool(t *testing.T, mask Mask) Pool {
	t.Helper()

	arch := createTestRig("arch", 20, 0)
	a := createTestRig("a", 20, 1)
	a.Joints[1].Translation = [3]float32{0, 2, 0}
	a.Meshes[0].SkinWeights[3] = rig.VertexSkin{Joints: []uint16{0, 1}, Weights: []float32{0.25, 0.75}}
	a.Meshes[0].BlendShapes[0].Deltas = [][3]float32{{0, 3, 0}}
	a.JointGroups[0].Values = []float32{4}
	b := createTestRig("b", 20, -1)
	b.Joints[0].Rotation = [3]float32{0, 45, 0}

	p, err := New(arch, sources(a, b), mask)
	require.NoError(t, err)
	return p
}

func dumpPool(t *testing.T, p Pool, mask Mask) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Dump(p, &buf, mask))
	return buf.Bytes()
}

func assertSamePools(t *testing.T, want, got Pool) {
	t.Helper()
	require.Equal(t, want.DNACount(), got.DNACount())
	assert.Equal(t, want.MetaData().DNAs, got.MetaData().DNAs)
	assert.Equal(t, want.MetaData().JointNames, got.MetaData().JointNames)

	for d := 0; d < want.DNACount(); d++ {
		for v := 0; v < want.VertexCount(0); v++ {
			assert.Equal(t, want.NeutralMeshes().VariantVertexPosition(d, 0, v), got.NeutralMeshes().VariantVertexPosition(d, 0, v))
			assert.Equal(t, want.SkinWeights().VariantWeights(d, 0, v), got.SkinWeights().VariantWeights(d, 0, v))
		}
		for j := 0; j < want.JointCount(); j++ {
			assert.Equal(t, want.NeutralJoints().VariantJointTranslation(d, j), got.NeutralJoints().VariantJointTranslation(d, j))
			assert.Equal(t, want.NeutralJoints().VariantJointRotation(d, j), got.NeutralJoints().VariantJointRotation(d, j))
		}
		assert.Equal(t, want.BlendShapes().VariantDelta(d, 0, 0, 0), got.BlendShapes().VariantDelta(d, 0, 0, 0))
		assert.Equal(t, want.JointBehavior().VariantValue(d, 0, 0, 0), got.JointBehavior().VariantValue(d, 0, 0, 0))
	}
	assert.Equal(t, want.BlendShapes().ChannelIndex(0, 0), got.BlendShapes().ChannelIndex(0, 0))
	assert.Equal(t, want.BlendShapes().VertexIndices(0, 0), got.BlendShapes().VertexIndices(0, 0))
	assert.Equal(t, want.SkinWeights().JointIndices(0, 3), got.SkinWeights().JointIndices(0, 3))
	assert.Equal(t, want.JointBehavior().InputIndices(0), got.JointBehavior().InputIndices(0))
}

func TestDumpLoad_RoundTrip(t *testing.T) {
	p := createTestPool(t, All)
	data := dumpPool(t, p, All)

	loaded, err := Load(bytes.NewReader(data), All, WithTrailerCheck(true))
	require.NoError(t, err)

	assert.Equal(t, All, loaded.Mask())
	assertSamePools(t, p, loaded)
	assert.Equal(t, float32(0.75), loaded.SkinWeights().VariantWeight(0, 0, 3, 1))
}

func TestLoad_RequestedMask(t *testing.T) {
	p := createTestPool(t, All)
	data := dumpPool(t, p, All)

	loaded, err := Load(bytes.NewReader(data), NeutralMeshes|JointBehavior)
	require.NoError(t, err)

	assert.Equal(t, NeutralMeshes|JointBehavior, loaded.Mask())
	assert.Equal(t, 1, loaded.NeutralMeshes().MeshCount())
	assert.Equal(t, 1, loaded.JointBehavior().GroupCount())
	assert.Equal(t, 0, loaded.SkinWeights().MeshCount())
	assert.Equal(t, 0, loaded.NeutralJoints().JointCount())
	assert.Equal(t, 0, loaded.BlendShapes().MeshCount())

	for d := 0; d < p.DNACount(); d++ {
		for v := 0; v < p.VertexCount(0); v++ {
			assert.Equal(t, p.NeutralMeshes().VariantVertexPosition(d, 0, v), loaded.NeutralMeshes().VariantVertexPosition(d, 0, v))
		}
		for o := range p.JointBehavior().OutputIndices(0) {
			for i := range p.JointBehavior().InputIndices(0) {
				assert.Equal(t, p.JointBehavior().VariantValue(d, 0, o, i), loaded.JointBehavior().VariantValue(d, 0, o, i))
			}
		}
	}
	assert.Equal(t, p.JointBehavior().InputIndices(0), loaded.JointBehavior().InputIndices(0))
	assert.Equal(t, p.JointBehavior().OutputIndices(0), loaded.JointBehavior().OutputIndices(0))
	assert.Equal(t, float32(4), loaded.JointBehavior().VariantValue(0, 0, 0, 0))
}

func TestDump_PersistedMask(t *testing.T) {
	p := createTestPool(t, NeutralMeshes|SkinWeights)
	data := dumpPool(t, p, SkinWeights|NeutralJoints)

	loaded, err := Load(bytes.NewReader(data), All)
	require.NoError(t, err)

	assert.Equal(t, SkinWeights, loaded.Mask())
	assert.Equal(t, 0, loaded.NeutralMeshes().MeshCount())
	assert.Equal(t, 1, loaded.SkinWeights().MeshCount())
	// Dumping does not change the source pool.
	assert.Equal(t, NeutralMeshes|SkinWeights, p.Mask())
}

func TestDump_NullPool(t *testing.T) {
	var buf bytes.Buffer
	err := Dump(Null(), &buf, All)

	assert.ErrorIs(t, err, ErrNullPool)
	assert.Zero(t, buf.Len())
}

func TestLoad_NoDNAs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Dump(&genePool{meta: MetaData{Mask: All}}, &buf, All))

	p, err := Load(bytes.NewReader(buf.Bytes()), All)

	assert.ErrorIs(t, err, ErrDNAsEmpty)
	assert.True(t, p.IsNull())
}

func TestLoad_InvalidHeader(t *testing.T) {
	valid := dumpPool(t, createTestPool(t, All), All)

	tests := []struct {
		name   string
		modify func([]byte) []byte
		want   error
	}{
		{
			name:   "signature",
			modify: func(b []byte) []byte { b[0] = 'X'; return b },
			want:   archive.ErrBadSignature,
		},
		{
			name: "major version",
			modify: func(b []byte) []byte {
				binary.BigEndian.PutUint16(b[3:], 2)
				return b
			},
			want: archive.ErrUnsupportedVersion,
		},
		{
			name: "minor version",
			modify: func(b []byte) []byte {
				binary.BigEndian.PutUint16(b[5:], 1)
				return b
			},
			want: archive.ErrUnsupportedVersion,
		},
		{
			name:   "truncated",
			modify: func(b []byte) []byte { return b[:20] },
			want:   archive.ErrTruncated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.modify(append([]byte(nil), valid...))

			p, err := Load(bytes.NewReader(data), All)

			assert.ErrorIs(t, err, tt.want)
			assertNull(t, p)
		})
	}
}

func TestLoad_TruncatedSection(t *testing.T) {
	data := dumpPool(t, createTestPool(t, All), All)

	p, err := Load(bytes.NewReader(data[:len(data)/2]), All)

	assert.Error(t, err)
	assert.True(t, p.IsNull())
}

func TestLoad_Trailer(t *testing.T) {
	data := dumpPool(t, createTestPool(t, All), All)
	data[len(data)-1] = 'X'

	_, err := Load(bytes.NewReader(data), All)
	assert.NoError(t, err, "trailer is ignored by default")

	p, err := Load(bytes.NewReader(data), All, WithTrailerCheck(true))
	assert.ErrorIs(t, err, archive.ErrBadTrailer)
	assert.True(t, p.IsNull())
}

func TestLoad_SkippedSectionsIgnoreCorruption(t *testing.T) {
	data := dumpPool(t, createTestPool(t, All), All)

	// Corrupt the skin weight variant count.
	offset := binary.BigEndian.Uint64(data[7+4*8:])
	binary.BigEndian.PutUint32(data[offset:], 99)

	_, err := Load(bytes.NewReader(data), All)
	assert.ErrorIs(t, err, ErrCorrupt)

	p, err := Load(bytes.NewReader(data), All.And(SkinWeights.Not()))
	require.NoError(t, err)
	assert.Equal(t, 0, p.SkinWeights().MeshCount())
}

func TestLoad_SkinWeightBlockTooWide(t *testing.T) {
	p := createTestPool(t, All)
	gp := p.(*genePool)
	blk := &gp.skinWeights.meshes[0].blocks[0]
	blk.Width += 5
	blk.Values = make([]float32, gp.skinWeights.variants*blk.Width*BlockWidth)
	data := dumpPool(t, p, All)

	loaded, err := Load(bytes.NewReader(data), All)

	assert.ErrorIs(t, err, ErrCorrupt)
	assert.True(t, loaded.IsNull())
}

func TestLoad_MeshCountsMismatch(t *testing.T) {
	tests := []struct {
		name   string
		modify func(md *MetaData)
		mask   Mask
	}{
		{
			name:   "vertex count",
			modify: func(md *MetaData) { md.VertexCounts[0]-- },
			mask:   NeutralMeshes,
		},
		{
			name:   "mesh count",
			modify: func(md *MetaData) { md.VertexCounts = append(md.VertexCounts, 4) },
			mask:   NeutralMeshes,
		},
		{
			name:   "blend shape mesh count",
			modify: func(md *MetaData) { md.VertexCounts = append(md.VertexCounts, 4) },
			mask:   BlendShapes,
		},
		{
			name:   "blend shape vertex out of range",
			modify: func(md *MetaData) { md.VertexCounts[0] = 1 },
			mask:   BlendShapes,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := createTestPool(t, tt.mask)
			tt.modify(p.MetaData())
			data := dumpPool(t, p, All)

			loaded, err := Load(bytes.NewReader(data), All)

			assert.ErrorIs(t, err, ErrCorrupt)
			assert.True(t, loaded.IsNull())
		})
	}
}
