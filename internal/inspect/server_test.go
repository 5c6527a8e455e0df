package inspect

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/genepool/pkg/genepool"
	"github.com/Faultbox/genepool/pkg/rig"
)

func createTestRig(name string, shift float32) *rig.Rig {
	return &rig.Rig{
		DB:   rig.DB{Name: "heads", Complexity: "base"},
		Info: rig.Info{Name: name, Age: 20},
		Meshes: []rig.Mesh{{
			Positions: [][3]float32{{0, 0, 0}, {shift, 1, 0}},
			SkinWeights: []rig.VertexSkin{
				{Joints: []uint16{0}, Weights: []float32{1}},
				{Joints: []uint16{0, 1}, Weights: []float32{0.5, 0.5}},
			},
			BlendShapes: []rig.BlendShape{{Channel: 2, Vertices: []uint32{0}, Deltas: [][3]float32{{0, shift, 0}}}},
		}},
		Joints: []rig.Joint{
			{Name: "root", Parent: -1},
			{Name: "head", Parent: 0, Translation: [3]float32{0, 2, shift}},
		},
		JointGroups: []rig.JointGroup{{Inputs: []uint16{0}, Outputs: []uint16{1}, Values: []float32{shift}}},
	}
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	g, err := genepool.New(createTestRig("arch", 0), []genepool.RigSource{createTestRig("a", 1), createTestRig("b", 2)}, genepool.All)
	require.NoError(t, err)
	return New(g, nil).Handler()
}

func get(t *testing.T, h http.Handler, path string, out interface{}) int {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func TestPoolSummary(t *testing.T) {
	h := newTestServer(t)

	var out poolJSON
	require.Equal(t, http.StatusOK, get(t, h, "/api/pool", &out))

	assert.Equal(t, "heads", out.DB)
	assert.Equal(t, "All", out.Mask)
	require.Len(t, out.DNAs, 2)
	assert.Equal(t, "b", out.DNAs[1].Name)
	assert.Equal(t, []uint32{2}, out.VertexCounts)
	assert.Equal(t, []string{"root", "head"}, out.Joints)
	assert.Equal(t, 1, out.JointGroups)
}

func TestVertex(t *testing.T) {
	h := newTestServer(t)

	var out vertexJSON
	require.Equal(t, http.StatusOK, get(t, h, "/api/dna/1/mesh/0/vertex/1", &out))

	assert.Equal(t, [3]float32{2, 1, 0}, out.Position)
	assert.Equal(t, []uint16{0, 1}, out.Joints)
	assert.Equal(t, []float32{0.5, 0.5}, out.Weights)
}

func TestJoint(t *testing.T) {
	h := newTestServer(t)

	var out jointJSON
	require.Equal(t, http.StatusOK, get(t, h, "/api/dna/0/joint/1", &out))

	assert.Equal(t, "head", out.Name)
	assert.Equal(t, uint16(0), out.Parent)
	assert.InDelta(t, 2, out.Translation[1], 1e-5)
	assert.InDelta(t, 1, out.Translation[2], 1e-5)
}

func TestBlendShapeAndGroup(t *testing.T) {
	h := newTestServer(t)

	var bs blendShapeJSON
	require.Equal(t, http.StatusOK, get(t, h, "/api/dna/1/mesh/0/blendshape/0", &bs))
	assert.Equal(t, []uint32{0}, bs.Vertices)
	assert.Equal(t, [][3]float32{{0, 2, 0}}, bs.Deltas)

	var jg jointGroupJSON
	require.Equal(t, http.StatusOK, get(t, h, "/api/dna/0/group/0", &jg))
	assert.Equal(t, []float32{1}, jg.Values)
}

func TestOutOfRange(t *testing.T) {
	h := newTestServer(t)

	paths := []string{
		"/api/dna/2/mesh/0/vertex/0",
		"/api/dna/0/mesh/1/vertex/0",
		"/api/dna/0/mesh/0/vertex/2",
		"/api/dna/0/joint/2",
		"/api/dna/0/mesh/0/blendshape/1",
		"/api/dna/0/group/1",
		"/api/dna/99999999999999999999999/joint/0",
		"/api/dna/x/joint/0",
		"/nothing",
	}

	for _, path := range paths {
		assert.Equal(t, http.StatusNotFound, get(t, h, path, nil), path)
	}
}

func TestNullPool(t *testing.T) {
	g, err := genepool.New(createTestRig("arch", 0), nil, genepool.All)
	require.Error(t, err)
	h := New(g, nil).Handler()

	var out poolJSON
	require.Equal(t, http.StatusOK, get(t, h, "/api/pool", &out))
	assert.Empty(t, out.DNAs)
	assert.Equal(t, "None", out.Mask)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/dna/0/joint/0", nil))
}
