package pool

import "github.com/Faultbox/genepool/pkg/rig"

// createTestRig builds a rig with one mesh of vertexCount vertices, two
// joints, one blend-shape target and one joint group. Positions are shifted
// by offset along X.
func createTestRig(name string, vertexCount int, offset float32) *rig.Rig {
	r := &rig.Rig{
		DB:   rig.DB{Name: "heads", Complexity: "base", MaxLOD: 2},
		Info: rig.Info{Name: name, Gender: 1, Age: 30},
		Joints: []rig.Joint{
			{Name: "root", Parent: -1},
			{Name: "neck", Parent: 0, Translation: [3]float32{0, 1, 0}},
		},
		JointGroups: []rig.JointGroup{
			{Inputs: []uint16{0}, Outputs: []uint16{2}, Values: []float32{1}},
		},
	}

	mesh := rig.Mesh{Name: "head"}
	for v := 0; v < vertexCount; v++ {
		mesh.Positions = append(mesh.Positions, [3]float32{float32(v) + offset, float32(v), 0})
		mesh.SkinWeights = append(mesh.SkinWeights, rig.VertexSkin{Joints: []uint16{0}, Weights: []float32{1}})
	}
	mesh.BlendShapes = []rig.BlendShape{
		{Channel: 0, Vertices: []uint32{1}, Deltas: [][3]float32{{0, 0, 1}}},
	}
	r.Meshes = []rig.Mesh{mesh}
	return r
}

func sources(rigs ...*rig.Rig) []RigSource {
	out := make([]RigSource, len(rigs))
	for i, r := range rigs {
		out[i] = r
	}
	return out
}
