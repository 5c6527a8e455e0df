// Package rig provides in-memory character rigs that can feed a gene pool.
//
// A Rig can be built in code, decoded from a YAML rig file or imported from
// a glTF document. Per-axis accessors allocate fresh slices on every call.
package rig

// DB identifies the rig database a rig belongs to. Rigs can only be pooled
// with rigs of the same database.
type DB struct {
	Name       string `yaml:"name"`
	Complexity string `yaml:"complexity"`
	MaxLOD     uint16 `yaml:"max_lod"`
}

// Info describes the character a rig represents.
type Info struct {
	Name   string `yaml:"name"`
	Gender uint16 `yaml:"gender"`
	Age    uint16 `yaml:"age"`
}

// Rig is a complete character rig.
type Rig struct {
	DB   DB   `yaml:"db"`
	Info Info `yaml:"info"`

	Meshes      []Mesh       `yaml:"meshes"`
	Joints      []Joint      `yaml:"joints"`
	JointGroups []JointGroup `yaml:"joint_groups"`
}

// Mesh holds the neutral geometry, skinning and blend shapes of one mesh.
type Mesh struct {
	Name          string       `yaml:"name"`
	Positions     [][3]float32 `yaml:"positions"`
	MaxInfluences uint16       `yaml:"max_influences"`
	SkinWeights   []VertexSkin `yaml:"skin_weights"`
	BlendShapes   []BlendShape `yaml:"blend_shapes"`
}

// VertexSkin lists the joint influences of one vertex.
type VertexSkin struct {
	Joints  []uint16  `yaml:"joints"`
	Weights []float32 `yaml:"weights"`
}

// BlendShape is a sparse set of vertex offsets driven by one channel.
type BlendShape struct {
	Channel  uint16       `yaml:"channel"`
	Vertices []uint32     `yaml:"vertices"`
	Deltas   [][3]float32 `yaml:"deltas"`
}

// Joint is a node of the joint hierarchy. Rotation holds Euler angles in
// degrees. A Parent that is negative or equal to the joint's own index marks
// a root.
type Joint struct {
	Name        string     `yaml:"name"`
	Parent      int        `yaml:"parent"`
	Translation [3]float32 `yaml:"translation"`
	Rotation    [3]float32 `yaml:"rotation"`
}

// JointGroup maps input controls to output joint attributes. Values holds
// one row of len(Inputs) per output.
type JointGroup struct {
	Inputs  []uint16  `yaml:"inputs"`
	Outputs []uint16  `yaml:"outputs"`
	Values  []float32 `yaml:"values"`
}

func (r *Rig) DBName() string       { return r.DB.Name }
func (r *Rig) DBComplexity() string { return r.DB.Complexity }
func (r *Rig) DBMaxLOD() uint16     { return r.DB.MaxLOD }

func (r *Rig) Name() string   { return r.Info.Name }
func (r *Rig) Gender() uint16 { return r.Info.Gender }
func (r *Rig) Age() uint16    { return r.Info.Age }

func (r *Rig) mesh(m uint16) *Mesh {
	if int(m) >= len(r.Meshes) {
		return nil
	}
	return &r.Meshes[m]
}

// MeshCount returns the number of meshes.
func (r *Rig) MeshCount() uint16 {
	return uint16(len(r.Meshes))
}

// VertexPositionCount returns the number of vertices of a mesh.
func (r *Rig) VertexPositionCount(m uint16) uint32 {
	if mesh := r.mesh(m); mesh != nil {
		return uint32(len(mesh.Positions))
	}
	return 0
}

func (r *Rig) VertexPositionXs(m uint16) []float32 { return r.positionAxis(m, 0) }
func (r *Rig) VertexPositionYs(m uint16) []float32 { return r.positionAxis(m, 1) }
func (r *Rig) VertexPositionZs(m uint16) []float32 { return r.positionAxis(m, 2) }

func (r *Rig) positionAxis(m uint16, axis int) []float32 {
	mesh := r.mesh(m)
	if mesh == nil {
		return nil
	}
	return axisOf(mesh.Positions, axis)
}

func axisOf(vs [][3]float32, axis int) []float32 {
	out := make([]float32, len(vs))
	for i, v := range vs {
		out[i] = v[axis]
	}
	return out
}

// JointCount returns the number of joints.
func (r *Rig) JointCount() uint16 {
	return uint16(len(r.Joints))
}

// JointName returns the name of a joint.
func (r *Rig) JointName(j uint16) string {
	if int(j) >= len(r.Joints) {
		return ""
	}
	return r.Joints[j].Name
}

// JointParentIndex returns the parent of a joint. Roots are their own parent.
func (r *Rig) JointParentIndex(j uint16) uint16 {
	if int(j) >= len(r.Joints) {
		return j
	}
	p := r.Joints[j].Parent
	if p < 0 {
		return j
	}
	return uint16(p)
}

func (r *Rig) NeutralJointTranslationXs() []float32 { return r.jointAxis(false, 0) }
func (r *Rig) NeutralJointTranslationYs() []float32 { return r.jointAxis(false, 1) }
func (r *Rig) NeutralJointTranslationZs() []float32 { return r.jointAxis(false, 2) }
func (r *Rig) NeutralJointRotationXs() []float32    { return r.jointAxis(true, 0) }
func (r *Rig) NeutralJointRotationYs() []float32    { return r.jointAxis(true, 1) }
func (r *Rig) NeutralJointRotationZs() []float32    { return r.jointAxis(true, 2) }

func (r *Rig) jointAxis(rotation bool, axis int) []float32 {
	out := make([]float32, len(r.Joints))
	for i, j := range r.Joints {
		if rotation {
			out[i] = j.Rotation[axis]
		} else {
			out[i] = j.Translation[axis]
		}
	}
	return out
}

// SkinWeightsCount returns the number of skinned vertices of a mesh.
func (r *Rig) SkinWeightsCount(m uint16) uint32 {
	if mesh := r.mesh(m); mesh != nil {
		return uint32(len(mesh.SkinWeights))
	}
	return 0
}

// MaximumInfluencePerVertex returns the influence bound of a mesh. When
// unset it is derived from the widest vertex.
func (r *Rig) MaximumInfluencePerVertex(m uint16) uint16 {
	mesh := r.mesh(m)
	if mesh == nil {
		return 0
	}
	if mesh.MaxInfluences > 0 {
		return mesh.MaxInfluences
	}
	widest := 0
	for _, vs := range mesh.SkinWeights {
		if len(vs.Joints) > widest {
			widest = len(vs.Joints)
		}
	}
	return uint16(widest)
}

func (r *Rig) vertexSkin(m uint16, v uint32) *VertexSkin {
	mesh := r.mesh(m)
	if mesh == nil || int(v) >= len(mesh.SkinWeights) {
		return nil
	}
	return &mesh.SkinWeights[v]
}

// SkinWeightsValues returns the influence weights of a vertex.
func (r *Rig) SkinWeightsValues(m uint16, v uint32) []float32 {
	if vs := r.vertexSkin(m, v); vs != nil {
		return vs.Weights
	}
	return nil
}

// SkinWeightsJointIndices returns the influencing joints of a vertex.
func (r *Rig) SkinWeightsJointIndices(m uint16, v uint32) []uint16 {
	if vs := r.vertexSkin(m, v); vs != nil {
		return vs.Joints
	}
	return nil
}

func (r *Rig) blendShape(m, t uint16) *BlendShape {
	mesh := r.mesh(m)
	if mesh == nil || int(t) >= len(mesh.BlendShapes) {
		return nil
	}
	return &mesh.BlendShapes[t]
}

// BlendShapeTargetCount returns the number of blend-shape targets of a mesh.
func (r *Rig) BlendShapeTargetCount(m uint16) uint16 {
	if mesh := r.mesh(m); mesh != nil {
		return uint16(len(mesh.BlendShapes))
	}
	return 0
}

// BlendShapeChannelIndex returns the channel driving a target.
func (r *Rig) BlendShapeChannelIndex(m, t uint16) uint16 {
	if bs := r.blendShape(m, t); bs != nil {
		return bs.Channel
	}
	return 0
}

// BlendShapeTargetVertexIndices returns the vertices a target moves.
func (r *Rig) BlendShapeTargetVertexIndices(m, t uint16) []uint32 {
	if bs := r.blendShape(m, t); bs != nil {
		return bs.Vertices
	}
	return nil
}

func (r *Rig) BlendShapeTargetDeltaXs(m, t uint16) []float32 { return r.deltaAxis(m, t, 0) }
func (r *Rig) BlendShapeTargetDeltaYs(m, t uint16) []float32 { return r.deltaAxis(m, t, 1) }
func (r *Rig) BlendShapeTargetDeltaZs(m, t uint16) []float32 { return r.deltaAxis(m, t, 2) }

func (r *Rig) deltaAxis(m, t uint16, axis int) []float32 {
	bs := r.blendShape(m, t)
	if bs == nil {
		return nil
	}
	return axisOf(bs.Deltas, axis)
}

// JointGroupCount returns the number of joint groups.
func (r *Rig) JointGroupCount() uint16 {
	return uint16(len(r.JointGroups))
}

func (r *Rig) group(g uint16) *JointGroup {
	if int(g) >= len(r.JointGroups) {
		return nil
	}
	return &r.JointGroups[g]
}

// JointGroupInputIndices returns the inputs of a joint group.
func (r *Rig) JointGroupInputIndices(g uint16) []uint16 {
	if jg := r.group(g); jg != nil {
		return jg.Inputs
	}
	return nil
}

// JointGroupOutputIndices returns the outputs of a joint group.
func (r *Rig) JointGroupOutputIndices(g uint16) []uint16 {
	if jg := r.group(g); jg != nil {
		return jg.Outputs
	}
	return nil
}

// JointGroupValues returns the row-major value matrix of a joint group.
func (r *Rig) JointGroupValues(g uint16) []float32 {
	if jg := r.group(g); jg != nil {
		return jg.Values
	}
	return nil
}
