package pool

// RigSource supplies raw per-rig data. The pool copies everything it needs
// during construction and does not retain the source.
type RigSource interface {
	DBName() string
	DBComplexity() string
	DBMaxLOD() uint16

	Name() string
	Gender() uint16
	Age() uint16

	MeshCount() uint16
	VertexPositionCount(mesh uint16) uint32
	VertexPositionXs(mesh uint16) []float32
	VertexPositionYs(mesh uint16) []float32
	VertexPositionZs(mesh uint16) []float32

	JointCount() uint16
	JointName(joint uint16) string
	JointParentIndex(joint uint16) uint16
	NeutralJointTranslationXs() []float32
	NeutralJointTranslationYs() []float32
	NeutralJointTranslationZs() []float32
	// Rotations are Euler angles in degrees.
	NeutralJointRotationXs() []float32
	NeutralJointRotationYs() []float32
	NeutralJointRotationZs() []float32

	SkinWeightsCount(mesh uint16) uint32
	MaximumInfluencePerVertex(mesh uint16) uint16
	SkinWeightsValues(mesh uint16, vertex uint32) []float32
	SkinWeightsJointIndices(mesh uint16, vertex uint32) []uint16

	BlendShapeTargetCount(mesh uint16) uint16
	BlendShapeChannelIndex(mesh, target uint16) uint16
	BlendShapeTargetVertexIndices(mesh, target uint16) []uint32
	BlendShapeTargetDeltaXs(mesh, target uint16) []float32
	BlendShapeTargetDeltaYs(mesh, target uint16) []float32
	BlendShapeTargetDeltaZs(mesh, target uint16) []float32

	JointGroupCount() uint16
	JointGroupInputIndices(group uint16) []uint16
	JointGroupOutputIndices(group uint16) []uint16
	// Values are row-major, one row of len(inputs) per output.
	JointGroupValues(group uint16) []float32
}

// at returns s[i] or zero when i is out of range.
func at[T any](s []T, i int) T {
	var zero T
	if i < 0 || i >= len(s) {
		return zero
	}
	return s[i]
}
