package pool

type nullPool struct{}

// Null returns the empty pool.
func Null() Pool {
	return nullPool{}
}

func (nullPool) Mask() Mask               { return None }
func (nullPool) MetaData() *MetaData      { return &MetaData{} }
func (nullPool) DNACount() int            { return 0 }
func (nullPool) MeshCount() int           { return 0 }
func (nullPool) VertexCount(mesh int) int { return 0 }
func (nullPool) JointCount() int          { return 0 }
func (nullPool) IsNull() bool             { return true }

func (nullPool) NeutralMeshes() *NeutralMeshPool   { return &NeutralMeshPool{} }
func (nullPool) NeutralJoints() *NeutralJointPool  { return &NeutralJointPool{} }
func (nullPool) SkinWeights() *SkinWeightPool      { return &SkinWeightPool{} }
func (nullPool) BlendShapes() *BlendShapePool      { return &BlendShapePool{} }
func (nullPool) JointBehavior() *JointBehaviorPool { return &JointBehaviorPool{} }
