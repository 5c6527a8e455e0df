package pool

// DNAInfo describes one variant rig.
type DNAInfo struct {
	Name   string
	Gender uint16
	Age    uint16
}

// MetaData carries identity information and the set of populated sections.
type MetaData struct {
	DBName       string
	DBComplexity string
	DBMaxLOD     uint16

	DNAs         []DNAInfo
	JointNames   []string
	JointParents []uint16
	VertexCounts []uint32

	// Mask records which sections hold data.
	Mask Mask
}

func newMetaData(archetype RigSource, dnas []RigSource, mask Mask) MetaData {
	md := MetaData{
		DBName:       archetype.DBName(),
		DBComplexity: archetype.DBComplexity(),
		DBMaxLOD:     archetype.DBMaxLOD(),
		DNAs:         make([]DNAInfo, len(dnas)),
		JointNames:   make([]string, archetype.JointCount()),
		JointParents: make([]uint16, archetype.JointCount()),
		VertexCounts: make([]uint32, archetype.MeshCount()),
		Mask:         mask & All,
	}
	for i, dna := range dnas {
		md.DNAs[i] = DNAInfo{Name: dna.Name(), Gender: dna.Gender(), Age: dna.Age()}
	}
	for j := range md.JointNames {
		md.JointNames[j] = archetype.JointName(uint16(j))
		md.JointParents[j] = archetype.JointParentIndex(uint16(j))
	}
	for m := range md.VertexCounts {
		md.VertexCounts[m] = archetype.VertexPositionCount(uint16(m))
	}
	return md
}

// DNACount returns the number of variants.
func (md *MetaData) DNACount() int {
	return len(md.DNAs)
}

// DNA returns the description of variant i, or a zero value.
func (md *MetaData) DNA(i int) DNAInfo {
	return at(md.DNAs, i)
}

// JointName returns the name of joint j, or "".
func (md *MetaData) JointName(j int) string {
	return at(md.JointNames, j)
}

// VertexCount returns the archetype vertex count of mesh m.
func (md *MetaData) VertexCount(m int) int {
	return int(at(md.VertexCounts, m))
}
