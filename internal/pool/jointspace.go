package pool

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/genepool/pkg/math"
)

// RawJoints is a joint hierarchy with one translation and Euler rotation
// (degrees) per joint. Parents[i] == i marks a root joint. Parent indices
// never exceed the child index.
type RawJoints struct {
	Translations []math.Vec3
	Rotations    []math.Vec3
	Parents      []uint16
}

// rawJointsFrom copies the neutral joint set out of a rig source.
func rawJointsFrom(src RigSource) RawJoints {
	count := int(src.JointCount())
	tx, ty, tz := src.NeutralJointTranslationXs(), src.NeutralJointTranslationYs(), src.NeutralJointTranslationZs()
	rx, ry, rz := src.NeutralJointRotationXs(), src.NeutralJointRotationYs(), src.NeutralJointRotationZs()

	j := RawJoints{
		Translations: make([]math.Vec3, count),
		Rotations:    make([]math.Vec3, count),
		Parents:      make([]uint16, count),
	}
	for i := 0; i < count; i++ {
		j.Translations[i] = math.V3(at(tx, i), at(ty, i), at(tz, i))
		j.Rotations[i] = math.V3(at(rx, i), at(ry, i), at(rz, i))
		j.Parents[i] = src.JointParentIndex(uint16(i))
	}
	return j
}

// Len returns the number of joints.
func (j RawJoints) Len() int {
	return len(j.Translations)
}

// parentOf returns the parent index of joint i, or -1 for roots. A parent
// index above the child breaks the processing order and is treated as a root.
func (j RawJoints) parentOf(i int) int {
	if i >= len(j.Parents) {
		return -1
	}
	p := int(j.Parents[i])
	if p >= i {
		return -1
	}
	return p
}

func (j RawJoints) clone() RawJoints {
	out := RawJoints{
		Translations: make([]math.Vec3, len(j.Translations)),
		Rotations:    make([]math.Vec3, len(j.Rotations)),
		Parents:      make([]uint16, len(j.Parents)),
	}
	copy(out.Translations, j.Translations)
	copy(out.Rotations, j.Rotations)
	copy(out.Parents, j.Parents)
	return out
}

// ToWorldSpace converts local joint transforms to world space with a
// forward kinematics pass in index order.
func (j RawJoints) ToWorldSpace() RawJoints {
	out := j.clone()
	world := make([]mgl32.Mat4, j.Len())
	for i := range world {
		local := math.Transform(j.Translations[i], at(j.Rotations, i))
		p := j.parentOf(i)
		if p < 0 {
			world[i] = local
			continue
		}
		world[i] = world[p].Mul4(local)
		out.Translations[i] = math.TranslationOf(world[i])
		out.Rotations[i] = math.EulerFromMatrix(world[i])
	}
	return out
}

// ToLocalSpace is the inverse of ToWorldSpace: every joint is multiplied by
// the inverse world transform of its parent.
func (j RawJoints) ToLocalSpace() RawJoints {
	out := j.clone()
	world := make([]mgl32.Mat4, j.Len())
	for i := range world {
		world[i] = math.Transform(j.Translations[i], at(j.Rotations, i))
	}
	for i := range world {
		p := j.parentOf(i)
		if p < 0 {
			continue
		}
		local := world[p].Inv().Mul4(world[i])
		out.Translations[i] = math.TranslationOf(local)
		out.Rotations[i] = math.EulerFromMatrix(local)
	}
	return out
}
