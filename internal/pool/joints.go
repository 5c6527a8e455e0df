package pool

import "github.com/Faultbox/genepool/pkg/math"

// NeutralJointPool stores world-space joint translations and rotations of
// the archetype plus blocked per-variant deltas.
type NeutralJointPool struct {
	translations      xyzArray
	rotations         xyzArray
	translationDeltas blockedXYZ
	rotationDeltas    blockedXYZ
}

func newNeutralJointPool(archetype RigSource, dnas []RigSource) NeutralJointPool {
	arch := rawJointsFrom(archetype).ToWorldSpace()
	n := arch.Len()

	p := NeutralJointPool{
		translations:      newXYZArray(n),
		rotations:         newXYZArray(n),
		translationDeltas: newBlockedXYZ(BlockCount(n), len(dnas)),
		rotationDeltas:    newBlockedXYZ(BlockCount(n), len(dnas)),
	}
	for j := 0; j < n; j++ {
		p.translations.set(j, arch.Translations[j])
		p.rotations.set(j, arch.Rotations[j])
	}

	for d, dna := range dnas {
		world := rawJointsFrom(dna).ToWorldSpace()
		for j := 0; j < n && j < world.Len(); j++ {
			dt := world.Translations[j].Sub(arch.Translations[j])
			dr := world.Rotations[j].Sub(arch.Rotations[j])
			p.translationDeltas.set(d, j, dt.X, dt.Y, dt.Z)
			p.rotationDeltas.set(d, j, dr.X, dr.Y, dr.Z)
		}
	}
	return p
}

// JointCount returns the number of joints held.
func (p *NeutralJointPool) JointCount() int {
	return p.translations.Len()
}

// BlockCount returns the number of 16-joint blocks.
func (p *NeutralJointPool) BlockCount() int {
	return p.translationDeltas.blockCount()
}

// TranslationBlock returns a variant's translation delta block, or nil.
func (p *NeutralJointPool) TranslationBlock(block, variant int) *XYZBlock {
	return p.translationDeltas.at(block, variant)
}

// RotationBlock returns a variant's rotation delta block, or nil.
func (p *NeutralJointPool) RotationBlock(block, variant int) *XYZBlock {
	return p.rotationDeltas.at(block, variant)
}

// ArchetypeJointTranslation returns the archetype world translation.
func (p *NeutralJointPool) ArchetypeJointTranslation(joint int) math.Vec3 {
	v, _ := p.translations.at(joint)
	return v
}

// ArchetypeJointRotation returns the archetype world rotation in degrees.
func (p *NeutralJointPool) ArchetypeJointRotation(joint int) math.Vec3 {
	v, _ := p.rotations.at(joint)
	return v
}

// VariantJointTranslation reconstructs a variant's world translation.
func (p *NeutralJointPool) VariantJointTranslation(variant, joint int) math.Vec3 {
	return reconstruct(&p.translations, &p.translationDeltas, variant, joint)
}

// VariantJointRotation reconstructs a variant's world rotation in degrees.
func (p *NeutralJointPool) VariantJointRotation(variant, joint int) math.Vec3 {
	return reconstruct(&p.rotations, &p.rotationDeltas, variant, joint)
}

// reconstruct returns base[i] + deltas[variant][i], or zero when out of range.
func reconstruct(base *xyzArray, deltas *blockedXYZ, variant, i int) math.Vec3 {
	v, ok := base.at(i)
	if !ok {
		return math.Vec3{}
	}
	x, y, z, ok := deltas.get(variant, i)
	if !ok {
		return math.Vec3{}
	}
	return v.Add(math.V3(x, y, z))
}
