package pool

import "golang.org/x/exp/slices"

type jointGroup struct {
	inputs  []uint16
	outputs []uint16
	// archetype values, [output][input] over the merged grid.
	archetype []float32
	// deltas, [block][variant][input][outputLane].
	deltas   []float32
	variants int
}

func (g *jointGroup) blockCount() int {
	return BlockCount(len(g.outputs))
}

func (g *jointGroup) blockStride() int {
	return len(g.inputs) * BlockWidth
}

func (g *jointGroup) deltaIndex(variant, output, input int) int {
	block, lane := blockOf(output)
	return ((block*g.variants+variant)*len(g.inputs)+input)*BlockWidth + lane
}

// JointBehaviorPool stores joint group matrices. Input and output indices of
// every group are merged across rigs; archetype values are dense over the
// merged grid and variants are stored as blocked differences, 16 outputs
// per block.
type JointBehaviorPool struct {
	groups []jointGroup
}

func newJointBehaviorPool(archetype RigSource, dnas []RigSource) JointBehaviorPool {
	sources := append([]RigSource{archetype}, dnas...)
	groupCount := int(archetype.JointGroupCount())
	p := JointBehaviorPool{groups: make([]jointGroup, groupCount)}

	for gi := 0; gi < groupCount; gi++ {
		group := uint16(gi)
		var inputs, outputs []uint16
		for _, src := range sources {
			if group >= src.JointGroupCount() {
				continue
			}
			inputs = append(inputs, src.JointGroupInputIndices(group)...)
			outputs = append(outputs, src.JointGroupOutputIndices(group)...)
		}
		slices.Sort(inputs)
		slices.Sort(outputs)

		g := jointGroup{
			inputs:   slices.Compact(inputs),
			outputs:  slices.Compact(outputs),
			variants: len(dnas),
		}
		g.archetype = denseGroupValues(archetype, group, g.inputs, g.outputs)
		g.deltas = make([]float32, g.blockCount()*g.variants*g.blockStride())

		for d, dna := range dnas {
			dense := denseGroupValues(dna, group, g.inputs, g.outputs)
			for o := range g.outputs {
				for i := range g.inputs {
					k := o*len(g.inputs) + i
					g.deltas[g.deltaIndex(d, o, i)] = dense[k] - g.archetype[k]
				}
			}
		}
		p.groups[gi] = g
	}
	return p
}

// denseGroupValues scatters a source's group matrix onto the merged grid.
func denseGroupValues(src RigSource, group uint16, inputs, outputs []uint16) []float32 {
	out := make([]float32, len(inputs)*len(outputs))
	if group >= src.JointGroupCount() {
		return out
	}
	srcInputs := src.JointGroupInputIndices(group)
	values := src.JointGroupValues(group)
	for oi, o := range src.JointGroupOutputIndices(group) {
		opos, found := slices.BinarySearch(outputs, o)
		if !found {
			continue
		}
		for ii, in := range srcInputs {
			ipos, found := slices.BinarySearch(inputs, in)
			if !found {
				continue
			}
			out[opos*len(inputs)+ipos] = at(values, oi*len(srcInputs)+ii)
		}
	}
	return out
}

func (p *JointBehaviorPool) group(g int) *jointGroup {
	if g < 0 || g >= len(p.groups) {
		return nil
	}
	return &p.groups[g]
}

// GroupCount returns the number of joint groups.
func (p *JointBehaviorPool) GroupCount() int {
	return len(p.groups)
}

// InputIndices returns the merged input indices of a group.
func (p *JointBehaviorPool) InputIndices(g int) []uint16 {
	if jg := p.group(g); jg != nil {
		return jg.inputs
	}
	return nil
}

// OutputIndices returns the merged output indices of a group.
func (p *JointBehaviorPool) OutputIndices(g int) []uint16 {
	if jg := p.group(g); jg != nil {
		return jg.outputs
	}
	return nil
}

// BlockCount returns the number of 16-output blocks of a group.
func (p *JointBehaviorPool) BlockCount(g int) int {
	if jg := p.group(g); jg != nil {
		return jg.blockCount()
	}
	return 0
}

// Block returns a variant's delta block of a group laid out
// [input][outputLane], or nil.
func (p *JointBehaviorPool) Block(g, block, variant int) []float32 {
	jg := p.group(g)
	if jg == nil || block < 0 || block >= jg.blockCount() || variant < 0 || variant >= jg.variants {
		return nil
	}
	start := (block*jg.variants + variant) * jg.blockStride()
	return jg.deltas[start : start+jg.blockStride()]
}

// ArchetypeValue returns the archetype value at merged (output, input).
func (p *JointBehaviorPool) ArchetypeValue(g, output, input int) float32 {
	jg := p.group(g)
	if jg == nil || output < 0 || output >= len(jg.outputs) || input < 0 || input >= len(jg.inputs) {
		return 0
	}
	return jg.archetype[output*len(jg.inputs)+input]
}

// VariantValue reconstructs a variant's value at merged (output, input).
func (p *JointBehaviorPool) VariantValue(variant, g, output, input int) float32 {
	jg := p.group(g)
	if jg == nil || variant < 0 || variant >= jg.variants ||
		output < 0 || output >= len(jg.outputs) || input < 0 || input >= len(jg.inputs) {
		return 0
	}
	return jg.archetype[output*len(jg.inputs)+input] + jg.deltas[jg.deltaIndex(variant, output, input)]
}
