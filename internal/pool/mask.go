package pool

import (
	"fmt"
	"strings"
)

// Mask selects data categories of a pool.
type Mask uint8

// Data categories.
const (
	NeutralMeshes Mask = 1 << 0
	BlendShapes   Mask = 1 << 1
	SkinWeights   Mask = 1 << 2
	NeutralJoints Mask = 1 << 3
	JointBehavior Mask = 1 << 4

	None Mask = 0
	All       = NeutralMeshes | BlendShapes | SkinWeights | NeutralJoints | JointBehavior
)

var maskNames = []struct {
	flag  Mask
	name  string
	snake string
}{
	{NeutralMeshes, "NeutralMeshes", "neutral_meshes"},
	{BlendShapes, "BlendShapes", "blend_shapes"},
	{SkinWeights, "SkinWeights", "skin_weights"},
	{NeutralJoints, "NeutralJoints", "neutral_joints"},
	{JointBehavior, "JointBehavior", "joint_behavior"},
}

// Not returns the complement of m within All.
func (m Mask) Not() Mask {
	return ^m & All
}

// Or returns the union of m and other.
func (m Mask) Or(other Mask) Mask {
	return m | other
}

// And returns the intersection of m and other.
func (m Mask) And(other Mask) Mask {
	return m & other
}

// Has reports whether every bit of flag is set in m.
func (m Mask) Has(flag Mask) bool {
	return m&flag == flag
}

// String returns the set flags joined with "|".
func (m Mask) String() string {
	switch m & All {
	case None:
		return "None"
	case All:
		return "All"
	}
	var parts []string
	for _, n := range maskNames {
		if m.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseMask builds a mask from category names. Names may be CamelCase or
// snake_case, and may themselves contain "|" separated lists.
func ParseMask(names []string) (Mask, error) {
	var m Mask
	for _, raw := range names {
		for _, name := range strings.Split(raw, "|") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			flag, ok := lookupMask(name)
			if !ok {
				return None, fmt.Errorf("unknown mask category %q", name)
			}
			m |= flag
		}
	}
	return m, nil
}

func lookupMask(name string) (Mask, bool) {
	switch strings.ToLower(name) {
	case "all":
		return All, true
	case "none":
		return None, true
	}
	for _, n := range maskNames {
		if strings.EqualFold(name, n.name) || strings.EqualFold(name, n.snake) {
			return n.flag, true
		}
	}
	return None, false
}
