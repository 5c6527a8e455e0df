package rig

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Validation errors.
var (
	ErrSkinLength       = errors.New("skin joints and weights differ in length")
	ErrBlendShapeLength = errors.New("blend shape vertices and deltas differ in length")
	ErrJointParent      = errors.New("joint parent must not follow the joint")
	ErrJointGroupShape  = errors.New("joint group values do not match inputs x outputs")
)

// LoadYAML reads a rig from a YAML file.
func LoadYAML(path string) (*Rig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := ParseYAML(data)
	if err != nil {
		return nil, errors.Wrapf(err, "rig %s", path)
	}
	return r, nil
}

// ParseYAML decodes and validates a rig.
func ParseYAML(data []byte) (*Rig, error) {
	r := &Rig{}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, errors.Wrap(err, "decoding rig")
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeYAML encodes a rig in the format ParseYAML reads.
func (r *Rig) EncodeYAML() ([]byte, error) {
	return yaml.Marshal(r)
}

// Validate checks the internal consistency of a rig.
func (r *Rig) Validate() error {
	for m, mesh := range r.Meshes {
		for v, vs := range mesh.SkinWeights {
			if len(vs.Joints) != len(vs.Weights) {
				return errors.Wrapf(ErrSkinLength, "mesh %d vertex %d", m, v)
			}
		}
		for t, bs := range mesh.BlendShapes {
			if len(bs.Vertices) != len(bs.Deltas) {
				return errors.Wrapf(ErrBlendShapeLength, "mesh %d target %d", m, t)
			}
		}
	}
	for j, joint := range r.Joints {
		if joint.Parent > j {
			return errors.Wrapf(ErrJointParent, "joint %d (%s) parent %d", j, joint.Name, joint.Parent)
		}
	}
	for g, jg := range r.JointGroups {
		if len(jg.Values) != len(jg.Inputs)*len(jg.Outputs) {
			return errors.Wrapf(ErrJointGroupShape, "group %d", g)
		}
	}
	return nil
}
