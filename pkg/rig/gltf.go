package rig

import (
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"golang.org/x/exp/slices"

	"github.com/Faultbox/genepool/pkg/math"
)

// glTF attribute names.
const (
	attrPosition = "POSITION"
	attrJoints   = "JOINTS_0"
	attrWeights  = "WEIGHTS_0"
)

// OpenGLTF imports a rig from a .gltf or .glb file. The rig is named after
// the file.
func OpenGLTF(path string) (*Rig, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	r, err := FromGLTF(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "importing %s", path)
	}
	r.Info.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return r, nil
}

// FromGLTF converts a glTF document into a rig. Every glTF mesh becomes one
// rig mesh with its primitives concatenated. The first skin provides the
// joint hierarchy and morph targets become blend shapes, one per target
// index. Joint groups are not represented in glTF and stay empty.
func FromGLTF(doc *gltf.Document) (*Rig, error) {
	r := &Rig{}

	remap, err := r.importJoints(doc)
	if err != nil {
		return nil, err
	}
	for i, m := range doc.Meshes {
		mesh, err := importMesh(doc, m, remap)
		if err != nil {
			return nil, errors.Wrapf(err, "mesh %d (%s)", i, m.Name)
		}
		r.Meshes = append(r.Meshes, mesh)
	}
	return r, r.Validate()
}

// importJoints reads the first skin, ordering joints so that parents precede
// children. It returns the mapping from skin joint slot to rig joint index.
func (r *Rig) importJoints(doc *gltf.Document) ([]uint16, error) {
	if len(doc.Skins) == 0 {
		return nil, nil
	}
	skin := doc.Skins[0]

	parentNode := make(map[uint32]uint32)
	for n, node := range doc.Nodes {
		for _, c := range node.Children {
			parentNode[c] = uint32(n)
		}
	}

	slot := make(map[uint32]int, len(skin.Joints))
	for i, n := range skin.Joints {
		if int(n) >= len(doc.Nodes) {
			return nil, errors.Errorf("skin joint %d references missing node %d", i, n)
		}
		slot[n] = i
	}

	// A walk longer than the node count means the hierarchy has a cycle.
	depth := func(n uint32) (int, bool) {
		d := 0
		for steps := 0; steps <= len(doc.Nodes); steps++ {
			p, ok := parentNode[n]
			if !ok {
				return d, true
			}
			if _, inSkin := slot[p]; inSkin {
				d++
			}
			n = p
		}
		return 0, false
	}

	order := make([]int, len(skin.Joints))
	depths := make([]int, len(skin.Joints))
	for i, n := range skin.Joints {
		d, ok := depth(n)
		if !ok {
			return nil, errors.Errorf("node %d is part of a cyclic hierarchy", n)
		}
		order[i] = i
		depths[i] = d
	}
	slices.SortStableFunc(order, func(a, b int) int { return depths[a] - depths[b] })

	remap := make([]uint16, len(skin.Joints))
	for idx, s := range order {
		remap[s] = uint16(idx)
	}

	r.Joints = make([]Joint, len(order))
	for idx, s := range order {
		node := doc.Nodes[skin.Joints[s]]
		joint := Joint{
			Name:        node.Name,
			Parent:      -1,
			Translation: node.Translation,
			Rotation:    quatToEuler(node.Rotation),
		}
		if p, ok := parentNode[skin.Joints[s]]; ok {
			if ps, inSkin := slot[p]; inSkin {
				joint.Parent = int(remap[ps])
			}
		}
		r.Joints[idx] = joint
	}
	return remap, nil
}

// quatToEuler converts a glTF (x, y, z, w) rotation to Euler degrees.
func quatToEuler(q [4]float32) [3]float32 {
	return math.EulerFromQuat(mgl32.Quat{W: q[3], V: mgl32.Vec3{q[0], q[1], q[2]}}).Array()
}

// accessor returns the accessor at idx or an error when it does not exist.
func accessor(doc *gltf.Document, idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(doc.Accessors) {
		return nil, errors.Errorf("accessor %d of %d", idx, len(doc.Accessors))
	}
	return doc.Accessors[idx], nil
}

func importMesh(doc *gltf.Document, m *gltf.Mesh, remap []uint16) (Mesh, error) {
	mesh := Mesh{Name: m.Name}
	skinned := false

	for pi, prim := range m.Primitives {
		posIdx, ok := prim.Attributes[attrPosition]
		if !ok {
			continue
		}
		acr, err := accessor(doc, posIdx)
		if err != nil {
			return mesh, errors.Wrapf(err, "primitive %d positions", pi)
		}
		positions, err := modeler.ReadPosition(doc, acr, nil)
		if err != nil {
			return mesh, errors.Wrapf(err, "primitive %d positions", pi)
		}
		offset := uint32(len(mesh.Positions))
		mesh.Positions = append(mesh.Positions, positions...)

		skin, err := readSkin(doc, prim.Attributes, len(positions), remap)
		if err != nil {
			return mesh, errors.Wrapf(err, "primitive %d skin", pi)
		}
		if skin != nil {
			skinned = true
		} else {
			skin = make([]VertexSkin, len(positions))
		}
		mesh.SkinWeights = append(mesh.SkinWeights, skin...)

		for t, target := range prim.Targets {
			idx, ok := target[attrPosition]
			if !ok {
				continue
			}
			acr, err := accessor(doc, idx)
			if err != nil {
				return mesh, errors.Wrapf(err, "primitive %d target %d", pi, t)
			}
			deltas, err := modeler.ReadPosition(doc, acr, nil)
			if err != nil {
				return mesh, errors.Wrapf(err, "primitive %d target %d", pi, t)
			}
			for len(mesh.BlendShapes) <= t {
				mesh.BlendShapes = append(mesh.BlendShapes, BlendShape{Channel: uint16(len(mesh.BlendShapes))})
			}
			bs := &mesh.BlendShapes[t]
			for v, d := range deltas {
				if d == ([3]float32{}) {
					continue
				}
				bs.Vertices = append(bs.Vertices, offset+uint32(v))
				bs.Deltas = append(bs.Deltas, d)
			}
		}
	}

	if !skinned {
		mesh.SkinWeights = nil
	} else {
		mesh.MaxInfluences = 4
	}
	return mesh, nil
}

// readSkin returns per-vertex influences with zero weights dropped, or nil
// when the primitive is not skinned.
func readSkin(doc *gltf.Document, attrs map[string]uint32, n int, remap []uint16) ([]VertexSkin, error) {
	jIdx, hasJoints := attrs[attrJoints]
	wIdx, hasWeights := attrs[attrWeights]
	if !hasJoints || !hasWeights {
		return nil, nil
	}
	jAcr, err := accessor(doc, jIdx)
	if err != nil {
		return nil, err
	}
	wAcr, err := accessor(doc, wIdx)
	if err != nil {
		return nil, err
	}
	joints, err := modeler.ReadJoints(doc, jAcr, nil)
	if err != nil {
		return nil, err
	}
	weights, err := modeler.ReadWeights(doc, wAcr, nil)
	if err != nil {
		return nil, err
	}
	if len(joints) < n || len(weights) < n {
		return nil, errors.Errorf("%d joints and %d weights for %d vertices", len(joints), len(weights), n)
	}

	out := make([]VertexSkin, n)
	for v := 0; v < n; v++ {
		for k := 0; k < 4; k++ {
			w := weights[v][k]
			if w == 0 {
				continue
			}
			j := joints[v][k]
			if int(j) >= len(remap) {
				return nil, errors.Errorf("vertex %d references joint slot %d of %d", v, j, len(remap))
			}
			out[v].Joints = append(out[v].Joints, remap[j])
			out[v].Weights = append(out[v].Weights, w)
		}
	}
	return out, nil
}
