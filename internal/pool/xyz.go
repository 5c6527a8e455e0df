package pool

import "github.com/Faultbox/genepool/pkg/math"

// xyzArray holds unblocked 3D values in structure-of-arrays layout.
type xyzArray struct {
	Xs, Ys, Zs []float32
}

func newXYZArray(n int) xyzArray {
	return xyzArray{
		Xs: make([]float32, n),
		Ys: make([]float32, n),
		Zs: make([]float32, n),
	}
}

// copyXYZ copies the first n values of the given slices, zero-filling
// missing entries.
func copyXYZ(n int, xs, ys, zs []float32) xyzArray {
	a := newXYZArray(n)
	copy(a.Xs, xs)
	copy(a.Ys, ys)
	copy(a.Zs, zs)
	return a
}

func (a *xyzArray) Len() int {
	return len(a.Xs)
}

func (a *xyzArray) at(i int) (math.Vec3, bool) {
	if i < 0 || i >= len(a.Xs) || i >= len(a.Ys) || i >= len(a.Zs) {
		return math.Vec3{}, false
	}
	return math.V3(a.Xs[i], a.Ys[i], a.Zs[i]), true
}

func (a *xyzArray) set(i int, v math.Vec3) {
	a.Xs[i], a.Ys[i], a.Zs[i] = v.X, v.Y, v.Z
}
