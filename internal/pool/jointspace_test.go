package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/genepool/pkg/math"
)

func TestRawJoints_ToWorldSpace(t *testing.T) {
	j := RawJoints{
		Translations: []math.Vec3{{X: 1}, {Y: 1}, {Y: 1}},
		Rotations:    []math.Vec3{{Z: 90}, {}, {}},
		Parents:      []uint16{0, 0, 1},
	}

	w := j.ToWorldSpace()

	assert.Equal(t, j.Translations[0], w.Translations[0], "root is unchanged")
	assert.True(t, w.Translations[1].ApproxEqual(math.V3(0, 0, 0), 1e-5), "got %v", w.Translations[1])
	assert.True(t, w.Translations[2].ApproxEqual(math.V3(-1, 0, 0), 1e-5), "got %v", w.Translations[2])
	assert.InDelta(t, 90, w.Rotations[2].Z, 1e-3)
}

func TestRawJoints_RoundTrip(t *testing.T) {
	j := RawJoints{
		Translations: []math.Vec3{{X: 0.5, Y: 2}, {X: 1, Z: -1}, {Y: 3}, {X: -2}},
		Rotations:    []math.Vec3{{X: 10, Y: 20, Z: 30}, {X: -15, Z: 40}, {Y: 25}, {X: 5, Y: -5, Z: 5}},
		Parents:      []uint16{0, 0, 1, 1},
	}

	back := j.ToWorldSpace().ToLocalSpace()

	for i := 0; i < j.Len(); i++ {
		assert.True(t, back.Translations[i].ApproxEqual(j.Translations[i], 1e-4),
			"joint %d translation: got %v, want %v", i, back.Translations[i], j.Translations[i])
		assert.True(t, back.Rotations[i].ApproxEqual(j.Rotations[i], 1e-2),
			"joint %d rotation: got %v, want %v", i, back.Rotations[i], j.Rotations[i])
	}
}

func TestRawJoints_ForwardParentIsRoot(t *testing.T) {
	j := RawJoints{
		Translations: []math.Vec3{{X: 1}, {X: 5}},
		Rotations:    []math.Vec3{{}, {}},
		Parents:      []uint16{1, 1},
	}

	w := j.ToWorldSpace()

	assert.Equal(t, j.Translations, w.Translations)
}
