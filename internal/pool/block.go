package pool

import "golang.org/x/exp/constraints"

// BlockWidth is the number of lanes in one storage block.
const BlockWidth = 16

// BlockCount returns the number of blocks needed to hold n lanes.
func BlockCount(n int) int {
	return (n + BlockWidth - 1) / BlockWidth
}

// blockOf splits an element index into its block and lane.
func blockOf(i int) (block, lane int) {
	return i / BlockWidth, i % BlockWidth
}

// XYZBlock holds one block of 3D values in structure-of-arrays layout.
type XYZBlock struct {
	X [BlockWidth]float32
	Y [BlockWidth]float32
	Z [BlockWidth]float32
}

// blockedXYZ stores XYZ blocks indexed [block][variant].
type blockedXYZ struct {
	variants int
	blocks   []XYZBlock
}

func newBlockedXYZ(blockCount, variants int) blockedXYZ {
	return blockedXYZ{
		variants: variants,
		blocks:   make([]XYZBlock, blockCount*variants),
	}
}

func (b *blockedXYZ) blockCount() int {
	if b.variants == 0 {
		return 0
	}
	return len(b.blocks) / b.variants
}

func (b *blockedXYZ) at(block, variant int) *XYZBlock {
	if variant < 0 || variant >= b.variants || block < 0 || block >= b.blockCount() {
		return nil
	}
	return &b.blocks[block*b.variants+variant]
}

func (b *blockedXYZ) set(variant, index int, x, y, z float32) {
	block, lane := blockOf(index)
	blk := b.at(block, variant)
	if blk == nil {
		return
	}
	blk.X[lane] = x
	blk.Y[lane] = y
	blk.Z[lane] = z
}

func (b *blockedXYZ) get(variant, index int) (x, y, z float32, ok bool) {
	if index < 0 {
		return 0, 0, 0, false
	}
	block, lane := blockOf(index)
	blk := b.at(block, variant)
	if blk == nil {
		return 0, 0, 0, false
	}
	return blk.X[lane], blk.Y[lane], blk.Z[lane], true
}

// Number is the element constraint of VariableWidthMatrix.
type Number interface {
	constraints.Integer | constraints.Float
}

// VariableWidthMatrix is a ragged matrix where every row has its own length.
// Rows are stored back to back; ends[i] is the exclusive end of row i.
type VariableWidthMatrix[T Number] struct {
	values []T
	ends   []uint32
}

// Append adds a row.
func (m *VariableWidthMatrix[T]) Append(row []T) {
	m.values = append(m.values, row...)
	m.ends = append(m.ends, uint32(len(m.values)))
}

// RowCount returns the number of rows.
func (m *VariableWidthMatrix[T]) RowCount() int {
	return len(m.ends)
}

// Len returns the total number of elements across all rows.
func (m *VariableWidthMatrix[T]) Len() int {
	return len(m.values)
}

// Row returns row i, or nil if i is out of range. The slice aliases the
// matrix storage and must not be modified.
func (m *VariableWidthMatrix[T]) Row(i int) []T {
	if i < 0 || i >= len(m.ends) {
		return nil
	}
	start := uint32(0)
	if i > 0 {
		start = m.ends[i-1]
	}
	return m.values[start:m.ends[i]:m.ends[i]]
}

// RowWidth returns the length of row i.
func (m *VariableWidthMatrix[T]) RowWidth(i int) int {
	return len(m.Row(i))
}
