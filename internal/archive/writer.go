package archive

import (
	"encoding/binary"
	"io"
	"math"
)

// Writer serializes an archive into memory. Section offsets are patched into
// the table when Finish is called, so the destination does not need to seek.
type Writer struct {
	buf      []byte
	sections SectionTable
	begun    bool
}

// NewWriter creates an empty archive writer.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 4096)}
}

// Header writes the signature, version and a zeroed section table.
func (w *Writer) Header(v Version) {
	w.buf = append(w.buf, Signature...)
	w.U16(v.Major)
	w.U16(v.Minor)
	for i := 0; i < SectionCount; i++ {
		w.U64(0)
	}
	w.begun = true
}

// MarkSection records the current offset as the start of section i.
func (w *Writer) MarkSection(i int) error {
	if i < 0 || i >= SectionCount {
		return ErrInvalidSection
	}
	w.sections[i] = uint64(len(w.buf))
	return nil
}

// Sections returns the offsets recorded so far.
func (w *Writer) Sections() SectionTable {
	return w.sections
}

// Finish appends the trailer and patches the section table.
func (w *Writer) Finish() {
	w.buf = append(w.buf, Trailer...)
	if !w.begun {
		return
	}
	table := w.buf[len(Signature)+4:]
	for i, off := range w.sections {
		binary.BigEndian.PutUint64(table[i*8:], off)
	}
}

// Bytes returns the serialized archive.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// WriteTo writes the serialized archive to dst.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	n, err := dst.Write(w.buf)
	return int64(n), err
}

// U8 appends a byte.
func (w *Writer) U8(v uint8) {
	w.buf = append(w.buf, v)
}

// U16 appends a big-endian uint16.
func (w *Writer) U16(v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

// U32 appends a big-endian uint32.
func (w *Writer) U32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

// U64 appends a big-endian uint64.
func (w *Writer) U64(v uint64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, v)
}

// F32 appends a float32 as its IEEE-754 bit pattern.
func (w *Writer) F32(v float32) {
	w.U32(math.Float32bits(v))
}

// String appends a u32 length followed by the raw bytes.
func (w *Writer) String(s string) {
	w.U32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

// Strings appends a u32 count followed by each string.
func (w *Writer) Strings(s []string) {
	w.U32(uint32(len(s)))
	for _, v := range s {
		w.String(v)
	}
}

// F32s appends a u32 count followed by the values.
func (w *Writer) F32s(s []float32) {
	w.U32(uint32(len(s)))
	w.F32Array(s)
}

// F32Array appends values without a count prefix.
func (w *Writer) F32Array(s []float32) {
	for _, v := range s {
		w.F32(v)
	}
}

// U16s appends a u32 count followed by the values.
func (w *Writer) U16s(s []uint16) {
	w.U32(uint32(len(s)))
	for _, v := range s {
		w.U16(v)
	}
}

// U32s appends a u32 count followed by the values.
func (w *Writer) U32s(s []uint32) {
	w.U32(uint32(len(s)))
	for _, v := range s {
		w.U32(v)
	}
}
