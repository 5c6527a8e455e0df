package archive

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// maxElements bounds any single count read from a stream.
const maxElements = 1 << 28

// Reader decodes an archive from a seekable stream. The first error is
// sticky: later reads return zero values and Err reports the failure.
type Reader struct {
	r       io.ReadSeeker
	scratch [8]byte
	err     error
}

// NewReader wraps a seekable stream.
func NewReader(r io.ReadSeeker) *Reader {
	return &Reader{r: r}
}

// Err returns the first error encountered.
func (r *Reader) Err() error {
	return r.err
}

// Header reads and validates the signature and version, then returns the
// section table.
func (r *Reader) Header() (Version, SectionTable, error) {
	var table SectionTable

	magic := r.read(len(Signature))
	if r.err != nil {
		return Version{}, table, r.err
	}
	if string(magic) != Signature {
		return Version{}, table, ErrBadSignature
	}

	v := Version{Major: r.U16(), Minor: r.U16()}
	if r.err != nil {
		return v, table, r.err
	}
	if !v.Compatible() {
		return v, table, errors.Wrapf(ErrUnsupportedVersion, "got %s, want %s", v, Current)
	}

	for i := range table {
		table[i] = r.U64()
	}
	if r.err != nil {
		return v, table, r.err
	}
	for i, off := range table {
		if off != 0 && off < uint64(headerSize) {
			return v, table, errors.Wrapf(ErrInvalidSection, "section %d offset %d inside header", i, off)
		}
	}
	return v, table, nil
}

// Seek positions the reader at an absolute offset.
func (r *Reader) Seek(offset uint64) {
	if r.err != nil {
		return
	}
	if _, err := r.r.Seek(int64(offset), io.SeekStart); err != nil {
		r.err = errors.Wrapf(err, "seeking to %d", offset)
	}
}

// Trailer checks the trailing magic at the end of the stream.
func (r *Reader) Trailer() error {
	if r.err != nil {
		return r.err
	}
	if _, err := r.r.Seek(-int64(len(Trailer)), io.SeekEnd); err != nil {
		return errors.Wrap(ErrTruncated, err.Error())
	}
	magic := r.read(len(Trailer))
	if r.err != nil {
		return r.err
	}
	if string(magic) != Trailer {
		return ErrBadTrailer
	}
	return nil
}

func (r *Reader) read(n int) []byte {
	if r.err != nil {
		return nil
	}
	var buf []byte
	if n <= len(r.scratch) {
		buf = r.scratch[:n]
	} else {
		buf = make([]byte, n)
	}
	if _, err := io.ReadFull(r.r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			r.err = ErrTruncated
		} else {
			r.err = err
		}
		return nil
	}
	return buf
}

// U8 reads a byte.
func (r *Reader) U8() uint8 {
	b := r.read(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// U16 reads a big-endian uint16.
func (r *Reader) U16() uint16 {
	b := r.read(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

// U32 reads a big-endian uint32.
func (r *Reader) U32() uint32 {
	b := r.read(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// U64 reads a big-endian uint64.
func (r *Reader) U64() uint64 {
	b := r.read(8)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

// F32 reads an IEEE-754 float32.
func (r *Reader) F32() float32 {
	return math.Float32frombits(r.U32())
}

// Count reads a u32 element count and rejects implausible values.
func (r *Reader) Count() int {
	n := r.U32()
	if r.err == nil && n > maxElements {
		r.err = errors.Wrapf(ErrTooLarge, "count %d", n)
		return 0
	}
	return int(n)
}

// String reads a length-prefixed string.
func (r *Reader) String() string {
	n := r.Count()
	if n == 0 {
		return ""
	}
	return string(r.read(n))
}

// Strings reads a count-prefixed list of strings.
func (r *Reader) Strings() []string {
	n := r.Count()
	out := make([]string, 0, n)
	for i := 0; i < n && r.err == nil; i++ {
		out = append(out, r.String())
	}
	return out
}

// F32s reads a count-prefixed list of float32 values.
func (r *Reader) F32s() []float32 {
	return r.F32Array(r.Count())
}

// F32Array reads n float32 values without a count prefix.
func (r *Reader) F32Array(n int) []float32 {
	if n == 0 || r.err != nil {
		return nil
	}
	raw := r.read(n * 4)
	if raw == nil {
		return nil
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.BigEndian.Uint32(raw[i*4:]))
	}
	return out
}

// U16s reads a count-prefixed list of uint16 values.
func (r *Reader) U16s() []uint16 {
	n := r.Count()
	if n == 0 || r.err != nil {
		return nil
	}
	raw := r.read(n * 2)
	if raw == nil {
		return nil
	}
	out := make([]uint16, n)
	for i := range out {
		out[i] = binary.BigEndian.Uint16(raw[i*2:])
	}
	return out
}

// U32s reads a count-prefixed list of uint32 values.
func (r *Reader) U32s() []uint32 {
	n := r.Count()
	if n == 0 || r.err != nil {
		return nil
	}
	raw := r.read(n * 4)
	if raw == nil {
		return nil
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = binary.BigEndian.Uint32(raw[i*4:])
	}
	return out
}
