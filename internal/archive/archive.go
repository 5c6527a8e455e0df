// Package archive implements the versioned, offset-addressed binary container
// used for gene pool files.
//
// Layout:
//
//	[signature "GNP"] [u16 major] [u16 minor]
//	[section table: SectionCount x u64]
//	[sections...]
//	[trailer "PNG"]
//
// All integers are big-endian.
package archive

import (
	"errors"
	"fmt"
)

// Signature and trailer magic.
const (
	Signature = "GNP"
	Trailer   = "PNG"
)

// SectionCount is the number of entries in the section table.
const SectionCount = 6

// headerSize is signature + version + section table.
const headerSize = len(Signature) + 4 + SectionCount*8

// Archive errors.
var (
	ErrBadSignature       = errors.New("invalid archive signature: expected 'GNP'")
	ErrUnsupportedVersion = errors.New("unsupported archive version")
	ErrBadTrailer         = errors.New("invalid archive trailer: expected 'PNG'")
	ErrTruncated          = errors.New("truncated archive data")
	ErrInvalidSection     = errors.New("invalid section index")
	ErrTooLarge           = errors.New("element count exceeds archive limits")
)

// Version identifies the archive format revision.
type Version struct {
	Major uint16
	Minor uint16
}

// Current is the format version written by this package.
var Current = Version{Major: 1, Minor: 0}

// String returns the version as "Major.Minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible reports whether data written with v can be read by this package.
func (v Version) Compatible() bool {
	return v == Current
}

// SectionTable holds the absolute byte offset of each section.
type SectionTable [SectionCount]uint64
