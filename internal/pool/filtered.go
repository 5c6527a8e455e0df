package pool

import (
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/genepool/internal/archive"
)

// Load reads a pool from an archive, populating only the categories present
// in both the archive and mask. Sections outside that set are skipped. On
// failure the Null pool is returned together with the error.
func Load(r io.ReadSeeker, mask Mask, opts ...Option) (Pool, error) {
	o := buildOptions(opts)
	log := o.log

	ar := archive.NewReader(r)
	version, table, err := ar.Header()
	if err != nil {
		log.Warn("Rejected gene pool archive", zap.Error(err))
		return Null(), err
	}

	p := &genePool{}
	for _, s := range sections {
		if s.flag != None && !p.meta.Mask.Has(s.flag) {
			log.Debug("Skipping section", zap.String("section", s.name))
			continue
		}
		offset := table[s.index]
		if offset == 0 {
			return Null(), errors.Wrapf(archive.ErrInvalidSection, "%s section missing", s.name)
		}
		ar.Seek(offset)
		if err := s.decode(ar, p); err != nil {
			log.Warn("Failed to decode section", zap.String("section", s.name), zap.Error(err))
			return Null(), errors.Wrapf(err, "decoding %s", s.name)
		}
		if s.flag == None {
			// Metadata is decoded first; narrow the running mask.
			p.meta.Mask &= mask
		}
	}

	if p.meta.DNACount() == 0 {
		return Null(), ErrDNAsEmpty
	}
	if o.checkTrailer {
		if err := ar.Trailer(); err != nil {
			return Null(), err
		}
	}

	log.Info("Gene pool loaded",
		zap.Stringer("version", version),
		zap.String("db", p.meta.DBName),
		zap.Int("dnas", p.meta.DNACount()),
		zap.Stringer("mask", p.meta.Mask))
	return p, nil
}

// Dump writes every section of p to w. The archive records p.Mask() & mask
// as its populated categories.
func Dump(p Pool, w io.Writer, mask Mask, opts ...Option) error {
	gp, ok := p.(*genePool)
	if !ok || gp == nil {
		return ErrNullPool
	}
	o := buildOptions(opts)

	// Encode from a shallow copy so the persisted mask does not leak into p.
	out := *gp
	out.meta.Mask = gp.meta.Mask & mask

	aw := archive.NewWriter()
	aw.Header(archive.Current)
	for _, s := range sections {
		if err := aw.MarkSection(s.index); err != nil {
			return err
		}
		s.encode(aw, &out)
	}
	aw.Finish()

	n, err := aw.WriteTo(w)
	if err != nil {
		return errors.Wrap(err, "writing gene pool archive")
	}
	o.log.Info("Gene pool dumped",
		zap.Int64("bytes", n),
		zap.Stringer("mask", out.meta.Mask))
	return nil
}
