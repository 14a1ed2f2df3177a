package fastq

import (
	"io"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrDiscordant is reported when one of two paired streams ends before
	// the other.
	ErrDiscordant = errors.New("discordant FASTQ pairs")
	// ErrMateName is reported when the i'th reads of two paired streams name
	// different templates.
	ErrMateName = errors.New("FASTQ mate names differ")
)

// MateName returns the template name of a FASTQ ID line: the leading '@' and
// anything after the first space or tab are dropped, then a trailing "/1" or
// "/2" mate suffix is removed.
func MateName(id string) string {
	name := strings.TrimPrefix(id, "@")
	if i := strings.IndexAny(name, " \t"); i >= 0 {
		name = name[:i]
	}
	if n := len(name); n >= 2 && name[n-2] == '/' && (name[n-1] == '1' || name[n-1] == '2') {
		name = name[:n-2]
	}
	return name
}

// PairScanner reads an R1 and an R2 FASTQ stream in lockstep. Besides the
// per-record checks of Scanner, it requires both streams to hold the same
// number of records and the i'th records of both to share a MateName.
type PairScanner struct {
	r1, r2 *Scanner
	n      int64
	err    error
	done   bool
}

// NewPairScanner creates a PairScanner over the R1 stream r1 and the R2
// stream r2.
func NewPairScanner(r1, r2 io.Reader) *PairScanner {
	return &PairScanner{r1: NewScanner(r1), r2: NewScanner(r2)}
}

// Scan reads the next pair into r1 and r2. It returns false at the end of
// both streams or at the first problem; Err tells the two apart.
func (p *PairScanner) Scan(r1, r2 *Read) bool {
	if p.done {
		return false
	}
	ok1 := p.r1.Scan(r1)
	ok2 := p.r2.Scan(r2)
	if !ok1 || !ok2 {
		p.done = true
		if ok1 != ok2 && p.r1.Err() == nil && p.r2.Err() == nil {
			p.err = errors.Wrapf(ErrDiscordant, "after %d pairs", p.n)
		}
		return false
	}
	if name1, name2 := r1.Name(), r2.Name(); name1 != name2 {
		p.done = true
		p.err = errors.Wrapf(ErrMateName, "pair %d: R1 read %q does not match R2 read %q", p.n+1, name1, name2)
		return false
	}
	p.n++
	return true
}

// N returns the number of matching pairs scanned so far.
func (p *PairScanner) N() int64 { return p.n }

// Err returns the first error from the R1 stream, the R2 stream, or the
// pairing itself, in that order.
func (p *PairScanner) Err() error {
	if err := p.r1.Err(); err != nil {
		return errors.Wrap(err, "R1")
	}
	if err := p.r2.Err(); err != nil {
		return errors.Wrap(err, "R2")
	}
	return p.err
}

// VerifyPairs checks that r1In and r2In hold matching mates, as PairScanner
// defines it, and returns the number of pairs checked.
func VerifyPairs(r1In, r2In io.Reader) (int64, error) {
	var (
		s      = NewPairScanner(r1In, r2In)
		r1, r2 Read
	)
	for s.Scan(&r1, &r2) {
	}
	return s.N(), s.Err()
}
