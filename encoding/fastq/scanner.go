package fastq

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrShort is reported when a record is cut off before its quality line.
	ErrShort = errors.New("short FASTQ file")
	// ErrInvalid is reported when line 1 of a record lacks its '@' or line 3
	// its '+'.
	ErrInvalid = errors.New("invalid FASTQ file")
	// ErrLength is reported when a record's sequence and quality lines differ
	// in length.
	ErrLength = errors.New("FASTQ sequence and quality lengths differ")
)

// maxLineLen bounds a single FASTQ line. Long-read platforms produce lines
// far beyond bufio's default token size.
const maxLineLen = 64 << 20

// A Read is one FASTQ record: the '@' ID line, the bases, the '+' separator
// line, and the Phred+33 quality line.
type Read struct {
	ID, Seq, Unk, Qual string
}

// Name returns the template name of the read; see MateName.
func (r *Read) Name() string { return MateName(r.ID) }

// Validate checks the record's framing and that the sequence and quality
// lines have equal length.
func (r *Read) Validate() error {
	if len(r.ID) == 0 || r.ID[0] != '@' || len(r.Unk) == 0 || r.Unk[0] != '+' {
		return ErrInvalid
	}
	if len(r.Seq) != len(r.Qual) {
		return ErrLength
	}
	return nil
}

// Scanner reads FASTQ records one at a time and validates each of them.
// Scanners are not threadsafe.
type Scanner struct {
	b    *bufio.Scanner
	n    int64
	err  error
	done bool
}

// NewScanner creates a Scanner reading FASTQ text from r.
func NewScanner(r io.Reader) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(nil, maxLineLen)
	return &Scanner{b: b}
}

// Scan reads the next record into read. It returns false at the end of the
// stream or on the first malformed record; Err tells the two apart. Once Scan
// returns false, it never returns true again.
func (s *Scanner) Scan(read *Read) bool {
	if s.done {
		return false
	}
	var lines [4]string
	for i := range lines {
		if !s.b.Scan() {
			err := s.b.Err()
			if err == nil && i > 0 {
				err = ErrShort
			}
			s.stop(err)
			return false
		}
		lines[i] = s.b.Text()
		if i == 0 && (len(lines[0]) == 0 || lines[0][0] != '@') {
			s.stop(ErrInvalid)
			return false
		}
	}
	*read = Read{ID: lines[0], Seq: lines[1], Unk: lines[2], Qual: lines[3]}
	if err := read.Validate(); err != nil {
		s.stop(err)
		return false
	}
	s.n++
	return true
}

func (s *Scanner) stop(err error) {
	s.done = true
	if err != nil {
		s.err = errors.Wrapf(err, "record %d", s.n+1)
	}
}

// N returns the number of well-formed records scanned so far.
func (s *Scanner) N() int64 { return s.n }

// Err returns the error that stopped the scan, or nil if the stream ended
// cleanly. errors.Cause recovers ErrShort, ErrInvalid or ErrLength.
func (s *Scanner) Err() error { return s.err }
