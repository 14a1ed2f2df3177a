package bamprovider

import (
	"io"
	"os"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"v.io/x/lib/vlog"
)

// recordReader is implemented by both sam.Reader and bam.Reader.
type recordReader interface {
	Read() (*sam.Record, error)
}

// fileIterator implements Iterator for a BAM or SAM file, or stdin.
type fileIterator struct {
	path   string
	in     file.File // nil when reading stdin.
	reader recordReader
	bamr   *bam.Reader // non-nil iff reader is a BAM reader.

	rec *sam.Record
	err errors.Once
}

// Open opens the BAM or SAM file at "path" and reads its header. Path "-"
// reads from stdin. Path may be any URL supported by grailbio/base/file.
//
// An error is returned if the file cannot be opened or its header cannot be
// parsed; errors after that point are reported by the iterator's Err.
func Open(path string, optList ...ProviderOpts) (Iterator, error) {
	opts := mergeOpts(optList)
	if opts.FileType == Unknown {
		opts.FileType = GuessFileType(path)
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = 1
	}
	iter := &fileIterator{path: path}
	var in io.Reader
	if path == "-" {
		in = os.Stdin
	} else {
		ctx := vcontext.Background()
		f, err := file.Open(ctx, path)
		if err != nil {
			return nil, errors.E(err, "open", path)
		}
		iter.in = f
		in = f.Reader(ctx)
	}
	var err error
	switch opts.FileType {
	case SAM:
		iter.reader, err = sam.NewReader(in)
	default:
		iter.bamr, err = bam.NewReader(in, opts.Parallelism)
		if err == nil {
			iter.reader = iter.bamr
		}
	}
	if err != nil {
		iter.closeFile()
		return nil, errors.E(err, "read header of", path)
	}
	vlog.VI(1).Infof("%v: opened as %v", path, opts.FileType)
	return iter, nil
}

// Scan implements the Iterator interface.
func (i *fileIterator) Scan() bool {
	if i.err.Err() != nil {
		return false
	}
	rec, err := i.reader.Read()
	if err != nil {
		if err != io.EOF {
			i.err.Set(errors.E(err, i.path))
		}
		i.rec = nil
		return false
	}
	i.rec = rec
	return true
}

// Record implements the Iterator interface.
func (i *fileIterator) Record() *sam.Record {
	return i.rec
}

// Err implements the Iterator interface.
func (i *fileIterator) Err() error {
	return i.err.Err()
}

// Close implements the Iterator interface.
func (i *fileIterator) Close() error {
	if i.bamr != nil {
		i.err.Set(i.bamr.Close())
	}
	i.closeFile()
	return i.err.Err()
}

func (i *fileIterator) closeFile() {
	if i.in == nil {
		return
	}
	i.err.Set(i.in.Close(vcontext.Background()))
	i.in = nil
}

func (t FileType) String() string {
	switch t {
	case BAM:
		return "BAM"
	case SAM:
		return "SAM"
	default:
		return "unknown"
	}
}
