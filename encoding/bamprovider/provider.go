package bamprovider

import (
	"strings"

	"github.com/grailbio/hts/sam"
)

// ProviderOpts defines options for Open.
type ProviderOpts struct {
	// FileType forces the input format. If Unknown, the format is guessed from
	// the path.
	FileType FileType

	// Parallelism is the number of goroutines used for BGZF decompression of
	// BAM input. If <= 0, it defaults to 1.
	Parallelism int
}

// Iterator iterates over sam.Records in file order. Thread compatible.
type Iterator interface {
	// Scan returns where there are any records remaining in the iterator,
	// and if so, advances the iterator to the next record. If the iterator
	// reaches the end of the file, Scan() returns false.  If an error
	// occurs, Scan() returns false and the error can be retrieved by
	// calling Err().
	//
	// REQUIRES: Close has not been called.
	Scan() bool

	// Record returns the current record in the iterator. This must be
	// called only after a call to Scan() returns true. The record remains
	// valid after the next call to Scan.
	//
	// REQUIRES: Close has not been called.
	Record() *sam.Record

	// Err returns the error encoutered during iteration, or nil if no error
	// occurred.  An io.EOF error will be translated to nil.
	Err() error

	// Close must be called exactly once. It returns the value of Err(), or
	// an error encountered while closing the underlying file.
	Close() error
}

// FileType represents the type of a BAM-like file.
type FileType int

const (
	// Unknown is a sentinel.
	Unknown FileType = iota
	// BAM file
	BAM
	// SAM text file
	SAM
)

// ParseFileType parses the file type string. "bam" returns bamprovider.BAM, for
// example. On error, it returns Unknown.
func ParseFileType(name string) FileType {
	switch name {
	case "bam":
		return BAM
	case "sam":
		return SAM
	default:
		return Unknown
	}
}

// GuessFileType returns the file type from the pathname. Paths ending in
// ".sam" are SAM; everything else, including "-" for stdin, is BAM.
func GuessFileType(path string) FileType {
	if strings.HasSuffix(path, ".sam") {
		return SAM
	}
	return BAM
}

func mergeOpts(optList []ProviderOpts) ProviderOpts {
	opts := ProviderOpts{}
	for _, o := range optList {
		if o.FileType != Unknown {
			opts.FileType = o.FileType
		}
		if o.Parallelism > 0 {
			opts.Parallelism = o.Parallelism
		}
	}
	return opts
}
