package bam2fastq

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// OutputMode selects where converted reads go.
type OutputMode int

const (
	// Files writes mate 1, mate 2 and unpaired reads to three files named
	// from Opts.OutputTemplate.
	Files OutputMode = iota
	// Interleaved writes matched mates, read 1 first, to standard output.
	// Unpaired reads and orphans go to a file named from the template.
	Interleaved
	// Stdout writes every exported read to standard output in input order.
	// Mates are not paired.
	Stdout
)

// String implements fmt.Stringer.
func (m OutputMode) String() string {
	switch m {
	case Files:
		return "files"
	case Interleaved:
		return "interleaved"
	case Stdout:
		return "stdout"
	}
	return fmt.Sprintf("OutputMode(%d)", int(m))
}

// DefaultOutputTemplate is the default value of Opts.OutputTemplate.
const DefaultOutputTemplate = "s_%#_sequence.txt"

// Opts defines the options for a conversion. An Opts value is built once,
// typically from command-line flags, and is not modified afterwards.
type Opts struct {
	// OutputTemplate names the output files. The first '%' is replaced by
	// the lane number parsed from the first read name, and the first '#' by
	// "_1", "_2" or "_M". Paths ending in ".gz" are gzip-compressed.
	OutputTemplate string
	// Mode selects the output layout.
	Mode OutputMode

	// IncludeAligned exports reads whose unmapped flag is clear.
	IncludeAligned bool
	// IncludeUnaligned exports reads whose unmapped flag is set.
	IncludeUnaligned bool
	// IncludeFiltered exports reads that failed vendor quality checks.
	IncludeFiltered bool

	// Strict disables read name normalization before mates are matched.
	// Otherwise names such as "readA1" and "readA2" are treated as mates.
	Strict bool
	// Overwrite allows existing _1 and _2 output files to be replaced.
	Overwrite bool
	// Quiet suppresses informational messages. Warnings are still logged.
	Quiet bool
}

// DefaultOpts exports every read into three files named after
// DefaultOutputTemplate.
var DefaultOpts = Opts{
	OutputTemplate:   DefaultOutputTemplate,
	Mode:             Files,
	IncludeAligned:   true,
	IncludeUnaligned: true,
	IncludeFiltered:  true,
}

// Validate checks that the options are consistent. The inclusion gates are
// independent; excluding both aligned and unaligned reads is allowed and
// simply exports nothing.
func (o *Opts) Validate() error {
	switch o.Mode {
	case Files, Interleaved:
		if o.OutputTemplate == "" {
			return errors.E(errors.Invalid, fmt.Sprintf("output mode %v requires an output template", o.Mode))
		}
	case Stdout:
	default:
		return errors.E(errors.Invalid, fmt.Sprintf("unknown output mode %v", o.Mode))
	}
	return nil
}
