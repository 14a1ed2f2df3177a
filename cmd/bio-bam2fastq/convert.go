package main

import (
	"context"
	"io"

	"github.com/grailbio/bamfastq/bam2fastq"
	"github.com/grailbio/bamfastq/encoding/bamprovider"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// convert runs one conversion of the file at path. Input "-" is standard
// input.
func convert(ctx context.Context, opts *bam2fastq.Opts, providerOpts bamprovider.ProviderOpts, path string, stdout io.Writer) (stats bam2fastq.Stats, err error) {
	if err = opts.Validate(); err != nil {
		return stats, err
	}
	iter, err := bamprovider.Open(path, providerOpts)
	if err != nil {
		return stats, err
	}
	defer func() {
		e := iter.Close()
		switch {
		case e == nil:
		case err == nil && stats.Seen == 0:
			err = errors.E(e, "close", path)
		default:
			// Convert already reported a truncated stream as a warning, or
			// returned its own error.
			log.Error.Printf("%s: close: %v", path, e)
		}
	}()
	c := bam2fastq.Converter{Opts: opts, Stdout: stdout}
	stats, err = c.Convert(ctx, iter)
	stats.LogOutputs()
	return stats, err
}
