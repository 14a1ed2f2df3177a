package bam2fastq

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	gbam "github.com/grailbio/bamfastq/encoding/bam"
	"github.com/grailbio/bamfastq/encoding/bamprovider"
	"github.com/grailbio/bamfastq/encoding/fastq"
)

// Stats summarizes a conversion.
type Stats struct {
	// Seen is the number of records read from the input.
	Seen int64
	// Exported is the number of records that passed the inclusion rules.
	Exported int64
	// Pairs is the number of matched mate pairs written to the _1 and _2
	// outputs.
	Pairs int64
	// Unpaired is the number of records without the paired flag written to
	// the unpaired output.
	Unpaired int64
	// Orphans is the number of paired records whose mate never appeared.
	// They are written to the unpaired output after the input is exhausted.
	Orphans int64
	// Outputs lists the streams written, in creation order.
	Outputs []OutputStats
}

// Converter converts alignment records to FASTQ.
type Converter struct {
	// Opts configures the conversion. If nil, DefaultOpts is used.
	Opts *Opts
	// Stdout receives output in the Stdout and Interleaved modes.
	Stdout io.Writer
}

// Convert reads every record from iter and writes the FASTQ entries of the
// exported ones. The caller still owns iter and must close it.
//
// Outputs are created when the first record is read, since output names
// may depend on its lane number; an empty input creates no outputs. An
// error from iter after at least one record is logged and treated as the
// end of the input.
func (c *Converter) Convert(ctx context.Context, iter bamprovider.Iterator) (stats Stats, err error) {
	opts := c.Opts
	if opts == nil {
		opts = &DefaultOpts
	}
	if err = opts.Validate(); err != nil {
		return stats, err
	}
	var (
		classifier = NewClassifier(opts)
		mates      = NewMateBuffer()
		router     *Router
	)
	defer func() {
		if router == nil {
			return
		}
		var e errors.Once
		e.Set(err)
		e.Set(router.Close(ctx))
		err = e.Err()
		stats.Outputs = router.Outputs()
	}()

	for iter.Scan() {
		rec := iter.Record()
		if router == nil {
			lane := LaneID(rec.Name)
			if router, err = NewRouter(ctx, opts, lane, c.Stdout); err != nil {
				return stats, err
			}
		}
		stats.Seen++
		if !classifier.ShouldExport(rec) {
			continue
		}
		stats.Exported++
		entry := FormatEntry(rec, classifier.CanonicalName(rec))
		switch {
		case !router.Paired():
			err = router.Write(0, &entry)
		case !gbam.IsPaired(rec):
			err = router.Write(UnpairedSlot, &entry)
			stats.Unpaired++
		default:
			pair, matched := mates.Add(classifier.PairingKey(rec.Name), gbam.ReadIndex(rec), entry)
			if !matched {
				break
			}
			if err = router.Write(Mate1Slot, &pair[0]); err == nil {
				err = router.Write(Mate2Slot, &pair[1])
			}
			stats.Pairs++
		}
		if err != nil {
			return stats, err
		}
	}
	if err := iter.Err(); err != nil {
		if stats.Seen == 0 {
			return stats, err
		}
		log.Error.Printf("input error after %d records, treating it as end of input: %v", stats.Seen, err)
	}
	if router == nil {
		if !opts.Quiet {
			log.Printf("no records in the input; no output written")
		}
		return stats, nil
	}

	n, err := mates.Flush(func(r *fastq.Read) error { return router.Write(UnpairedSlot, r) })
	stats.Orphans = int64(n)
	if err != nil {
		return stats, err
	}
	if !opts.Quiet {
		log.Printf("%d sequences in the input", stats.Seen)
		log.Printf("%d sequences exported", stats.Exported)
	}
	if stats.Orphans > 0 {
		log.Error.Printf("WARNING: %d reads could not be matched to a mate and were written to the unpaired output",
			stats.Orphans)
	}
	return stats, nil
}

// LogOutputs logs the record count and digest of every output at debug
// level.
func (s *Stats) LogOutputs() {
	for _, out := range s.Outputs {
		log.Debug.Printf("%s: %d records, seahash %016x", out.Path, out.Records, out.Digest)
	}
}
