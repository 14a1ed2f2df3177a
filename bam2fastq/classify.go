package bam2fastq

import (
	"strconv"
	"strings"

	gbam "github.com/grailbio/bamfastq/encoding/bam"
	"github.com/grailbio/hts/sam"
)

// Classifier applies the inclusion and naming rules in Opts to individual
// records. It keeps no per-record state.
type Classifier struct {
	opts *Opts
}

// NewClassifier creates a Classifier for the given options.
func NewClassifier(opts *Opts) *Classifier {
	return &Classifier{opts: opts}
}

// ShouldExport reports whether rec passes the aligned, unaligned and
// QC-failed gates.
func (c *Classifier) ShouldExport(rec *sam.Record) bool {
	unmapped := gbam.IsUnmapped(rec)
	if !c.opts.IncludeAligned && !unmapped {
		return false
	}
	if !c.opts.IncludeUnaligned && unmapped {
		return false
	}
	if !c.opts.IncludeFiltered && gbam.IsQCFail(rec) {
		return false
	}
	return true
}

// CanonicalName returns the FASTQ read name for rec: its name plus "/1" or
// "/2" if the record is paired.
func (c *Classifier) CanonicalName(rec *sam.Record) string {
	if !gbam.IsPaired(rec) {
		return rec.Name
	}
	if gbam.IsRead1(rec) {
		return rec.Name + "/1"
	}
	return rec.Name + "/2"
}

// PairingKey returns the key under which mates named name are matched.
//
// Unless Opts.Strict is set, a single trailing digit preceded by a non-digit
// is removed from names of at least three characters, so "sample1" and
// "sample2" share the key "sample" while "sample12" is left alone.
func (c *Classifier) PairingKey(name string) string {
	if c.opts.Strict {
		return name
	}
	n := len(name)
	if n < 3 || !isDigit(name[n-1]) || isDigit(name[n-2]) {
		return name
	}
	return name[:n-1]
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

// LaneID parses the lane number from an Illumina-style read name
// ("instrument:lane:tile:..."). It reads the integer at the start of the
// text between the first and second colons, ignoring leading blanks, and
// returns 0 if there is none.
func LaneID(name string) int {
	start := strings.IndexByte(name, ':')
	if start < 0 {
		return 0
	}
	field := name[start+1:]
	stop := strings.IndexByte(field, ':')
	if stop <= 0 {
		return 0
	}
	field = strings.TrimLeft(field[:stop], " \t\n\v\f\r")
	end := 0
	if end < len(field) && (field[end] == '+' || field[end] == '-') {
		end++
	}
	for end < len(field) && isDigit(field[end]) {
		end++
	}
	lane, err := strconv.Atoi(field[:end])
	if err != nil {
		return 0
	}
	return lane
}
