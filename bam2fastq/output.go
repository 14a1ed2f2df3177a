package bam2fastq

import (
	"bufio"
	"context"
	"fmt"
	"hash"
	"io"
	"strconv"
	"strings"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/bamfastq/encoding/fastq"
	"github.com/klauspost/compress/gzip"
)

// Output slots of a paired Router.
const (
	Mate1Slot = iota
	Mate2Slot
	UnpairedSlot
)

// StdoutPath is reported as the path of outputs written to standard output.
const StdoutPath = "-"

const sinkBufferSize = 1 << 20

type sinkKind int

const (
	// ownedFile is a file created by the Router. It is closed by Router.Close.
	ownedFile sinkKind = iota
	// sharedStdout is the process's standard output. It is flushed but never
	// closed.
	sharedStdout
)

// sink is one destination stream. Several slots may share a sink.
type sink struct {
	kind   sinkKind
	path   string
	f      file.File // ownedFile only
	gz     *gzip.Writer
	buf    *bufio.Writer
	digest hash.Hash64
	w      *fastq.Writer
}

func newSink(kind sinkKind, path string, out io.Writer) *sink {
	s := &sink{kind: kind, path: path, digest: seahash.New()}
	if kind == ownedFile && strings.HasSuffix(path, ".gz") {
		s.gz = gzip.NewWriter(out)
		out = s.gz
	}
	s.buf = bufio.NewWriterSize(io.MultiWriter(out, s.digest), sinkBufferSize)
	s.w = fastq.NewWriter(s.buf)
	return s
}

func (s *sink) close(ctx context.Context) error {
	var e errors.Once
	e.Set(s.buf.Flush())
	if s.gz != nil {
		e.Set(s.gz.Close())
	}
	if s.kind == ownedFile {
		e.Set(s.f.Close(ctx))
	}
	if err := e.Err(); err != nil {
		return errors.E(err, "close", s.path)
	}
	return nil
}

// OutputStats describes one output stream after a conversion.
type OutputStats struct {
	// Path is the output file, or StdoutPath.
	Path string
	// Records is the number of FASTQ entries written.
	Records int64
	// Digest is the seahash of the uncompressed FASTQ text written.
	Digest uint64
}

// Router owns the output streams of a conversion and maps slot numbers to
// them. A Router has either one slot, in Stdout mode, or three slots indexed
// by Mate1Slot, Mate2Slot and UnpairedSlot.
type Router struct {
	slots []*sink
	sinks []*sink // distinct sinks, in creation order
}

// ExpandTemplate substitutes the lane number for the first '%' in template
// and suffix for the first '#'. It fails if template needs the lane but lane
// is 0, or if requireSuffix is set and template has no '#'.
func ExpandTemplate(template string, lane int, suffix string, requireSuffix bool) (string, error) {
	path := template
	if strings.Contains(path, "%") {
		if lane == 0 {
			return "", errors.E(errors.Invalid, fmt.Sprintf(
				"output template %q contains %%, but the lane could not be determined from the reads; "+
					"specify an output template without %%", template))
		}
		path = strings.Replace(path, "%", strconv.Itoa(lane), 1)
	}
	if !strings.Contains(path, "#") {
		if requireSuffix {
			return "", errors.E(errors.Invalid, fmt.Sprintf(
				"output template %q has no # to be replaced by the read number", template))
		}
		return path, nil
	}
	return strings.Replace(path, "#", suffix, 1), nil
}

// NewRouter opens the outputs for opts.Mode. lane is the lane number parsed
// from the first record, and stdout is the shared standard output.
//
// No file is created unless every path can be derived and, without
// opts.Overwrite, neither the _1 nor the _2 file already exists. If creating
// a file fails, files created before it are removed.
func NewRouter(ctx context.Context, opts *Opts, lane int, stdout io.Writer) (*Router, error) {
	r := &Router{}
	switch opts.Mode {
	case Stdout:
		out := newSink(sharedStdout, StdoutPath, stdout)
		r.sinks = []*sink{out}
		r.slots = []*sink{out}
		return r, nil
	case Interleaved:
		path, err := ExpandTemplate(opts.OutputTemplate, lane, "_M", false)
		if err != nil {
			return nil, err
		}
		out := newSink(sharedStdout, StdoutPath, stdout)
		r.sinks = []*sink{out}
		if err := r.create(ctx, path); err != nil {
			return nil, err
		}
		r.slots = []*sink{out, out, r.sinks[1]}
		if !opts.Quiet {
			log.Printf("paired data from lane %d: mates are interleaved on standard output, "+
				"single-end reads will be in %s", lane, path)
		}
		return r, nil
	case Files:
		var paths [3]string
		for i, suffix := range []string{"_1", "_2", "_M"} {
			var err error
			if paths[i], err = ExpandTemplate(opts.OutputTemplate, lane, suffix, true); err != nil {
				return nil, err
			}
		}
		if !opts.Overwrite {
			for _, path := range paths[:UnpairedSlot] {
				if _, err := file.Stat(ctx, path); err == nil {
					return nil, errors.E(errors.Exists, path, "already exists; specify -force to overwrite")
				}
			}
		}
		for _, path := range paths {
			if err := r.create(ctx, path); err != nil {
				return nil, err
			}
		}
		r.slots = r.sinks
		if !opts.Quiet {
			log.Printf("paired data from lane %d: output will be in %s and %s, single-end reads will be in %s",
				lane, paths[0], paths[1], paths[2])
		}
		return r, nil
	}
	return nil, errors.E(errors.Invalid, fmt.Sprintf("unknown output mode %v", opts.Mode))
}

// create adds an owned sink for path. On failure it discards every owned
// sink created so far.
func (r *Router) create(ctx context.Context, path string) error {
	f, err := file.Create(ctx, path)
	if err != nil {
		r.discard(ctx)
		return errors.E(err, "create", path)
	}
	s := newSink(ownedFile, path, f.Writer(ctx))
	s.f = f
	r.sinks = append(r.sinks, s)
	return nil
}

func (r *Router) discard(ctx context.Context) {
	for _, s := range r.sinks {
		if s.kind != ownedFile {
			continue
		}
		if err := s.f.Close(ctx); err != nil {
			log.Error.Printf("close %s: %v", s.path, err)
		}
		if err := file.Remove(ctx, s.path); err != nil {
			log.Error.Printf("remove %s: %v", s.path, err)
		}
	}
	r.sinks = nil
}

// Paired reports whether the Router separates mates, i.e., whether it has
// three slots.
func (r *Router) Paired() bool { return len(r.slots) > 1 }

// Write writes the entry to the given slot.
func (r *Router) Write(slot int, read *fastq.Read) error {
	if slot < 0 || slot >= len(r.slots) {
		return errors.E(errors.Invalid, fmt.Sprintf("slot %d out of range [0,%d)", slot, len(r.slots)))
	}
	s := r.slots[slot]
	if err := s.w.Write(read); err != nil {
		return errors.E(err, "write", s.path)
	}
	return nil
}

// Close flushes every output and closes the files the Router created.
// Standard output is flushed but stays open. It returns the first error.
func (r *Router) Close(ctx context.Context) error {
	var e errors.Once
	for _, s := range r.sinks {
		e.Set(s.close(ctx))
	}
	return e.Err()
}

// Outputs returns per-output statistics, one entry per distinct stream. The
// digests are complete only after Close.
func (r *Router) Outputs() []OutputStats {
	stats := make([]OutputStats, len(r.sinks))
	for i, s := range r.sinks {
		stats[i] = OutputStats{Path: s.path, Records: s.w.N(), Digest: s.digest.Sum64()}
	}
	return stats
}
