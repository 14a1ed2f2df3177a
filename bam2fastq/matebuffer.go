package bam2fastq

import (
	"sort"

	"github.com/grailbio/base/log"
	"github.com/grailbio/bamfastq/encoding/fastq"
)

// MateBuffer holds the entries of paired reads whose mate has not been seen
// yet, keyed by pairing key. It holds at most one entry per key.
type MateBuffer struct {
	pending map[string]pendingMate
}

type pendingMate struct {
	index int
	entry fastq.Read
}

// NewMateBuffer creates an empty MateBuffer.
func NewMateBuffer() *MateBuffer {
	return &MateBuffer{pending: map[string]pendingMate{}}
}

// Add registers a paired read's entry. index is the read's position within
// its template, 0 for read 1 and 1 otherwise, as computed by
// encoding/bam.ReadIndex.
//
// If no entry is buffered under key, the entry is stored and matched is
// false. Otherwise the buffered entry is removed and returned together with
// the new one: pair[index] is the new entry and the buffered entry fills the
// other position. The buffered entry's own index is not checked; it is
// assumed to be the complement of the new one.
func (b *MateBuffer) Add(key string, index int, entry fastq.Read) (pair [2]fastq.Read, matched bool) {
	mate, ok := b.pending[key]
	if !ok {
		b.pending[key] = pendingMate{index: index, entry: entry}
		return pair, false
	}
	delete(b.pending, key)
	if mate.index == index {
		log.Debug.Printf("mates %s and %s under key %q have the same read number", mate.entry.ID, entry.ID, key)
	}
	pair[index], pair[1-index] = entry, mate.entry
	return pair, true
}

// Len returns the number of buffered entries.
func (b *MateBuffer) Len() int { return len(b.pending) }

// Flush calls fn for every buffered entry in increasing key order, then
// empties the buffer. It stops at the first error from fn. It returns the
// number of entries passed to fn successfully.
func (b *MateBuffer) Flush(fn func(r *fastq.Read) error) (int, error) {
	keys := make([]string, 0, len(b.pending))
	for key := range b.pending {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	n := 0
	for _, key := range keys {
		entry := b.pending[key].entry
		if err := fn(&entry); err != nil {
			return n, err
		}
		n++
	}
	b.pending = map[string]pendingMate{}
	return n, nil
}
