package bamprovider

import (
	"github.com/grailbio/hts/sam"
)

// fakeIterator is only for unittests. It yields the given records, then
// optionally fails with err.
type fakeIterator struct {
	recs []*sam.Record
	rec  *sam.Record
	err  error
	done bool
}

// NewFakeIterator creates an iterator that yields recs in order.
func NewFakeIterator(recs []*sam.Record) Iterator {
	return &fakeIterator{recs: recs}
}

// NewFailingFakeIterator creates an iterator that yields recs in order and
// then reports err, as a decoder would on a truncated file.
func NewFailingFakeIterator(recs []*sam.Record, err error) Iterator {
	return &fakeIterator{recs: recs, err: err}
}

// Err implements the Iterator interface.
func (i *fakeIterator) Err() error {
	if i.done {
		return i.err
	}
	return nil
}

// Close implements the Iterator interface.
func (i *fakeIterator) Close() error {
	return i.Err()
}

// Scan implements the Iterator interface.
func (i *fakeIterator) Scan() bool {
	if len(i.recs) == 0 {
		i.done = true
		return false
	}
	i.rec = i.recs[0]
	i.recs = i.recs[1:]
	return true
}

// Record implements the Iterator interface.
func (i *fakeIterator) Record() *sam.Record {
	// Return a copy so that the code under test cannot alter the
	// original test input data.
	copy := *i.rec
	return &copy
}
