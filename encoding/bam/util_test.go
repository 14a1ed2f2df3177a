package bam

import (
	"reflect"
	"runtime"
	"testing"

	"github.com/grailbio/hts/sam"
	"github.com/stretchr/testify/assert"
)

// getFunctionName returns the runtime function name.
func getFunctionName(i interface{}) string {
	return runtime.FuncForPC(reflect.ValueOf(i).Pointer()).Name()
}

func TestFlagParser(t *testing.T) {
	tests := []struct {
		flag sam.Flags
		f    func(record *sam.Record) bool
		want bool
	}{
		// Test true behavior.
		{sam.Paired, IsPaired, true},
		{sam.Unmapped, IsUnmapped, true},
		{sam.Reverse, IsReverse, true},
		{sam.Read1, IsRead1, true},
		{sam.QCFail, IsQCFail, true},
		{sam.Paired | sam.Read1 | sam.Reverse, IsReverse, true},
		// Test false behavior.
		{sam.Supplementary, IsPaired, false},
		{sam.QCFail, IsUnmapped, false},
		{sam.Read2, IsReverse, false},
		{sam.MateReverse, IsReverse, false},
		{sam.Read2, IsRead1, false},
		{sam.Unmapped, IsQCFail, false},
		{sam.MateUnmapped, IsUnmapped, false},
	}

	ref, err := sam.NewReference("chrTest", "", "", 1000, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, test := range tests {
		myRecord := sam.Record{
			Name: "TestRead",
			Ref:  ref,
			Pos:  0,
			MapQ: 0,
			Cigar: []sam.CigarOp{
				sam.NewCigarOp(sam.CigarMatch, 5),
			},
			Flags:   sam.Flags(test.flag),
			MateRef: ref,
			MatePos: 0,
			TempLen: 0,
			Seq:     sam.NewSeq([]byte{}),
			Qual:    []byte{},
		}

		got := test.f(&myRecord)

		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("for flag %v and test %v: got %v, want %v", test.flag, getFunctionName(test.f), got, test.want)
		}
	}
}

func TestReadIndex(t *testing.T) {
	assert.Equal(t, 0, ReadIndex(&sam.Record{Flags: sam.Paired | sam.Read1}))
	assert.Equal(t, 1, ReadIndex(&sam.Record{Flags: sam.Paired | sam.Read2}))
	// Anything that isn't explicitly read 1 is treated as read 2.
	assert.Equal(t, 1, ReadIndex(&sam.Record{Flags: sam.Paired}))
}

func TestUnsafeDoublets(t *testing.T) {
	seq := sam.NewSeq([]byte("ACGTN"))
	b := UnsafeDoubletsToBytes(seq.Seq)
	assert.Equal(t, []byte{0x12, 0x48, 0xf0}, b)
	// b aliases seq.Seq.
	b[0] = 0x84
	assert.Equal(t, sam.Doublet(0x84), seq.Seq[0])
}
