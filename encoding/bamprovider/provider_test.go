package bamprovider_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/bamfastq/encoding/bamprovider"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	shutdown := grail.Init()
	status := m.Run()
	shutdown()
	os.Exit(status)
}

const samData = `@HD	VN:1.3	SO:unsorted
@SQ	SN:chr1	LN:10000
read1	99	chr1	100	60	4M	=	200	104	ACGT	IIII
read1	147	chr1	200	60	4M	=	100	-104	TTGC	HHHH
read2	4	*	0	0	*	*	0	0	NNAC	####
`

func writeSAM(t *testing.T, dir string) string {
	path := filepath.Join(dir, "test.sam")
	require.NoError(t, ioutil.WriteFile(path, []byte(samData), 0600))
	return path
}

// writeBAM converts the SAM file at samPath into a BAM file.
func writeBAM(t *testing.T, samPath, bamPath string) {
	in, err := os.Open(samPath)
	require.NoError(t, err)
	defer in.Close()
	r, err := sam.NewReader(in)
	require.NoError(t, err)
	out, err := os.Create(bamPath)
	require.NoError(t, err)
	w, err := bam.NewWriter(out, r.Header(), 1)
	require.NoError(t, err)
	for {
		rec, err := r.Read()
		if err != nil {
			break
		}
		require.NoError(t, w.Write(rec))
	}
	require.NoError(t, w.Close())
	require.NoError(t, out.Close())
}

func readAll(t *testing.T, iter bamprovider.Iterator) []*sam.Record {
	var recs []*sam.Record
	for iter.Scan() {
		recs = append(recs, iter.Record())
	}
	require.NoError(t, iter.Err())
	require.NoError(t, iter.Close())
	return recs
}

func checkRecords(t *testing.T, recs []*sam.Record) {
	require.Len(t, recs, 3)
	assert.Equal(t, "read1", recs[0].Name)
	assert.Equal(t, sam.Paired|sam.ProperPair|sam.MateReverse|sam.Read1, recs[0].Flags)
	assert.Equal(t, "ACGT", string(recs[0].Seq.Expand()))
	assert.Equal(t, sam.Paired|sam.ProperPair|sam.Reverse|sam.Read2, recs[1].Flags)
	assert.Equal(t, "read2", recs[2].Name)
	assert.Equal(t, sam.Unmapped, recs[2].Flags)
	assert.Equal(t, []byte{2, 2, 2, 2}, recs[2].Qual)
}

func TestOpenSAM(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	samPath := writeSAM(t, tmpDir)

	iter, err := bamprovider.Open(samPath)
	require.NoError(t, err)
	checkRecords(t, readAll(t, iter))
}

func TestOpenBAM(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	samPath := writeSAM(t, tmpDir)
	bamPath := filepath.Join(tmpDir, "test.bam")
	writeBAM(t, samPath, bamPath)

	iter, err := bamprovider.Open(bamPath, bamprovider.ProviderOpts{Parallelism: 2})
	require.NoError(t, err)
	checkRecords(t, readAll(t, iter))
}

func TestOpenForcedFileType(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	samPath := writeSAM(t, tmpDir)
	// A SAM file without the .sam suffix is read as BAM unless the type is
	// given explicitly.
	oddPath := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.Rename(samPath, oddPath))
	_, err := bamprovider.Open(oddPath)
	assert.Error(t, err)

	iter, err := bamprovider.Open(oddPath, bamprovider.ProviderOpts{FileType: bamprovider.SAM})
	require.NoError(t, err)
	checkRecords(t, readAll(t, iter))
}

func TestOpenMissingFile(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	_, err := bamprovider.Open(filepath.Join(tmpDir, "nonexistent.bam"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "nonexistent.bam"), err.Error())
}

func TestFileTypes(t *testing.T) {
	assert.Equal(t, bamprovider.BAM, bamprovider.ParseFileType("bam"))
	assert.Equal(t, bamprovider.SAM, bamprovider.ParseFileType("sam"))
	assert.Equal(t, bamprovider.Unknown, bamprovider.ParseFileType("pam"))
	assert.Equal(t, bamprovider.SAM, bamprovider.GuessFileType("foo/bar.sam"))
	assert.Equal(t, bamprovider.BAM, bamprovider.GuessFileType("foo/bar.bam"))
	assert.Equal(t, bamprovider.BAM, bamprovider.GuessFileType("-"))
}

func TestFakeIterator(t *testing.T) {
	r0 := &sam.Record{Name: "a"}
	r1 := &sam.Record{Name: "b"}
	iter := bamprovider.NewFakeIterator([]*sam.Record{r0, r1})
	recs := readAll(t, iter)
	require.Len(t, recs, 2)
	recs[0].Name = "mutated"
	assert.Equal(t, "a", r0.Name)
}

func TestFailingIterators(t *testing.T) {
	failure := assert.AnError
	iter := bamprovider.NewFailingFakeIterator([]*sam.Record{{Name: "a"}}, failure)
	assert.NoError(t, iter.Err())
	assert.True(t, iter.Scan())
	assert.False(t, iter.Scan())
	assert.Equal(t, failure, iter.Err())
	assert.Equal(t, failure, iter.Close())

	// With no records, the failure is visible as soon as Scan returns false.
	iter = bamprovider.NewFailingFakeIterator(nil, failure)
	assert.False(t, iter.Scan())
	assert.Equal(t, failure, iter.Err())
	assert.Equal(t, failure, iter.Close())
}
