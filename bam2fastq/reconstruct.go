package bam2fastq

import (
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/bamfastq/biosimd"
	gbam "github.com/grailbio/bamfastq/encoding/bam"
	"github.com/grailbio/bamfastq/encoding/fastq"
	"github.com/grailbio/hts/sam"
)

// phredOffset converts a numeric quality into a printable FASTQ character.
const phredOffset = 33

// missingQual is the quality value BAM uses when no quality is recorded.
const missingQual = 0xff

// missingQualChar is missingQual+phredOffset, wrapped to a byte.
const missingQualChar = (missingQual + phredOffset) & 0xff

// Reconstruct decodes a BAM 4-bit packed sequence of the given length and
// its raw quality values into FASTQ sequence and quality strings.
//
// If reverse is set, the record is stored reverse-complemented relative to
// the sequencer's output; the bases are complemented and both strings are
// reversed so that the read is returned in its original 5'->3' orientation.
//
// Qualities are offset by 33 without clamping, so the BAM "missing" value
// 0xff comes out as ' '. Missing trailing sequence or quality bytes are
// treated as code 0 ('=') and 0xff respectively.
func Reconstruct(packedSeq, packedQual []byte, length int, reverse bool) (seq, qual []byte) {
	if length <= 0 {
		return []byte{}, []byte{}
	}
	nPacked := (length + 1) >> 1
	if len(packedSeq) < nPacked {
		padded := make([]byte, nPacked)
		copy(padded, packedSeq)
		packedSeq = padded
	}
	table := &biosimd.SeqASCIITable
	if reverse {
		table = &biosimd.SeqCompASCIITable
	}
	seq = make([]byte, length)
	biosimd.UnpackAndReplaceSeq(seq, packedSeq[:nPacked], table)

	qual = make([]byte, length)
	n := len(packedQual)
	if n > length {
		n = length
	}
	biosimd.AddConst8(qual[:n], packedQual[:n], phredOffset)
	for i := n; i < length; i++ {
		qual[i] = missingQualChar
	}

	if reverse {
		biosimd.Reverse8Inplace(seq)
		biosimd.Reverse8Inplace(qual)
	}
	return seq, qual
}

// FormatEntry builds the FASTQ entry for rec under the given read name.
func FormatEntry(rec *sam.Record, name string) fastq.Read {
	seq, qual := Reconstruct(
		gbam.UnsafeDoubletsToBytes(rec.Seq.Seq), rec.Qual, rec.Seq.Length, gbam.IsReverse(rec))
	// seq and qual are freshly allocated and never written again.
	return fastq.Read{
		ID:   "@" + name,
		Seq:  gunsafe.BytesToString(seq),
		Unk:  "+",
		Qual: gunsafe.BytesToString(qual),
	}
}
