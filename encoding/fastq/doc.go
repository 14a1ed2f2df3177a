// Package fastq reads, writes and cross-checks FASTQ files. Writer is the
// output side used by the BAM converter; Scanner, PairScanner and
// VerifyPairs read the resulting files back.
package fastq
