// Package bamprovider provides a forward-only reader over the records of a
// BAM or SAM file, in file order.
//
// Iterator is the decoder contract used by bam2fastq: Scan/Record/Err/Close.
// Open distinguishes an input that cannot be opened at all from an error
// encountered while iterating.
package bamprovider
