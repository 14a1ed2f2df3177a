// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package biosimd provides the byte-array kernels used when turning .bam
// seq/qual fields into FASTQ text: 4-bit base unpacking through a lookup
// table, in-place reversal, and constant addition for Phred+33 quality
// encoding.
//
// See base/simd/doc.go for more comments on the overall design.
package biosimd
