// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package bam2fastq converts a stream of alignment records back into FASTQ.
//
// A Converter makes a single forward pass over a bamprovider.Iterator. Each
// record is filtered by a Classifier, its original-strand sequence and
// quality are rebuilt by Reconstruct, and the resulting FASTQ entry is sent
// to a Router slot. Paired reads wait in a MateBuffer until their mate
// arrives, so that the i'th entries of the _1 and _2 outputs always belong to
// the same template. Mates that never arrive are written to the unpaired
// output when the input is exhausted.
//
// Memory use is proportional to the number of reads whose mate has not been
// seen yet, not to the size of the input.
package bam2fastq
