// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bam

import "github.com/grailbio/hts/sam"

// IsPaired returns true if the read was paired in sequencing.
func IsPaired(record *sam.Record) bool { return record.Flags&sam.Paired != 0 }

// IsRead1 returns true if the read is the first of its template.
func IsRead1(record *sam.Record) bool { return record.Flags&sam.Read1 != 0 }

// IsReverse returns true if the read's seq and qual fields are stored
// reverse-complemented relative to the sequencer's output.
func IsReverse(record *sam.Record) bool { return record.Flags&sam.Reverse != 0 }

// IsUnmapped returns true if the read itself is unmapped.
func IsUnmapped(record *sam.Record) bool { return record.Flags&sam.Unmapped != 0 }

// IsQCFail returns true if the read failed platform or vendor quality checks.
func IsQCFail(record *sam.Record) bool { return record.Flags&sam.QCFail != 0 }

// ReadIndex returns 0 for read 1 and 1 for anything else.  It is convenient
// as an index into a two-element mate array.
func ReadIndex(record *sam.Record) int {
	if IsRead1(record) {
		return 0
	}
	return 1
}
