// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bam

// Functions in this file give zero-copy access to packed sam.Record seq
// fields.

import (
	"reflect"
	"unsafe"

	"github.com/grailbio/hts/sam"
)

// UnsafeDoubletsToBytes casts []sam.Doublet to []byte. The result aliases
// src: each byte holds two 4-bit base codes, high nibble first.
func UnsafeDoubletsToBytes(src []sam.Doublet) (d []byte) {
	sh := (*reflect.SliceHeader)(unsafe.Pointer(&src))
	dh := (*reflect.SliceHeader)(unsafe.Pointer(&d))
	*dh = *sh
	return d
}
