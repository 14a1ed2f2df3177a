package main

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/bamfastq/encoding/fastq"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/klauspost/compress/gzip"
)

// openFASTQ opens path for reading, decompressing it if it ends in ".gz".
// The returned closer closes the file.
func openFASTQ(ctx context.Context, path string) (io.Reader, func() error, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, "open", path)
	}
	closer := func() error { return f.Close(ctx) }
	var r io.Reader = f.Reader(ctx)
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			_ = closer()
			return nil, nil, errors.E(err, "gunzip", path)
		}
		r = gz
	}
	return r, closer, nil
}

// verify checks that the FASTQ files r1Path and r2Path hold matching mates
// and returns the number of pairs.
func verify(ctx context.Context, r1Path, r2Path string) (int64, error) {
	r1, close1, err := openFASTQ(ctx, r1Path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := close1(); err != nil {
			log.Error.Printf("close %s: %v", r1Path, err)
		}
	}()
	r2, close2, err := openFASTQ(ctx, r2Path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := close2(); err != nil {
			log.Error.Printf("close %s: %v", r2Path, err)
		}
	}()
	n, err := fastq.VerifyPairs(r1, r2)
	if err != nil {
		return n, errors.E(err, "verify", r1Path, r2Path)
	}
	return n, nil
}
