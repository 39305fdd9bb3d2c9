package main

import (
	"encoding/binary"
	"fmt"
	"hash"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/unsafe"
	"github.com/grailbio/seqscan/encoding/seqtext"
	"github.com/pkg/errors"
)

// fileChecksum summarizes the records of a file. Every field is a sum over
// records, so checksums of disjoint record sets merge by addition and the
// result does not depend on the order in which records are visited.
type fileChecksum struct {
	// Format is the record format.
	Format string
	// NRecs is the number of records.
	NRecs int64
	// SumLen is the total sequence length.
	SumLen int64
	// Digest is the sum of the per-record seahash digests.
	Digest uint64
}

func (c *fileChecksum) merge(other fileChecksum) {
	c.NRecs += other.NRecs
	c.SumLen += other.SumLen
	c.Digest += other.Digest
}

// add folds one record, given as its materialized fields, into c. The field
// lengths are hashed too so that field boundaries matter.
func (c *fileChecksum) add(fields []string, h hash.Hash64) {
	var lenBuf [8]byte
	h.Reset()
	for _, f := range fields {
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(f)))
		h.Write(lenBuf[:])               // nolint: errcheck
		h.Write(unsafe.StringToBytes(f)) // nolint: errcheck
	}
	c.NRecs++
	if len(fields) > 1 {
		c.SumLen += int64(len(fields[1]))
	}
	c.Digest += h.Sum64()
}

// checksumRecords computes the checksum of recs using up to parallelism
// jobs, each over a contiguous range of records.
func checksumRecords(recs *records, parallelism int) (fileChecksum, error) {
	return checksumEach(recs.format, recs.Len(), parallelism, func(i int) ([]string, error) {
		return recs.fields(i), nil
	})
}

// checksumEach computes the checksum of the n records whose fields are
// returned by fields(0), ..., fields(n-1). fields is called concurrently.
func checksumEach(format string, n, parallelism int, fields func(i int) ([]string, error)) (fileChecksum, error) {
	jobs := seqtext.Jobs(n, parallelism)
	partial := make([]fileChecksum, jobs)
	err := seqtext.EachRange(n, jobs, func(jobIdx, startIdx, endIdx int) error {
		h := seahash.New()
		for i := startIdx; i < endIdx; i++ {
			f, err := fields(i)
			if err != nil {
				return errors.Wrapf(err, "checksum: record %d", i)
			}
			partial[jobIdx].add(f, h)
		}
		return nil
	})
	if err != nil {
		return fileChecksum{}, err
	}
	csum := fileChecksum{Format: format}
	for _, p := range partial {
		csum.merge(p)
	}
	return csum, nil
}

func (c fileChecksum) String() string {
	return fmt.Sprintf("%s\t%d\t%d\t%016x", c.Format, c.NRecs, c.SumLen, c.Digest)
}
