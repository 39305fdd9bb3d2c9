package fasta

import (
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/seqscan/encoding/seqtext"
)

// Predicate selects the records kept by Index. It must not modify anything
// and must return the same answer every time it sees the same Section.
type Predicate func(Section) bool

// All keeps every record.
func All(Section) bool { return true }

// MinLen keeps records with at least n sequence bytes.
func MinLen(n int) Predicate {
	return func(s Section) bool { return s.Len() >= n }
}

// NameHasPrefix keeps records whose name starts with prefix.
func NameHasPrefix(prefix string) Predicate {
	return func(s Section) bool { return strings.HasPrefix(s.Name(), prefix) }
}

// Sections is an ordered, random-access collection of records from one
// buffer. Unlike an Iterator it can be traversed any number of times, and
// concurrently.
type Sections []Section

// Index scans buf once and returns, in file order, the sections for which
// pred holds. A nil pred keeps every record. A malformed record fails the
// whole call.
func Index(buf []byte, pred Predicate) (Sections, error) {
	if pred == nil {
		pred = All
	}
	var (
		it      = NewIterator(buf)
		secs    Sections
		scanned int
	)
	for it.Scan() {
		scanned++
		if s := it.Section(); pred(s) {
			secs = append(secs, s)
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	log.Debug.Printf("fasta.Index: kept %d of %d records", len(secs), scanned)
	return secs, nil
}

// Len returns the number of sections.
func (s Sections) Len() int { return len(s) }

// At returns the i'th section.
func (s Sections) At(i int) Section { return s[i] }

// Records materializes every section.
func (s Sections) Records() []Record {
	recs := make([]Record, len(s))
	for i, sec := range s {
		recs[i] = sec.Record()
	}
	return recs
}

// Each calls fn on every section using up to parallelism goroutines;
// parallelism <= 0 means runtime.NumCPU(). The sections are split into
// contiguous, non-overlapping ranges, one per goroutine, and each range is
// visited in order. Each returns the first error reported by any fn.
func (s Sections) Each(parallelism int, fn func(i int, sec Section) error) error {
	n := len(s)
	return seqtext.EachRange(n, seqtext.Jobs(n, parallelism), func(_, startIdx, endIdx int) error {
		for i := startIdx; i < endIdx; i++ {
			if err := fn(i, s[i]); err != nil {
				return err
			}
		}
		return nil
	})
}
