// Package fasta scans FASTA data held in a read-only buffer, typically a
// memory-mapped file (see encoding/mapped). FASTA data consists of a number
// of records, each a header line starting with '>' followed by sequence
// lines:
//
// >chr7
// ACGTAC
// GAGGAC
// GCG
// >chr8
// ACGT
//
// Scanning never copies the buffer: a Section records the offsets of one
// record, and its fields are materialized only when asked for. Sequence lines
// are normalized on materialization (whitespace removed, upper-cased) but
// keep the file's line breaks.
//
// Note: Sequence names are defined to be the stretch of characters excluding
// spaces immediately after '>'.  Any text appear after a space are ignored.
// For example, '>chr1 A viral sequence' becomes 'chr1'.
package fasta

import (
	"fmt"

	"github.com/pkg/errors"
)

// Fasta gives named access to the sequences of a FASTA buffer.
type Fasta interface {
	// Get returns a substring of the given sequence name at the given
	// coordinates, which are treated as a 0-based half-open interval
	// [start, end). Get is thread-safe.
	Get(seqName string, start, end uint64) (string, error)

	// Len returns the length of the given sequence.
	Len(seqName string) (uint64, error)

	// SeqNames returns the names of all sequences, in the order of appearance in
	// the FASTA file.
	SeqNames() []string
}

type fasta struct {
	seqs     map[string]Section
	seqNames []string
}

// New creates a Fasta over the given sections. Sequences are normalized on
// each Get; nothing is materialized up front. If two sections share a name,
// the first one wins.
func New(secs Sections) Fasta {
	f := &fasta{seqs: make(map[string]Section, len(secs))}
	for _, s := range secs {
		name := s.Name()
		if _, ok := f.seqs[name]; ok {
			continue
		}
		f.seqs[name] = s
		f.seqNames = append(f.seqNames, name)
	}
	return f
}

// Get implements Fasta.Get().
func (f *fasta) Get(seqName string, start, end uint64) (string, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return "", errors.Errorf("sequence not found: %s", seqName)
	}
	if end <= start {
		return "", fmt.Errorf("start must be less than end")
	}
	seq := s.Seq()
	if end > uint64(len(seq)) {
		return "", errors.Errorf("invalid query range %d - %d for sequence %s with length %d",
			start, end, seqName, len(seq))
	}
	return seq[start:end], nil
}

// Len implements Fasta.Len().
func (f *fasta) Len(seqName string) (uint64, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return 0, errors.Errorf("sequence not found: %s", seqName)
	}
	return uint64(s.Len()), nil
}

// SeqNames implements Fasta.SeqNames().
func (f *fasta) SeqNames() []string {
	return f.seqNames
}
