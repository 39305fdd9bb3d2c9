package fasta

import "github.com/grailbio/seqscan/encoding/seqtext"

const (
	// Marker starts every header line.
	Marker = '>'

	formatName = "fasta"
)

// Scanner locates FASTA records in a buffer one at a time. It holds a single
// forward-only cursor and never copies the buffer. Scanners are not
// threadsafe.
type Scanner struct {
	buf []byte
	pos int
}

// NewScanner creates a Scanner positioned at the start of buf.
func NewScanner(buf []byte) *Scanner {
	return &Scanner{buf: buf}
}

// Done reports whether the cursor has reached the end of the buffer.
func (s *Scanner) Done() bool { return s.pos >= len(s.buf) }

// Next returns the section of the next record. ok is false once the buffer
// holds no further marker. A header without a terminating newline yields an
// error whose cause is seqtext.ErrMalformed; the scanner is exhausted after
// an error.
//
// Bytes before the first marker are skipped. The body of a record ends at
// the next marker byte, wherever it occurs.
func (s *Scanner) Next() (sec Section, ok bool, err error) {
	start := seqtext.IndexFrom(s.buf, s.pos, Marker)
	if start >= len(s.buf) {
		s.pos = len(s.buf)
		return Section{}, false, nil
	}
	headerEnd, found := seqtext.LineEnd(s.buf, start)
	if !found {
		s.pos = len(s.buf)
		return Section{}, false, seqtext.Malformedf(formatName, start, "header is not terminated by a newline")
	}
	seqEnd := seqtext.IndexFrom(s.buf, headerEnd+1, Marker)
	s.pos = seqEnd
	return Section{
		buf:         s.buf,
		headerStart: start,
		headerEnd:   headerEnd,
		seqEnd:      seqEnd,
	}, true, nil
}
