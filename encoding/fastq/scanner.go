// Package fastq scans FASTQ data held in a read-only buffer, typically a
// memory-mapped file (see encoding/mapped). Each record has four parts:
//
// @identifier
// sequence line(s)
// +optional description
// quality line(s)
//
// where the quality has exactly as many non-whitespace bytes as the
// sequence. Scanning never copies the buffer; see Section.
package fastq

import (
	"github.com/grailbio/seqscan/encoding/seqtext"
	"github.com/pkg/errors"
)

const (
	// IDMarker starts every identifier line.
	IDMarker = '@'
	// DescMarker starts every description line.
	DescMarker = '+'

	formatName = "fastq"
)

// ErrDiscordant is returned when two paired FASTQ buffers are discordant.
var ErrDiscordant = errors.New("discordant FASTQ pairs")

// Scanner locates FASTQ records in a buffer one at a time. Scanners are not
// threadsafe.
//
// The sequence block ends at the first line that begins with '+', so a
// sequence line must never start with '+'. The quality block cannot be
// bounded by markers because '@' and '+' are valid quality values; it ends
// once it holds as many non-whitespace bytes as the sequence block.
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
// holds no further identifier marker. If the buffer ends before the record is
// complete, including a quality block shorter than the sequence, Next returns
// an error whose cause is seqtext.ErrMalformed and the scanner is exhausted.
func (s *Scanner) Next() (sec Section, ok bool, err error) {
	buf := s.buf
	start := seqtext.IndexFrom(buf, s.pos, IDMarker)
	if start >= len(buf) {
		s.pos = len(buf)
		return Section{}, false, nil
	}
	// The scanner is exhausted on every error path below.
	s.pos = len(buf)

	idEnd, found := seqtext.LineEnd(buf, start)
	if !found {
		return Section{}, false, seqtext.Malformedf(formatName, start, "identifier is not terminated by a newline")
	}
	seqStart := idEnd + 1

	var (
		seqLen    int
		descStart = seqStart
	)
	for {
		if descStart >= len(buf) {
			return Section{}, false, seqtext.Malformedf(formatName, start, "no description line")
		}
		if buf[descStart] == DescMarker {
			break
		}
		lineEnd, found := seqtext.LineEnd(buf, descStart)
		seqLen += seqtext.CountNonSpace(buf[descStart:lineEnd])
		if !found {
			return Section{}, false, seqtext.Malformedf(formatName, start, "no description line")
		}
		descStart = lineEnd + 1
	}

	descEnd, found := seqtext.LineEnd(buf, descStart)
	if !found {
		return Section{}, false, seqtext.Malformedf(formatName, start, "description is not terminated by a newline")
	}
	qualStart := descEnd + 1
	qualEnd, found := seqtext.SkipNonSpace(buf, qualStart, seqLen)
	if !found {
		return Section{}, false, seqtext.Malformedf(formatName, start, "quality is shorter than sequence (%d < %d)",
			seqtext.CountNonSpace(buf[qualStart:]), seqLen)
	}
	s.pos = qualEnd
	return Section{
		buf:       buf,
		idStart:   start,
		seqStart:  seqStart,
		descStart: descStart,
		qualStart: qualStart,
		qualEnd:   qualEnd,
		seqLen:    seqLen,
	}, true, nil
}
