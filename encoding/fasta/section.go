package fasta

import (
	"bytes"
	"strings"

	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/seqscan/encoding/seqtext"
)

// Section locates one FASTA record inside a buffer without copying it. The
// header occupies buf[headerStart:headerEnd], headerEnd is the offset of
// the newline that terminates it, and the sequence body runs from
// headerEnd+1 to seqEnd.
//
// A Section is immutable and cheap to copy. Its fields are materialized on
// demand; repeated calls return identical values. The buffer must outlive
// the Section. The zero Section is an empty record with no header.
type Section struct {
	buf         []byte
	headerStart int
	headerEnd   int
	seqEnd      int
}

// Offset returns the offset of the header marker in the buffer.
func (s Section) Offset() int { return s.headerStart }

// SeqOffset returns the offset of the first sequence byte.
func (s Section) SeqOffset() int { return s.headerEnd + 1 }

// End returns the offset just past the record.
func (s Section) End() int { return s.seqEnd }

// Header returns the header line, marker included, without the line
// terminator. The string aliases the buffer.
func (s Section) Header() string {
	if s.buf == nil {
		return ""
	}
	return gunsafe.BytesToString(seqtext.TrimCR(s.buf[s.headerStart:s.headerEnd]))
}

// Name returns the header text after the marker up to the first space or
// tab. For example, ">chr1 A viral sequence" has name "chr1".
func (s Section) Name() string {
	h := s.Header()
	if h == "" {
		return ""
	}
	h = h[1:]
	if i := strings.IndexAny(h, " \t"); i >= 0 {
		h = h[:i]
	}
	return h
}

// Body returns the raw sequence bytes, newlines and all. The slice aliases
// the buffer and must not be modified.
func (s Section) Body() []byte {
	if s.buf == nil {
		return nil
	}
	return s.buf[s.headerEnd+1 : s.seqEnd]
}

// Len returns the number of non-whitespace sequence bytes.
func (s Section) Len() int { return seqtext.CountNonSpace(s.Body()) }

// Lines returns the normalized sequence lines in file order. Line breaks are
// kept as in the file, and trailing blank lines are dropped. An empty body
// yields no lines.
func (s Section) Lines() []string {
	body := seqtext.TrimRightSpace(s.Body())
	if len(body) == 0 {
		return nil
	}
	lines := make([]string, 0, bytes.Count(body, newline)+1)
	for len(body) > 0 {
		i := bytes.IndexByte(body, '\n')
		if i < 0 {
			lines = append(lines, seqtext.Normalize(body))
			break
		}
		lines = append(lines, seqtext.Normalize(body[:i]))
		body = body[i+1:]
	}
	return lines
}

// Seq returns the normalized sequence with line breaks removed.
func (s Section) Seq() string { return seqtext.Normalize(s.Body()) }

// Record materializes the section.
func (s Section) Record() Record {
	return Record{Header: s.Header(), Seq: s.Lines()}
}

// Record is a materialized FASTA record.
type Record struct {
	// Header is the header line including the leading '>'.
	Header string
	// Seq holds the normalized sequence lines, in file order. A parsed
	// record never ends with an empty line.
	Seq []string
}

// Sequence returns the record's lines concatenated.
func (r *Record) Sequence() string { return strings.Join(r.Seq, "") }

// Len returns the total sequence length.
func (r *Record) Len() int {
	n := 0
	for _, l := range r.Seq {
		n += len(l)
	}
	return n
}
