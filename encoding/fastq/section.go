package fastq

import (
	"strings"

	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/seqscan/encoding/seqtext"
)

// Section locates one FASTQ record inside a buffer without copying it.
//
//	buf[idStart:seqStart-1]     identifier line, '@' included
//	buf[seqStart:descStart]     sequence block, seqLen non-whitespace bytes
//	buf[descStart:qualStart-1]  description line, '+' included
//	buf[qualStart:qualEnd]      quality block, seqLen non-whitespace bytes
//
// A Section is immutable; its accessors are pure and may be called
// concurrently. The buffer must outlive the Section. The zero Section is an
// empty read whose fields are all "".
type Section struct {
	buf       []byte
	idStart   int
	seqStart  int
	descStart int
	qualStart int
	qualEnd   int
	seqLen    int
}

// Offset returns the offset of the identifier marker in the buffer.
func (s Section) Offset() int { return s.idStart }

// End returns the offset just past the last quality byte.
func (s Section) End() int { return s.qualEnd }

// ID returns the identifier line, marker included, without its line
// terminator. The string aliases the buffer.
func (s Section) ID() string {
	if s.buf == nil {
		return ""
	}
	return gunsafe.BytesToString(seqtext.TrimCR(s.buf[s.idStart : s.seqStart-1]))
}

// Name returns the identifier after the marker up to the first space or tab.
// Mates in paired files usually share a name.
func (s Section) Name() string {
	id := s.ID()
	if id == "" {
		return ""
	}
	id = id[1:]
	if i := strings.IndexAny(id, " \t"); i >= 0 {
		id = id[:i]
	}
	return id
}

// Desc returns the description line, marker included, without its line
// terminator. The string aliases the buffer.
func (s Section) Desc() string {
	if s.buf == nil {
		return ""
	}
	return gunsafe.BytesToString(seqtext.TrimCR(s.buf[s.descStart : s.qualStart-1]))
}

// Len returns the number of sequence bytes, which is also the number of
// quality bytes.
func (s Section) Len() int { return s.seqLen }

// Seq returns the normalized sequence.
func (s Section) Seq() string { return seqtext.Normalize(s.buf[s.seqStart:s.descStart]) }

// Qual returns the normalized quality string.
func (s Section) Qual() string { return seqtext.Normalize(s.buf[s.qualStart:s.qualEnd]) }

// Read materializes the section.
func (s Section) Read() Read {
	return Read{ID: s.ID(), Seq: s.Seq(), Desc: s.Desc(), Qual: s.Qual()}
}

// A Read is a FASTQ read, comprising an ID, sequence, description line
// (usually just "+"), and a quality string.
type Read struct {
	ID, Seq, Desc, Qual string
}

// Trim cuts the read and quality lengths to at most n.
func (r *Read) Trim(n int) {
	if n < len(r.Seq) {
		r.Seq = r.Seq[:n]
		r.Qual = r.Qual[:n]
	}
}
