package fasta

import "io"

var newline = []byte{'\n'}

// Writer renders records in canonical FASTA form: the header line followed by
// each sequence line, every line terminated by '\n'.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter constructs a new FASTA writer that writes records to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes the record r. Trailing empty lines of r.Seq are not written,
// since parsing drops them anyway. An error is returned if this or any
// earlier write failed.
func (w *Writer) Write(r *Record) error {
	lines := r.Seq
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	w.writeln(r.Header)
	for _, line := range lines {
		w.writeln(line)
	}
	return w.err
}

// WriteSection materializes s and writes it.
func (w *Writer) WriteSection(s Section) error {
	r := s.Record()
	return w.Write(&r)
}

func (w *Writer) writeln(line string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, line)
	if w.err == nil {
		_, w.err = w.w.Write(newline)
	}
}
