package fasta

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"strconv"

	"github.com/grailbio/base/tsv"
	"github.com/pkg/errors"
)

// Index files consist of one tab-separated line per sequence in the associated
// FASTA file.  The format is: "<sequence name>\t<length>\t<byte
// offset>\t<bases per line>\t<bytes per line>".
// For example: "chr3\t12345\t9000\t80\t81".
//
// See http://www.htslib.org/doc/faidx.html.
var indexRegExp = regexp.MustCompile(`^(\S+)\t(\d+)\t(\d+)\t(\d+)\t(\d+)$`)

// IndexEntry is one line of a .fai index.
type IndexEntry struct {
	Name string
	// Length is the number of bases in the sequence.
	Length int64
	// Offset is the byte offset of the first base.
	Offset int64
	// LineBases is the number of bases on the first sequence line.
	LineBases int64
	// LineWidth is LineBases plus the line terminator.
	LineWidth int64
}

// IndexEntryOf computes the .fai entry of a section from its offsets.
func IndexEntryOf(s Section) IndexEntry {
	body := s.Body()
	var lineBases, lineWidth int
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		lineWidth = i + 1
		lineBases = len(bytes.TrimRight(body[:i+1], "\r\n"))
	} else {
		lineWidth = len(body)
		lineBases = len(body)
	}
	return IndexEntry{
		Name:      s.Name(),
		Length:    int64(s.Len()),
		Offset:    int64(s.SeqOffset()),
		LineBases: int64(lineBases),
		LineWidth: int64(lineWidth),
	}
}

// WriteIndex writes the .fai index of secs to out. The index can be used by
// samtools and other faidx readers to random-access the FASTA file.
func WriteIndex(out io.Writer, secs Sections) error {
	w := tsv.NewWriter(out)
	for _, s := range secs {
		e := IndexEntryOf(s)
		w.WriteString(e.Name)
		w.WriteInt64(e.Length)
		w.WriteInt64(e.Offset)
		w.WriteInt64(e.LineBases)
		w.WriteInt64(e.LineWidth)
		if err := w.EndLine(); err != nil {
			return errors.Wrap(err, "fasta.WriteIndex")
		}
	}
	return errors.Wrap(w.Flush(), "fasta.WriteIndex")
}

// ReadIndex parses a .fai index.
func ReadIndex(in io.Reader) ([]IndexEntry, error) {
	var entries []IndexEntry
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		matches := indexRegExp.FindStringSubmatch(scanner.Text())
		if len(matches) != 6 {
			return nil, errors.Errorf("invalid index line: %s", scanner.Text())
		}
		e := IndexEntry{Name: matches[1]}
		e.Length, _ = strconv.ParseInt(matches[2], 10, 64)
		e.Offset, _ = strconv.ParseInt(matches[3], 10, 64)
		e.LineBases, _ = strconv.ParseInt(matches[4], 10, 64)
		e.LineWidth, _ = strconv.ParseInt(matches[5], 10, 64)
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "couldn't read FASTA index")
	}
	return entries, nil
}
