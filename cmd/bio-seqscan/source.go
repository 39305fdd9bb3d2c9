package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/grailbio/base/log"
	"github.com/grailbio/seqscan/encoding/fasta"
	"github.com/grailbio/seqscan/encoding/fastq"
	"github.com/grailbio/seqscan/encoding/mapped"
	"github.com/grailbio/seqscan/encoding/seqtext"
)

const (
	formatFASTA = "fasta"
	formatFASTQ = "fastq"
)

// guessFormat returns the format implied by the first non-whitespace byte of
// data, or "" if there is none.
func guessFormat(data []byte) string {
	for _, c := range data {
		if seqtext.IsSpace(c) {
			continue
		}
		switch c {
		case fasta.Marker:
			return formatFASTA
		case fastq.IDMarker:
			return formatFASTQ
		}
		return ""
	}
	return ""
}

// openSource maps path and resolves its format. format may be "", in which
// case it is guessed from the contents. The caller must close the returned
// buffer once it is done with every record derived from it.
func openSource(path, format string) (*mapped.Buffer, string, error) {
	buf, err := mapped.Open(path)
	if err != nil {
		return nil, "", err
	}
	if format == "" {
		format = guessFormat(buf.Bytes())
		if format == "" && buf.Len() > 0 {
			buf.Close() // nolint: errcheck
			return nil, "", fmt.Errorf("%s: cannot determine the format; set -format", path)
		}
		if format == "" {
			format = formatFASTA
		}
	}
	if format != formatFASTA && format != formatFASTQ {
		buf.Close() // nolint: errcheck
		return nil, "", fmt.Errorf("unknown format %q", format)
	}
	log.Debug.Printf("%s: %d bytes, format %s", path, buf.Len(), format)
	return buf, format, nil
}

// filterOpts selects records for the index, count and checksum commands.
type filterOpts struct {
	// minLen drops records with fewer sequence bytes.
	minLen int
	// prefix keeps only records whose name starts with it.
	prefix string
	// sample is the FASTQ downsampling rate. 1 keeps everything.
	sample float64
}

var defaultFilterOpts = filterOpts{sample: 1}

func (o filterOpts) fastaPredicate() fasta.Predicate {
	var preds []fasta.Predicate
	if o.minLen > 0 {
		preds = append(preds, fasta.MinLen(o.minLen))
	}
	if o.prefix != "" {
		preds = append(preds, fasta.NameHasPrefix(o.prefix))
	}
	return func(s fasta.Section) bool {
		for _, p := range preds {
			if !p(s) {
				return false
			}
		}
		return true
	}
}

func (o filterOpts) fastqPredicate() (fastq.Predicate, error) {
	var preds []fastq.Predicate
	if o.minLen > 0 {
		preds = append(preds, fastq.MinLen(o.minLen))
	}
	if o.prefix != "" {
		preds = append(preds, fastq.IDHasPrefix(string(fastq.IDMarker)+o.prefix))
	}
	if o.sample != 1 {
		p, err := fastq.Downsample(o.sample)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return func(s fastq.Section) bool {
		for _, p := range preds {
			if !p(s) {
				return false
			}
		}
		return true
	}, nil
}

// records is the indexed collection of one buffer, in either format.
type records struct {
	format string
	fa     fasta.Sections
	fq     fastq.Sections
}

func index(data []byte, format string, opts filterOpts) (*records, error) {
	r := &records{format: format}
	var err error
	switch format {
	case formatFASTA:
		r.fa, err = fasta.Index(data, opts.fastaPredicate())
	case formatFASTQ:
		var pred fastq.Predicate
		if pred, err = opts.fastqPredicate(); err == nil {
			r.fq, err = fastq.Index(data, pred)
		}
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *records) Len() int {
	if r.format == formatFASTA {
		return r.fa.Len()
	}
	return r.fq.Len()
}

// seq returns the normalized sequence of the i'th record.
func (r *records) seq(i int) string {
	if r.format == formatFASTA {
		return r.fa.At(i).Seq()
	}
	return r.fq.At(i).Seq()
}

// fields returns the materialized text fields of the i'th record.
func (r *records) fields(i int) []string {
	if r.format == formatFASTA {
		s := r.fa.At(i)
		return []string{s.Header(), s.Seq()}
	}
	s := r.fq.At(i)
	return []string{s.ID(), s.Seq(), s.Desc(), s.Qual()}
}

// write renders every record to out.
func (r *records) write(out io.Writer) error {
	w := bufio.NewWriter(out)
	var err error
	if r.format == formatFASTA {
		fw := fasta.NewWriter(w)
		for _, s := range r.fa {
			if err = fw.WriteSection(s); err != nil {
				break
			}
		}
	} else {
		fw := fastq.NewWriter(w)
		for _, s := range r.fq {
			if err = fw.WriteSection(s); err != nil {
				break
			}
		}
	}
	if e := w.Flush(); e != nil && err == nil {
		err = e
	}
	return err
}

// iterate renders the records of data as they are scanned, without building
// a collection.
func iterate(out io.Writer, data []byte, format string) (n int, err error) {
	w := bufio.NewWriter(out)
	defer func() {
		if e := w.Flush(); e != nil && err == nil {
			err = e
		}
	}()
	switch format {
	case formatFASTA:
		fw := fasta.NewWriter(w)
		it := fasta.NewIterator(data)
		for it.Scan() {
			rec := it.Record()
			if err = fw.Write(&rec); err != nil {
				return n, err
			}
			n++
		}
		return n, it.Err()
	case formatFASTQ:
		fw := fastq.NewWriter(w)
		it := fastq.NewIterator(data)
		for it.Scan() {
			read := it.Read()
			if err = fw.Write(&read); err != nil {
				return n, err
			}
			n++
		}
		return n, it.Err()
	}
	return 0, fmt.Errorf("unknown format %q", format)
}
