// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package symbolcount counts symbol occurrences in sequences. A symbol is any
// byte value; no alphabet is assumed.
//
// Collections are counted in parallel: the input is split into contiguous,
// disjoint ranges, each range is counted into its own Result, and the partial
// Results are merged once every job has finished. Merge is commutative and
// associative, so the outcome does not depend on the parallelism or on the
// order in which jobs finish.
package symbolcount

import (
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/seqscan/encoding/seqtext"
	"github.com/pkg/errors"
)

// Result holds per-symbol occurrence counts. Sum(Counts) == Total.
// Results are comparable with ==.
type Result struct {
	// Counts[c] is the number of occurrences of byte c.
	Counts [256]int64
	// Total is the number of symbols counted.
	Total int64
}

// Opts controls the parallel counters.
type Opts struct {
	// Parallelism is the number of concurrent counting jobs. Values <= 0 mean
	// runtime.NumCPU().
	Parallelism int
}

// DefaultOpts sets the default values of Opts.
var DefaultOpts = Opts{}

// Count counts the symbols of seq in one pass.
func Count(seq []byte) Result {
	var r Result
	r.add(seq)
	return r
}

// CountString is Count for strings.
func CountString(seq string) Result {
	var r Result
	r.addString(seq)
	return r
}

func (r *Result) add(seq []byte) {
	for _, c := range seq {
		r.Counts[c]++
	}
	r.Total += int64(len(seq))
}

func (r *Result) addString(seq string) {
	for i := 0; i < len(seq); i++ {
		r.Counts[seq[i]]++
	}
	r.Total += int64(len(seq))
}

// Merge returns the sum of r and o.
func (r Result) Merge(o Result) Result {
	for c, n := range o.Counts {
		r.Counts[c] += n
	}
	r.Total += o.Total
	return r
}

// Merge returns the sum of rs. Merge() is the zero Result.
func Merge(rs ...Result) Result {
	var out Result
	for _, r := range rs {
		out = out.Merge(r)
	}
	return out
}

// Get returns the count of symbol c.
func (r Result) Get(c byte) int64 { return r.Counts[c] }

// Frequency returns the fraction of the total made up by c, or 0 if nothing
// was counted.
func (r Result) Frequency(c byte) float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Counts[c]) / float64(r.Total)
}

// Symbols returns the symbols with nonzero counts in ascending order.
func (r Result) Symbols() []byte {
	var syms []byte
	for c, n := range r.Counts {
		if n != 0 {
			syms = append(syms, byte(c))
		}
	}
	return syms
}

// Map returns the nonzero counts keyed by symbol.
func (r Result) Map() map[byte]int64 {
	m := make(map[byte]int64)
	for c, n := range r.Counts {
		if n != 0 {
			m[byte(c)] = n
		}
	}
	return m
}

// CountAll counts the symbols of every sequence in seqs.
func CountAll(seqs []string, opts Opts) Result {
	r, _ := CountEach(len(seqs), opts, func(i int) (string, error) { return seqs[i], nil })
	return r
}

// CountEach counts the symbols of seq(0), ..., seq(n-1). The index range is
// split statically into opts.Parallelism contiguous ranges that are counted
// concurrently, each into a private Result; seq must therefore be safe for
// concurrent use. The partial Results are merged after all jobs finish.
// CountEach returns the first error returned by seq, if any.
func CountEach(n int, opts Opts, seq func(i int) (string, error)) (Result, error) {
	if n <= 0 {
		return Result{}, nil
	}
	parallelism := seqtext.Jobs(n, opts.Parallelism)
	log.Debug.Printf("symbolcount.CountEach: %d sequences, %d jobs", n, parallelism)
	partial := make([]Result, parallelism)
	err := seqtext.EachRange(n, parallelism, func(jobIdx, startIdx, endIdx int) error {
		r := &partial[jobIdx]
		for i := startIdx; i < endIdx; i++ {
			s, err := seq(i)
			if err != nil {
				return errors.Wrapf(err, "symbolcount: sequence %d", i)
			}
			r.addString(s)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return Merge(partial...), nil
}

// Label returns the printable form of symbol c: c itself for visible ASCII,
// and a "\xNN" escape for whitespace, control bytes and non-ASCII bytes.
func Label(c byte) string {
	if c > ' ' && c < 0x7f {
		return string([]byte{c})
	}
	return fmt.Sprintf("\\x%02x", c)
}

// WriteTSV writes one "symbol\tcount\tfrequency" line per nonzero symbol,
// followed by a "total" line. Symbols are written with Label, so every line
// has exactly three fields.
func (r Result) WriteTSV(out io.Writer) error {
	w := tsv.NewWriter(out)
	for _, c := range r.Symbols() {
		w.WriteString(Label(c))
		w.WriteInt64(r.Counts[c])
		w.WriteString(strconv.FormatFloat(r.Frequency(c), 'f', 6, 64))
		if err := w.EndLine(); err != nil {
			return err
		}
	}
	var all float64
	if r.Total > 0 {
		all = 1
	}
	w.WriteString("total")
	w.WriteInt64(r.Total)
	w.WriteString(strconv.FormatFloat(all, 'f', 6, 64))
	if err := w.EndLine(); err != nil {
		return err
	}
	return w.Flush()
}
