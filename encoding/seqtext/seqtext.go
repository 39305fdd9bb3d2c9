// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package seqtext contains the byte-level helpers shared by the FASTA and
// FASTQ section scanners: delimiter search over a shared buffer, whitespace
// classification, and sequence normalization (whitespace removed,
// upper-cased).
//
// None of the functions here copy the buffer they scan; only the
// normalization functions allocate, and only for their result.
package seqtext

import (
	"bytes"

	"github.com/pkg/errors"
)

// ErrMalformed is the cause of every error reported by the section scanners
// when a required delimiter (newline, marker byte, or the full quality
// length) is missing before the end of the buffer.
var ErrMalformed = errors.New("malformed record")

// Malformedf returns an error whose cause is ErrMalformed. The message is
// prefixed with the format name and the byte offset of the record start.
func Malformedf(format string, offset int, msg string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformed, "%s: record at offset %d: "+msg, append([]interface{}{format, offset}, args...)...)
}

// IsMalformed reports whether err was caused by a malformed record.
func IsMalformed(err error) bool {
	return err != nil && errors.Cause(err) == ErrMalformed
}

// spaceTable[c] is true iff c is ASCII whitespace.
var spaceTable = [256]bool{
	' ':  true,
	'\t': true,
	'\n': true,
	'\v': true,
	'\f': true,
	'\r': true,
}

// normTable maps each byte to its upper-case form. Whitespace maps to 0 and
// is dropped by the normalizers.
var normTable [256]byte

func init() {
	for i := range normTable {
		c := byte(i)
		switch {
		case spaceTable[c]:
			normTable[i] = 0
		case c >= 'a' && c <= 'z':
			normTable[i] = c - ('a' - 'A')
		default:
			normTable[i] = c
		}
	}
}

// IsSpace reports whether c is ASCII whitespace.
func IsSpace(c byte) bool { return spaceTable[c] }

// IndexFrom returns the offset of the first c in buf[from:], or len(buf) if
// there is none.
func IndexFrom(buf []byte, from int, c byte) int {
	if from >= len(buf) {
		return len(buf)
	}
	i := bytes.IndexByte(buf[from:], c)
	if i < 0 {
		return len(buf)
	}
	return from + i
}

// LineEnd returns the offset of the first '\n' in buf[from:]. ok is false if
// the buffer ends first.
func LineEnd(buf []byte, from int) (end int, ok bool) {
	end = IndexFrom(buf, from, '\n')
	return end, end < len(buf)
}

// TrimCR drops one trailing '\r'.
func TrimCR(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\r' {
		return b[:n-1]
	}
	return b
}

// TrimRightSpace drops trailing whitespace.
func TrimRightSpace(b []byte) []byte {
	n := len(b)
	for n > 0 && spaceTable[b[n-1]] {
		n--
	}
	return b[:n]
}

// CountNonSpace returns the number of non-whitespace bytes in b.
func CountNonSpace(b []byte) int {
	n := 0
	for _, c := range b {
		if !spaceTable[c] {
			n++
		}
	}
	return n
}

// SkipNonSpace advances from buf[from] until exactly n non-whitespace bytes
// have been consumed and returns the offset just past the last of them. ok
// is false if the buffer ends first. With n == 0 it returns from.
func SkipNonSpace(buf []byte, from, n int) (end int, ok bool) {
	if n == 0 {
		return from, true
	}
	for i := from; i < len(buf); i++ {
		if spaceTable[buf[i]] {
			continue
		}
		if n--; n == 0 {
			return i + 1, true
		}
	}
	return len(buf), false
}

// AppendNormalized appends the non-whitespace bytes of src to dst,
// upper-cased.
func AppendNormalized(dst, src []byte) []byte {
	for _, c := range src {
		if u := normTable[c]; u != 0 || c == 0 {
			dst = append(dst, u)
		}
	}
	return dst
}

// Normalize returns the non-whitespace bytes of src, upper-cased.
func Normalize(src []byte) string {
	return string(AppendNormalized(make([]byte, 0, len(src)), src))
}

// NormalizeString is Normalize for strings.
func NormalizeString(s string) string {
	dst := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if u := normTable[c]; u != 0 || c == 0 {
			dst = append(dst, u)
		}
	}
	return string(dst)
}
