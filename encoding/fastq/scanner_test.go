package fastq_test

import (
	"bytes"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/grailbio/seqscan/encoding/fastq"
	"github.com/grailbio/seqscan/encoding/seqtext"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

const fq = `@NB500956:89:HW2FHBGX2:1:11101:25648:1069 1:N:0:ATCACG
ATACAGGCCTGANCCACTGTGCCCAGNCTANNTNATTANTGAANANAGAATNGTTNTAAATANANNNNNTNTNNNC
+
AAAAAEEEEEEE#EEAEEEEEEEEEE#EEE##E#EEEE#EEEE#E#EEEEE#EEE#EEEAEE#A#####E#E###E
@NB500956:89:HW2FHBGX2:1:11101:13871:1070 1:N:0:ATCACG
CTCAACTCTGAGNCAGACAGAAATACNTTTNNTNTGAGTTACANCNTTCTTTTTCNACATATNCNNNNNTNGNNNT
+
AAAAAEEEEEEE#EEEEEEEEEEEEE#EEE##E#EEEEEEEEE#E#EEEEEEEEE#EAEEEE#A#####E#A###E
@NB500956:89:HW2FHBGX2:1:11101:9975:1070 1:N:0:ATCACG
GAGTAACCACGTNCCCATGGCCACAGNTGANNGNGTCACACCTNANCCGGGAGAGNCAATCCNGNNNNNGNANNNC
+
AAAAAEEEEEEE#EEEEEEEEEAEEE#EEA##E#EEEEEEEE<#E#<EEEEEEEE#<EEEA/#/#####A#E###A
@NB500956:89:HW2FHBGX2:1:11101:20247:1070 1:N:0:ATCACG
GATCGGAAGAGCNCACGTCTGAACTCNAGTNNCNTCCCGATCTNGNATGCCGTCTNCTGCTTNANNNNNANANNNG
+
AAAAAEEEEEEE#EEEEEEEEEEEEE#AEE##E#A////6AE<#E#EEEEEEEEA#A/EE/E#E#####/#E###E
@NB500956:89:HW2FHBGX2:1:11101:17754:1070 1:N:0:ATCACG
CAAGCAACTTACNTTACTTTAGGCTGNAAANNGNCTGCCTGAANTNCCTGCTCACNAATCCCNCNNNNNCNTNNNT
+
AAAAAEEEEEEE#EEAEEEEEEEEEE#EEE##E#EEEEEEEEE#E#EEEEEEEEE#EAEAEA#/#####E#A###E
@NB500956:89:HW2FHBGX2:1:11101:26223:1070 1:N:0:ATCACG
TCAATTTCAGAACTTTTTATTGGTCTNTTCNNGNATTCATCTTNTNCCTGGTTTANTCTTGGNANNNNNTNTNNNT
+
AAAAAEEEEEEEEEEEEEEEEEEEEE#EEA##E#EEEEEEEEE#E#<EAEEEEEE#EEEEEE#E#####E#E###E
`

func readAll(s string) ([]fastq.Read, error) {
	var reads []fastq.Read
	it := fastq.NewIterator([]byte(s))
	for it.Scan() {
		reads = append(reads, it.Read())
	}
	return reads, it.Err()
}

func scanErr(s string) error {
	_, err := readAll(s)
	return err
}

func TestFASTQ(t *testing.T) {
	it := fastq.NewIterator([]byte(fq))
	if !it.Scan() {
		t.Fatal(it.Err())
	}
	first := fastq.Read{
		ID:   "@NB500956:89:HW2FHBGX2:1:11101:25648:1069 1:N:0:ATCACG",
		Seq:  "ATACAGGCCTGANCCACTGTGCCCAGNCTANNTNATTANTGAANANAGAATNGTTNTAAATANANNNNNTNTNNNC",
		Desc: "+",
		Qual: "AAAAAEEEEEEE#EEAEEEEEEEEEE#EEE##E#EEEE#EEEE#E#EEEEE#EEE#EEEAEE#A#####E#E###E",
	}
	if got, want := it.Read(), first; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := it.Section().Name(), "NB500956:89:HW2FHBGX2:1:11101:25648:1069"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	var n int
	for it.Scan() {
		n++
		if got, want := it.Index(), n; got != want {
			t.Errorf("got %v, want %v", got, want)
		}
	}
	if got, want := n, 5; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if err := it.Err(); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

func TestScenario(t *testing.T) {
	reads, err := readAll("@id1\nTGCA\n+\nABCD\n")
	assert.NoError(t, err)
	assert.EQ(t, reads, []fastq.Read{{ID: "@id1", Seq: "TGCA", Desc: "+", Qual: "ABCD"}})
}

func TestLayouts(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []fastq.Read
	}{
		{"empty", "", nil},
		{"no marker", "12312#", nil},
		{"markers in quality",
			"@r1\nACGT\n+\n@+@+\n@r2\nAC\n+\n+@\n",
			[]fastq.Read{
				{ID: "@r1", Seq: "ACGT", Desc: "+", Qual: "@+@+"},
				{ID: "@r2", Seq: "AC", Desc: "+", Qual: "+@"},
			}},
		{"multi-line",
			"@r\nAC\ngt\n+desc\nAB\nCD\n",
			[]fastq.Read{{ID: "@r", Seq: "ACGT", Desc: "+desc", Qual: "ABCD"}}},
		{"normalized",
			"@r x\r\na c\tg\r\n+\r\nab c d\r\n",
			[]fastq.Read{{ID: "@r x", Seq: "ACG", Desc: "+", Qual: "ABC"}}},
		{"no trailing newline", "@r\nAC\n+\nAB", []fastq.Read{{ID: "@r", Seq: "AC", Desc: "+", Qual: "AB"}}},
		{"empty sequence", "@r\n+\n\n", []fastq.Read{{ID: "@r", Desc: "+"}}},
		{"leading junk", "junk\n@r\nA\n+\nB\n", []fastq.Read{{ID: "@r", Seq: "A", Desc: "+", Qual: "B"}}},
	}
	for _, tt := range tests {
		reads, err := readAll(tt.data)
		assert.NoError(t, err, tt.name)
		expect.EQ(t, reads, tt.want, tt.name)
		for _, r := range reads {
			expect.EQ(t, len(r.Seq), len(r.Qual), tt.name)
		}
	}
}

func TestBadFASTQ(t *testing.T) {
	tests := []struct {
		data, msg string
	}{
		{"@1234\n123", "no description line"},
		{"@1234", "identifier is not terminated"},
		{"@1234\nACGT\n+", "description is not terminated"},
		{"@id1\nTGCA\n+\nAB\n", "quality is shorter than sequence (2 < 4)"},
		{"@id1\nTGCA\n+\n", "quality is shorter than sequence (0 < 4)"},
	}
	for _, tt := range tests {
		err := scanErr(tt.data)
		expect.True(t, seqtext.IsMalformed(err), "input %q: %v", tt.data, err)
		if err != nil {
			expect.HasSubstr(t, err.Error(), tt.msg)
		}
	}
}

func TestTruncatedQualityKeepsEarlierReads(t *testing.T) {
	it := fastq.NewIterator([]byte("@a\nAC\n+\nAB\n@b\nACGT\n+\nAB\n"))
	assert.True(t, it.Scan())
	a := it.Section()
	expect.True(t, it.Done())
	expect.False(t, it.Scan())
	err := it.Err()
	expect.True(t, seqtext.IsMalformed(err))
	expect.HasSubstr(t, err.Error(), "offset 11")
	expect.EQ(t, a.Read(), fastq.Read{ID: "@a", Seq: "AC", Desc: "+", Qual: "AB"})

	_, err = fastq.Index([]byte("@a\nAC\n+\nAB\n@b\nACGT\n+\nAB\n"), nil)
	expect.True(t, seqtext.IsMalformed(err))
}

func TestIteratorBeforeScan(t *testing.T) {
	it := fastq.NewIterator([]byte("@id1 1:N\nTGCA\n+\nABCD\n"))
	expect.False(t, it.Done())

	// The current read is the zero Section until Scan is called.
	s := it.Section()
	expect.EQ(t, s.ID(), "")
	expect.EQ(t, s.Name(), "")
	expect.EQ(t, s.Desc(), "")
	expect.EQ(t, s.Len(), 0)
	expect.EQ(t, it.Read(), fastq.Read{})

	// Peek exposes the primed read without advancing.
	next, ok := it.Peek()
	assert.True(t, ok)
	expect.EQ(t, next.Read(), fastq.Read{ID: "@id1 1:N", Seq: "TGCA", Desc: "+", Qual: "ABCD"})
	expect.EQ(t, it.Index(), -1)
	assert.True(t, it.Scan())
	expect.EQ(t, it.Section(), next)
	_, ok = it.Peek()
	expect.False(t, ok)
	expect.False(t, it.Scan())
	assert.NoError(t, it.Err())

	it = fastq.NewIterator([]byte("@id1\nTGCA\n+\nAB\n"))
	_, ok = it.Peek()
	expect.False(t, ok)
	expect.False(t, it.Scan())
	expect.True(t, seqtext.IsMalformed(it.Err()))
}

func TestSection(t *testing.T) {
	secs, err := fastq.Index([]byte(fq), nil)
	assert.NoError(t, err)
	assert.EQ(t, secs.Len(), 6)
	for _, s := range secs {
		expect.EQ(t, s.Read(), s.Read())
		expect.EQ(t, s.Len(), len(s.Seq()))
		expect.EQ(t, s.Len(), len(s.Qual()))
		expect.EQ(t, s.Desc(), "+")
		expect.True(t, strings.HasPrefix(fq[s.Offset():], s.ID()))
	}
	expect.EQ(t, secs.At(5).End(), len(fq)-1)
}

func TestIndex(t *testing.T) {
	all, err := fastq.Index([]byte(fq), fastq.All)
	assert.NoError(t, err)
	reads, err := readAll(fq)
	assert.NoError(t, err)
	expect.EQ(t, all.Reads(), reads)

	sel, err := fastq.Index([]byte(fq), fastq.IDHasPrefix("@NB500956:89:HW2FHBGX2:1:11101:2"))
	assert.NoError(t, err)
	assert.EQ(t, sel.Len(), 3)
	expect.EQ(t, sel.At(0).Name(), "NB500956:89:HW2FHBGX2:1:11101:25648:1069")
	expect.EQ(t, sel.At(1).Name(), "NB500956:89:HW2FHBGX2:1:11101:20247:1070")
	expect.EQ(t, sel.At(2).Name(), "NB500956:89:HW2FHBGX2:1:11101:26223:1070")

	short, err := fastq.Index([]byte(fq+"@short\nAC\n+\nAA\n"), fastq.MinLen(10))
	assert.NoError(t, err)
	expect.EQ(t, short.Len(), 6)
}

func TestEach(t *testing.T) {
	secs, err := fastq.Index([]byte(fq), nil)
	assert.NoError(t, err)
	for _, parallelism := range []int{0, 1, 2, 4, 6, 64} {
		ids := make([]string, secs.Len())
		assert.NoError(t, secs.Each(parallelism, func(i int, s fastq.Section) error {
			ids[i] = s.ID()
			return nil
		}))
		for i, id := range ids {
			expect.EQ(t, id, secs.At(i).ID())
		}
	}
	var calls int32
	err = secs.Each(2, func(i int, s fastq.Section) error {
		atomic.AddInt32(&calls, 1)
		return fmt.Errorf("read %d", i)
	})
	expect.HasSubstr(t, err.Error(), "read ")
	expect.True(t, atomic.LoadInt32(&calls) >= 1)
}

func TestPairIterator(t *testing.T) {
	r1 := "@a 1\nAC\n+\nAB\n@b 1\nGT\n+\nCD\n"
	r2 := "@a 2\nTT\n+\nEF\n@b 2\nGG\n+\nGH\n"
	p := fastq.NewPairIterator([]byte(r1), []byte(r2))
	var n int
	for p.Scan() {
		s1, s2 := p.Sections()
		expect.EQ(t, s1.Name(), s2.Name())
		expect.EQ(t, p.Index(), n)
		n++
	}
	assert.NoError(t, p.Err())
	expect.EQ(t, n, 2)

	p = fastq.NewPairIterator([]byte(r1), []byte("@a 2\nTT\n+\nEF\n"))
	for p.Scan() {
	}
	expect.EQ(t, p.Err(), fastq.ErrDiscordant)

	p = fastq.NewPairIterator([]byte(r1), []byte("@a 2\nTT\n+\nE\n"))
	for p.Scan() {
	}
	expect.True(t, seqtext.IsMalformed(p.Err()))
}

func TestWriter(t *testing.T) {
	var (
		it = fastq.NewIterator([]byte(fq))
		b  = new(bytes.Buffer)
		w  = fastq.NewWriter(b)
	)
	for it.Scan() {
		r := it.Read()
		if err := w.Write(&r); err != nil {
			t.Fatal(err)
		}
	}
	if err := it.Err(); err != nil {
		t.Fatal(err)
	}
	if got, want := b.String(), fq; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	reads := []fastq.Read{
		{ID: "@id1", Seq: "TGCA", Desc: "+", Qual: "ABCD"},
		{ID: "@id2 extra", Seq: "NNAC", Desc: "+id2 extra", Qual: "@@+#"},
		{ID: "@id3", Seq: "", Desc: "+", Qual: ""},
	}
	var b bytes.Buffer
	w := fastq.NewWriter(&b)
	for i := range reads {
		assert.NoError(t, w.Write(&reads[i]))
	}
	got, err := readAll(b.String())
	assert.NoError(t, err)
	expect.EQ(t, got, reads)

	secs, err := fastq.Index(b.Bytes(), nil)
	assert.NoError(t, err)
	var b2 bytes.Buffer
	w = fastq.NewWriter(&b2)
	for _, s := range secs {
		assert.NoError(t, w.WriteSection(s))
	}
	expect.EQ(t, b2.String(), b.String())
}

func TestTrim(t *testing.T) {
	r := fastq.Read{ID: "@a", Seq: "ACGT", Desc: "+", Qual: "ABCD"}
	r.Trim(2)
	expect.EQ(t, r, fastq.Read{ID: "@a", Seq: "AC", Desc: "+", Qual: "AB"})
	r.Trim(10)
	expect.EQ(t, r.Seq, "AC")
}
