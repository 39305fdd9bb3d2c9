package fastq

// Iterator yields the (index, Section) pairs of a FASTQ buffer in file order.
// The first record is located at construction. Iterators are single-pass and
// not threadsafe; abandoning one early is fine.
type Iterator struct {
	scanner *Scanner

	next    Section
	hasNext bool
	nextErr error

	cur Section
	idx int
	err error
}

// NewIterator creates an iterator over buf and primes the first record.
func NewIterator(buf []byte) *Iterator {
	it := &Iterator{scanner: NewScanner(buf), idx: -1}
	it.prime()
	return it
}

func (it *Iterator) prime() {
	it.next, it.hasNext, it.nextErr = it.scanner.Next()
}

// Done reports whether no further record is pending.
func (it *Iterator) Done() bool { return !it.hasNext }

// Scan advances to the next record, returning false at the end of the buffer
// or at the first malformed record. Once Scan returns false, it never returns
// true again. Upon completion, the user should check the Err method to
// determine whether scanning stopped because of an error or because the end
// of the buffer was reached.
func (it *Iterator) Scan() bool {
	if it.err != nil || !it.hasNext {
		if it.err == nil {
			it.err = it.nextErr
		}
		it.hasNext = false
		return false
	}
	it.cur = it.next
	it.idx++
	it.prime()
	return true
}

// Peek returns the record that the next call to Scan will make current,
// without advancing. It returns false when Scan would return false.
func (it *Iterator) Peek() (Section, bool) {
	if it.err != nil || !it.hasNext {
		return Section{}, false
	}
	return it.next, true
}

// Index returns the 0-based position of the current record in the file.
func (it *Iterator) Index() int { return it.idx }

// Section returns the current record. Before the first call to Scan it
// returns the zero Section.
func (it *Iterator) Section() Section { return it.cur }

// Read materializes the current record.
func (it *Iterator) Read() Read { return it.cur.Read() }

// Err returns the scanning error, if any.
func (it *Iterator) Err() error { return it.err }

// PairIterator composes a pair of iterators to scan a pair of FASTQ
// buffers (R1 and R2) in lock step.
type PairIterator struct {
	r1, r2 *Iterator
	err    error
}

// NewPairIterator creates a new FASTQ pair iterator over the R1 and R2
// buffers.
func NewPairIterator(r1, r2 []byte) *PairIterator {
	return &PairIterator{r1: NewIterator(r1), r2: NewIterator(r2)}
}

// Scan advances both iterators. It returns false when either is exhausted;
// if only one of them is, Err returns ErrDiscordant.
func (p *PairIterator) Scan() bool {
	if p.err != nil {
		return false
	}
	ok1 := p.r1.Scan()
	ok2 := p.r2.Scan()
	if ok1 != ok2 && p.r1.Err() == nil && p.r2.Err() == nil {
		p.err = ErrDiscordant
	}
	return ok1 && ok2
}

// Index returns the 0-based position of the current pair.
func (p *PairIterator) Index() int { return p.r1.Index() }

// Sections returns the current R1 and R2 sections.
func (p *PairIterator) Sections() (r1, r2 Section) {
	return p.r1.Section(), p.r2.Section()
}

// Err returns the scanning error, if any. It should be checked
// after Scan returns false.
func (p *PairIterator) Err() error {
	if err := p.r1.Err(); err != nil {
		return err
	}
	if err := p.r2.Err(); err != nil {
		return err
	}
	return p.err
}
