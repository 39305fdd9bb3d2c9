package fasta

// Iterator yields the (index, Section) pairs of a FASTA buffer in file order.
// The first record is located when the iterator is constructed, so Done is
// meaningful before the first call to Scan.
//
//	it := fasta.NewIterator(buf)
//	for it.Scan() {
//	  i, sec := it.Index(), it.Section()
//	  ...
//	}
//	if err := it.Err(); err != nil {
//	  ...
//	}
//
// An Iterator is single-pass and not threadsafe. Stopping early is fine; there
// is nothing to release.
type Iterator struct {
	scanner *Scanner

	// The primed record, located one step ahead of the current one.
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

// Done reports whether no further record is pending. It is true for an empty
// buffer right after construction.
func (it *Iterator) Done() bool { return !it.hasNext }

// Scan advances to the next record. It returns false at the end of the buffer
// or at the first malformed record; Err distinguishes the two. Once Scan
// returns false it never returns true again. Records returned before an error
// remain valid.
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

// Record materializes the current record.
func (it *Iterator) Record() Record { return it.cur.Record() }

// Err returns the error that stopped the iteration, if any.
func (it *Iterator) Err() error { return it.err }
