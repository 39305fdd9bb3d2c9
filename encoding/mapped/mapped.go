// Package mapped provides the read-only byte view that the FASTA and FASTQ
// section scanners operate on. A Buffer is either a read-only memory mapping
// of a file or a caller-supplied byte slice.
//
// Every fasta.Section and fastq.Section refers into the Buffer it was
// scanned from without copying. The caller must keep the Buffer open until
// the last such Section is discarded; using a Section after Close is
// undefined.
package mapped

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// Buffer is an immutable, randomly addressable byte sequence. Buffer is
// safe for concurrent reads.
type Buffer struct {
	path string
	data []byte
	mm   mmap.MMap // nil unless data is a mapping.
}

// Opts controls Open.
type Opts struct {
	// Sequential advises the kernel that the mapping will be read front to
	// back. It is a hint and is ignored where unsupported.
	Sequential bool
}

// DefaultOpts is the Opts used by Open.
var DefaultOpts = Opts{Sequential: true}

// Open maps the file at path read-only using DefaultOpts.
func Open(path string) (*Buffer, error) {
	return OpenWithOpts(path, DefaultOpts)
}

// OpenWithOpts maps the file at path read-only. An empty file yields an empty
// Buffer that holds no mapping.
func OpenWithOpts(path string, opts Opts) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.E(err, fmt.Sprintf("mapped.Open %s", path))
	}
	defer f.Close() // nolint: errcheck
	info, err := f.Stat()
	if err != nil {
		return nil, errors.E(err, fmt.Sprintf("mapped.Open %s: stat", path))
	}
	if info.IsDir() {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("mapped.Open %s: is a directory", path))
	}
	b := &Buffer{path: path}
	if info.Size() == 0 {
		log.Debug.Printf("mapped.Open %s: empty file", path)
		return b, nil
	}
	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, errors.E(err, fmt.Sprintf("mapped.Open %s: mmap", path))
	}
	b.mm = mm
	b.data = []byte(mm)
	if opts.Sequential {
		if err := adviseSequential(b.data); err != nil {
			log.Debug.Printf("mapped.Open %s: madvise: %v", path, err)
		}
	}
	log.Debug.Printf("mapped.Open %s: mapped %d bytes", path, len(b.data))
	return b, nil
}

// FromBytes wraps data in a Buffer. The caller must not modify data
// afterwards.
func FromBytes(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Bytes returns the contents of the buffer. The slice must not be modified
// and must not be used after Close.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the length of the buffer.
func (b *Buffer) Len() int { return len(b.data) }

// Path returns the path passed to Open, or "" for FromBytes.
func (b *Buffer) Path() string { return b.path }

// Close releases the mapping, if any. Close is idempotent.
func (b *Buffer) Close() error {
	b.data = nil
	if b.mm == nil {
		return nil
	}
	mm := b.mm
	b.mm = nil
	if err := mm.Unmap(); err != nil {
		return errors.E(err, fmt.Sprintf("mapped.Close %s: munmap", b.path))
	}
	return nil
}
