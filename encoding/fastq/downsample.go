package fastq

import (
	"blainsmith.com/go/seahash"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/pkg/errors"
)

// Downsample returns a predicate for Index that keeps reads at the given
// sampling rate. The choice is a function of the read name alone, so it is
// stable across runs and repeated evaluation, and read pairs from R1 and R2
// files, which share names, are kept or dropped together.
func Downsample(rate float64) (Predicate, error) {
	if rate < 0.0 || rate > 1.0 {
		return nil, errors.New("rate must be between 0 and 1 (inclusive)")
	}
	if rate == 1.0 {
		return All, nil
	}
	threshold := uint64(rate * (1 << 64))
	return func(s Section) bool {
		return seahash.Sum64(gunsafe.StringToBytes(s.Name())) < threshold
	}, nil
}
