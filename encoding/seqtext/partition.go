package seqtext

import (
	"runtime"

	"github.com/grailbio/base/traverse"
)

// Jobs returns the number of jobs that process n items at the given
// parallelism. Parallelism <= 0 means runtime.NumCPU(), and there is never
// more than one job per item.
func Jobs(n, parallelism int) int {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > n {
		parallelism = n
	}
	return parallelism
}

// EachRange splits [0, n) into jobs contiguous, non-overlapping ranges and
// calls fn on each range concurrently. Job jobIdx covers
// [jobIdx*n/jobs, (jobIdx+1)*n/jobs). EachRange returns after every job has
// finished, with the first error reported by any fn.
func EachRange(n, jobs int, fn func(jobIdx, startIdx, endIdx int) error) error {
	if n <= 0 || jobs <= 0 {
		return nil
	}
	return traverse.Each(jobs, func(jobIdx int) error {
		startIdx := (jobIdx * n) / jobs
		endIdx := ((jobIdx + 1) * n) / jobs
		return fn(jobIdx, startIdx, endIdx)
	})
}
