// bio-seqscan scans FASTA and FASTQ files through a read-only memory mapping.
//
// Subcommands:
//
//	iterate   render every record as it is scanned
//	index     render the records kept by a filter
//	count     per-symbol counts of the kept records' sequences
//	checksum  order-independent digest of the kept records
//	faidx     samtools-compatible .fai index of a FASTA file
package main

import (
	"fmt"
	"io"

	"github.com/grailbio/base/log"
	"github.com/grailbio/seqscan/encoding/fasta"
	"github.com/grailbio/seqscan/symbolcount"
	"v.io/x/lib/cmdline"
)

const formatHelp = `Input format, "fasta" or "fastq". By default it is guessed from the first
non-blank byte of the file.`

func addFilterFlags(cmd *cmdline.Command, opts *filterOpts) {
	*opts = defaultFilterOpts
	cmd.Flags.IntVar(&opts.minLen, "min-len", opts.minLen, "Drop records with fewer sequence bytes")
	cmd.Flags.StringVar(&opts.prefix, "prefix", opts.prefix, "Keep only records whose name starts with this prefix")
	cmd.Flags.Float64Var(&opts.sample, "sample", opts.sample, "FASTQ only: keep reads at this rate, chosen by read name so mates agree")
}

// withSource maps path, runs fn over its contents and unmaps it.
func withSource(path, format string, fn func(data []byte, format string) error) (err error) {
	buf, format, err := openSource(path, format)
	if err != nil {
		return err
	}
	defer func() {
		if e := buf.Close(); e != nil && err == nil {
			err = e
		}
	}()
	return fn(buf.Bytes(), format)
}

func newCmdIterate() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "iterate",
		Short:    "Render every record in canonical form",
		ArgsName: "path",
	}
	format := cmd.Flags.String("format", "", formatHelp)
	cmd.Runner = cmdline.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("iterate takes one pathname argument, but got %v", argv)
		}
		return withSource(argv[0], *format, func(data []byte, format string) error {
			n, err := iterate(env.Stdout, data, format)
			log.Debug.Printf("iterate %s: %d records", argv[0], n)
			return err
		})
	})
	return cmd
}

func newCmdIndex() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "index",
		Short:    "Render the records selected by the filter flags",
		ArgsName: "path",
	}
	format := cmd.Flags.String("format", "", formatHelp)
	var opts filterOpts
	addFilterFlags(cmd, &opts)
	cmd.Runner = cmdline.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("index takes one pathname argument, but got %v", argv)
		}
		return withSource(argv[0], *format, func(data []byte, format string) error {
			recs, err := index(data, format, opts)
			if err != nil {
				return err
			}
			return recs.write(env.Stdout)
		})
	})
	return cmd
}

func runCount(out io.Writer, data []byte, format string, opts filterOpts, parallelism int) error {
	recs, err := index(data, format, opts)
	if err != nil {
		return err
	}
	r, err := symbolcount.CountEach(recs.Len(), symbolcount.Opts{Parallelism: parallelism},
		func(i int) (string, error) { return recs.seq(i), nil })
	if err != nil {
		return err
	}
	return r.WriteTSV(out)
}

func newCmdCount() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "count",
		Short:    "Count sequence symbols",
		Long:     "Count prints one 'symbol<TAB>count<TAB>frequency' line per symbol found in the selected sequences, followed by a total line.",
		ArgsName: "path",
	}
	format := cmd.Flags.String("format", "", formatHelp)
	parallelism := cmd.Flags.Int("parallelism", symbolcount.DefaultOpts.Parallelism, "Number of counting jobs; 0 = runtime.NumCPU()")
	var opts filterOpts
	addFilterFlags(cmd, &opts)
	cmd.Runner = cmdline.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("count takes one pathname argument, but got %v", argv)
		}
		return withSource(argv[0], *format, func(data []byte, format string) error {
			return runCount(env.Stdout, data, format, opts, *parallelism)
		})
	})
	return cmd
}

func newCmdChecksum() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "checksum",
		Short: `Compute an order-independent checksum of a FASTA or FASTQ file.
The output is 'format<TAB>records<TAB>total sequence length<TAB>digest'`,
		ArgsName: "path",
	}
	format := cmd.Flags.String("format", "", formatHelp)
	parallelism := cmd.Flags.Int("parallelism", 0, "Number of checksum jobs; 0 = runtime.NumCPU()")
	var opts filterOpts
	addFilterFlags(cmd, &opts)
	cmd.Runner = cmdline.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("checksum takes one pathname argument, but got %v", argv)
		}
		return withSource(argv[0], *format, func(data []byte, format string) error {
			recs, err := index(data, format, opts)
			if err != nil {
				return err
			}
			csum, err := checksumRecords(recs, *parallelism)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(env.Stdout, csum)
			return err
		})
	})
	return cmd
}

func newCmdFaidx() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "faidx",
		Short:    "Write the .fai index of a FASTA file to stdout",
		ArgsName: "path",
	}
	cmd.Runner = cmdline.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("faidx takes one pathname argument, but got %v", argv)
		}
		return withSource(argv[0], formatFASTA, func(data []byte, _ string) error {
			secs, err := fasta.Index(data, nil)
			if err != nil {
				return err
			}
			return fasta.WriteIndex(env.Stdout, secs)
		})
	})
	return cmd
}

func newCmdRoot() *cmdline.Command {
	return &cmdline.Command{
		Name:     "bio-seqscan",
		Short:    "Scan FASTA and FASTQ files without copying them",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdIterate(),
			newCmdIndex(),
			newCmdCount(),
			newCmdChecksum(),
			newCmdFaidx(),
		},
	}
}

func main() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newCmdRoot())
}
