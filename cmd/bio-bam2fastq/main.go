// Command bio-bam2fastq extracts FASTQ reads from a BAM or SAM file, keeping
// mates in step across the _1 and _2 outputs.
//
// Usage:
//   bio-bam2fastq convert [flags] <input.bam>
//   bio-bam2fastq verify <r1.fastq> <r2.fastq>
//   bio-bam2fastq version
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/bamfastq/bam2fastq"
	"github.com/grailbio/bamfastq/encoding/bamprovider"
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/vcontext"
	"v.io/x/lib/cmdline"
)

const version = "1.1.0"

// negatedBool is the flag.Value behind -no-name. It shares its variable with
// -name, so whichever of the two appears last on the command line wins.
type negatedBool struct {
	v *bool
}

func (b negatedBool) String() string {
	if b.v == nil {
		return "false"
	}
	return strconv.FormatBool(!*b.v)
}

func (b negatedBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*b.v = !v
	return nil
}

func (b negatedBool) IsBoolFlag() bool { return true }

// boolFlags registers -name, defaulting to true, and its negation -no-name.
func boolFlags(fs *flag.FlagSet, v *bool, name, usage, negUsage string) {
	fs.BoolVar(v, name, true, usage)
	fs.Var(negatedBool{v}, "no-"+name, negUsage)
}

func printVersion(w io.Writer) error {
	_, err := fmt.Fprintf(w, "bio-bam2fastq v%s\n", version)
	return err
}

func newCmdConvert() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "convert",
		Short: "Convert a BAM or SAM file to FASTQ",
		Long: `
Convert extracts the reads of a BAM or SAM file into FASTQ. Paired reads are
written to two files so that the i'th entries of both files are mates; reads
without the paired flag, and mates whose partner never appears, go to a
third file. Names of the form "xxx1"/"xxx2" are accepted as mates unless
-strict is given.

The output template's first '%' is replaced by the lane number parsed from
the first read name, and its first '#' by _1, _2 or _M. Outputs ending in
.gz are gzip-compressed. Inputs and outputs may be s3:// paths. An input
path of "-" reads BAM from standard input.
`,
		ArgsName: "input",
	}
	var (
		template    string
		force       bool
		quiet       bool
		strict      bool
		toStdout    bool
		interleaved bool
		format      string
		parallelism int
		showVersion bool

		aligned, unaligned, filtered bool
	)
	for _, name := range []string{"o", "output"} {
		cmd.Flags.StringVar(&template, name, bam2fastq.DefaultOutputTemplate, "Output filename template")
	}
	for _, name := range []string{"f", "force", "overwrite"} {
		cmd.Flags.BoolVar(&force, name, false, "Overwrite existing output files")
	}
	for _, name := range []string{"q", "quiet"} {
		cmd.Flags.BoolVar(&quiet, name, false, "Suppress informational messages")
	}
	for _, name := range []string{"s", "strict"} {
		cmd.Flags.BoolVar(&strict, name, false, "Match mates by exact read name only")
	}
	// -v is taken by the global log verbosity flag.
	cmd.Flags.BoolVar(&showVersion, "version", false, "Print the version and exit")
	boolFlags(&cmd.Flags, &aligned, "aligned",
		"Export reads that are aligned", "Do not export reads that are aligned")
	boolFlags(&cmd.Flags, &unaligned, "unaligned",
		"Export reads that are not aligned", "Do not export reads that are not aligned")
	boolFlags(&cmd.Flags, &filtered, "filtered",
		"Export reads that failed vendor quality checks", "Do not export reads that failed vendor quality checks")
	cmd.Flags.BoolVar(&toStdout, "stdout", false, "Write every read to standard output, without pairing")
	cmd.Flags.BoolVar(&interleaved, "interleaved", false,
		"Write matched mates to standard output, read 1 first; unpaired reads go to the _M file")
	cmd.Flags.StringVar(&format, "format", "",
		"Input format, bam or sam. If empty, a .sam suffix selects sam and anything else bam")
	cmd.Flags.IntVar(&parallelism, "parallelism", 1, "Number of goroutines used to decompress BAM input")

	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if showVersion {
			return printVersion(env.Stdout)
		}
		if len(argv) != 1 {
			return env.UsageErrorf("convert takes one input path, but got %v", argv)
		}
		if toStdout && interleaved {
			return env.UsageErrorf("-stdout and -interleaved are mutually exclusive")
		}
		opts := bam2fastq.Opts{
			OutputTemplate:   template,
			Mode:             bam2fastq.Files,
			IncludeAligned:   aligned,
			IncludeUnaligned: unaligned,
			IncludeFiltered:  filtered,
			Strict:           strict,
			Overwrite:        force,
			Quiet:            quiet,
		}
		switch {
		case toStdout:
			opts.Mode = bam2fastq.Stdout
		case interleaved:
			opts.Mode = bam2fastq.Interleaved
		}
		providerOpts := bamprovider.ProviderOpts{Parallelism: parallelism}
		if format != "" {
			if providerOpts.FileType = bamprovider.ParseFileType(format); providerOpts.FileType == bamprovider.Unknown {
				return env.UsageErrorf("-format must be bam or sam, but got %q", format)
			}
		}
		_, err := convert(vcontext.Background(), &opts, providerOpts, argv[0], env.Stdout)
		return err
	})
	return cmd
}

func newCmdVerify() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "verify",
		Short:    "Check that two FASTQ files hold matching mates",
		ArgsName: "r1 r2",
		Long: `
Verify reads an R1 and an R2 FASTQ file, optionally gzip-compressed, and
checks that they hold the same number of reads and that the i'th reads of
both files have the same name once /1 and /2 suffixes are removed.
`,
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return env.UsageErrorf("verify takes two FASTQ paths, but got %v", argv)
		}
		n, err := verify(vcontext.Background(), argv[0], argv[1])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(env.Stdout, "%d pairs OK\n", n)
		return err
	})
	return cmd
}

func newCmdVersion() *cmdline.Command {
	return &cmdline.Command{
		Name:  "version",
		Short: "Print the version",
		Runner: cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
			return printVersion(env.Stdout)
		}),
	}
}

func newCmdRoot() *cmdline.Command {
	return &cmdline.Command{
		Name:     "bio-bam2fastq",
		Short:    "Extract FASTQ reads from BAM files",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdConvert(),
			newCmdVerify(),
			newCmdVersion(),
		},
	}
}

func main() {
	shutdown := grail.Init()
	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})
	cmdline.HideGlobalFlagsExcept()
	code := 0
	if err := cmdline.ParseAndRun(newCmdRoot(), cmdline.EnvFromOS(), os.Args[1:]); err != nil {
		code = cmdline.ExitCode(err, os.Stderr)
	}
	shutdown()
	os.Exit(code)
}
