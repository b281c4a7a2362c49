// aptdecode turns a recording of an Automatic Picture Transmission pass
// into PGM images of its two channels. The input may be headerless raw
// PCM (the default, requiring -r), or a WAV/AIFF file carrying its own
// sample rate, in which case -r may be omitted.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/nimbusradio/aptdecode"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stderr))
}

// run implements the CLI of spec.md section 6, returning the process exit
// code directly (0 on success, 1 on any error) rather than an error value,
// since that mapping is the entirety of main's job here.
func run(args []string, stdin io.Reader, stderr io.Writer) int {
	fs := flag.NewFlagSet("aptdecode", flag.ContinueOnError)
	fs.SetOutput(stderr)

	rate := fs.Uint("r", 0, "sample rate in Hz (required for headerless input; must not be a multiple of 4800)")
	outA := fs.String("a", "", "write channel A to PATH")
	outB := fs.String("b", "", "write channel B to PATH")
	normalize := fs.Bool("n", false, "apply contrast normalization before writing")
	verbose := fs.Bool("v", false, "enable progress messages on standard error")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(stderr, "", 0)
	}

	var (
		input      io.Reader = struct{ io.Reader }{stdin}
		sampleRate           = uint32(*rate)
		closer     io.Closer
	)

	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", fs.Arg(0), err)
			return 1
		}

		input = f
		closer = f
	}

	if closer != nil {
		defer closer.Close()
	}

	src, detectedRate, err := openSource(input, sampleRate)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	if detectedRate != 0 {
		sampleRate = detectedRate
	}

	dec, err := apt.NewDecoder(sampleRate, logger)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	if err := dec.Run(src); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	failed := false

	if *outA != "" {
		if err := writeChannel(dec.ChannelA(), *outA, *normalize); err != nil {
			fmt.Fprintf(stderr, "channel A: %v\n", err)
			failed = true
		}
	}

	if *outB != "" {
		if err := writeChannel(dec.ChannelB(), *outB, *normalize); err != nil {
			fmt.Fprintf(stderr, "channel B: %v\n", err)
			failed = true
		}
	}

	if failed {
		return 1
	}

	return 0
}

// openSource picks a SampleSource for input. A seekable input is sniffed
// as WAV then AIFF before falling back to headerless raw PCM, so a
// recording archived by SDR software can skip -r entirely; stdin, which
// cannot be rewound, is always treated as headerless and requires rate
// to be set.
func openSource(input io.Reader, rate uint32) (apt.SampleSource, uint32, error) {
	seeker, ok := input.(io.ReadSeeker)
	if !ok {
		if rate == 0 {
			return nil, 0, fmt.Errorf("%w: -r is required for headerless (stdin) input", apt.ErrConfig)
		}

		return apt.NewRawPCMSource(input), 0, nil
	}

	if wavSrc, err := apt.NewWAVSource(seeker); err == nil {
		return wavSrc, wavSrc.SampleRate(), nil
	}

	if _, err := seeker.Seek(0, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", apt.ErrIO, err)
	}

	if aiffSrc, err := apt.NewAIFFSource(seeker); err == nil {
		return aiffSrc, aiffSrc.SampleRate(), nil
	}

	if _, err := seeker.Seek(0, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", apt.ErrIO, err)
	}

	if rate == 0 {
		return nil, 0, fmt.Errorf("%w: -r is required for headerless input", apt.ErrConfig)
	}

	return apt.NewRawPCMSource(seeker), 0, nil
}

func writeChannel(ch *apt.Channel, path string, normalize bool) (err error) {
	if normalize {
		if err := ch.DetectTelemetry(); err != nil {
			return err
		}

		if err := ch.Normalize(); err != nil {
			return err
		}
	}

	f, openErr := os.Create(path)
	if openErr != nil {
		return fmt.Errorf("%w: %w", apt.ErrIO, openErr)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if writeErr := ch.WritePGM(f); writeErr != nil {
		return writeErr
	}

	return nil
}
