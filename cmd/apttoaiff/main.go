// apttoaiff converts an archived WAV recording of the APT baseband
// signal into an AIFF file, for tools downstream of the receiver that
// expect an AIFF container. The output is written alongside the source.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/nimbusradio/aptdecode"
)

const missingPathMessage = "You must set the -path flag"

func main() {
	err := run(os.Args[1:], user.Current, os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errMissingPath) {
		fmt.Println(missingPathMessage)
		os.Exit(1)
	}

	if errors.Is(err, errResolveHomeDir) {
		log.Println("Failed to get the user home directory")
		os.Exit(1)
	}

	log.Fatal(err)
}

var (
	errMissingPath    = errors.New("missing -path flag")
	errResolveHomeDir = errors.New("failed to resolve current user")
)

func run(args []string, currentUser func() (*user.User, error), out io.Writer) error {
	fs := flag.NewFlagSet("apttoaiff", flag.ContinueOnError)

	pathFlag := fs.String("path", "", "The path to the WAV recording to convert to AIFF")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *pathFlag == "" {
		return errMissingPath
	}

	usr, err := currentUser()
	if err != nil {
		return errResolveHomeDir
	}

	sourcePath := *pathFlag
	if strings.HasPrefix(sourcePath, "~/") {
		sourcePath = strings.Replace(sourcePath, "~", usr.HomeDir, 1)
	}

	file, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("invalid path %s: %w", sourcePath, err)
	}
	defer file.Close()

	source, err := apt.NewWAVSource(file)
	if err != nil {
		return fmt.Errorf("invalid WAV file %s: %w", sourcePath, err)
	}

	outPath := sourcePath[:len(sourcePath)-len(filepath.Ext(sourcePath))] + ".aif"

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer outFile.Close()

	writer := apt.NewAIFFWriter(outFile, source.SampleRate())

	// ReadSamples only ever returns an exact fill or a clean io.EOF, so a
	// single-sample buffer is the only size guaranteed not to straddle the
	// end of the stream.
	var sample [1]int16
	for {
		_, err := source.ReadSamples(sample[:])
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return fmt.Errorf("failed to read source samples: %w", err)
		}

		if err := writer.WriteSamples(sample[:]); err != nil {
			return fmt.Errorf("failed to write AIFF data: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close AIFF encoder: %w", err)
	}

	fmt.Fprintf(out, "WAV file converted to %s\n", outPath)

	return nil
}
