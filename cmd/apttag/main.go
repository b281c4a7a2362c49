// apttag injects capture metadata (station, pass time, operator notes)
// into an archived WAV recording of an APT pass, writing a tagged copy
// rather than mutating the original. All tagged files are written
// alongside the source, in an apttag subdirectory.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nimbusradio/aptdecode"
)

var (
	flagFileToTag   = flag.String("file", "", "Path to the recording to tag")
	flagDirToTag    = flag.String("dir", "", "Directory containing all the recordings to tag")
	flagTitleRegexp = flag.String("regexp", "", `submatch regexp to use to set the title dynamically by extracting it from the filename (ignoring the extension), example: 'noaa19_\d\d_(.*)'`)
	//
	flagTitle     = flag.String("title", "", "Pass title, e.g. satellite and orbit number")
	flagArtist    = flag.String("artist", "", "Receiving station or operator")
	flagComments  = flag.String("comments", "", "Free-form operator notes")
	flagCopyright = flag.String("copyright", "", "Copyright / usage notice")
	flagGenre     = flag.String("genre", "", "Pass category, e.g. weather or experimental")
)

func main() {
	flag.Parse()

	if *flagFileToTag == "" && *flagDirToTag == "" {
		fmt.Println("You need to pass -file or -dir to indicate what file or folder content to tag.")
		os.Exit(1)
	}

	if *flagFileToTag != "" {
		if err := tagFile(*flagFileToTag); err != nil {
			fmt.Printf("Something went wrong when tagging %s - error: %v\n", *flagFileToTag, err)
			os.Exit(1)
		}
	}

	if *flagDirToTag != "" {
		var filePath string

		fileInfos, _ := os.ReadDir(*flagDirToTag)
		for _, fi := range fileInfos {
			if strings.HasPrefix(strings.ToLower(filepath.Ext(fi.Name())), ".wav") {
				filePath = filepath.Join(*flagDirToTag, fi.Name())

				if err := tagFile(filePath); err != nil {
					fmt.Printf("Something went wrong tagging %s - %v\n", filePath, err)
				}
			}
		}
	}
}

func tagFile(path string) (err error) {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s - %w", path, err)
	}

	defer in.Close()

	outputDir := filepath.Join(filepath.Dir(path), "apttag")
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	outPath := filepath.Join(outputDir, filepath.Base(path))

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("couldn't create %s %w", outPath, err)
	}

	defer func() {
		cerr := out.Close()
		if cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	meta := &apt.Metadata{}

	if *flagArtist != "" {
		meta.Artist = *flagArtist
	}

	if *flagTitleRegexp != "" {
		filename := filepath.Base(path)
		filename = filename[:len(filename)-len(filepath.Ext(path))]
		re := regexp.MustCompile(*flagTitleRegexp)

		matches := re.FindStringSubmatch(filename)
		if len(matches) > 0 {
			meta.Title = matches[1]
		} else {
			fmt.Printf("No matches for title regexp %s in %s\n", *flagTitleRegexp, filename)
		}
	}

	if *flagTitle != "" {
		meta.Title = *flagTitle
	}

	if *flagComments != "" {
		meta.Comments = *flagComments
	}

	if *flagCopyright != "" {
		meta.Copyright = *flagCopyright
	}

	if *flagGenre != "" {
		meta.Genre = *flagGenre
	}

	if err := apt.TagWAV(in, out, meta); err != nil {
		return fmt.Errorf("failed to tag %s: %w", path, err)
	}

	fmt.Println("Tagged file available at", outPath)

	return nil
}
