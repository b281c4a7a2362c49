// aptmeta prints the capture metadata (station, pass time, operator
// notes) embedded in an archived WAV recording of an APT pass, if any.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/nimbusradio/aptdecode"
)

const missingPathMessage = "You must pass the path of the recording to inspect"

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errMissingPath) {
		fmt.Println(missingPathMessage)
		os.Exit(1)
	}

	log.Fatal(err)
}

var errMissingPath = errors.New("missing path argument")

func run(args []string, out io.Writer) (err error) {
	if len(args) < 1 {
		return errMissingPath
	}

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}

	defer func() {
		cerr := file.Close()
		if cerr != nil && err == nil {
			err = cerr
		}
	}()

	meta, err := apt.ReadWAVMetadata(file)
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}

	if meta == nil {
		_, _ = fmt.Fprintln(out, "No metadata present")
		return nil
	}

	_, _ = fmt.Fprintf(out, "Artist: %s\n", meta.Artist)
	_, _ = fmt.Fprintf(out, "Title: %s\n", meta.Title)
	_, _ = fmt.Fprintf(out, "Comments: %s\n", meta.Comments)
	_, _ = fmt.Fprintf(out, "Copyright: %s\n", meta.Copyright)
	_, _ = fmt.Fprintf(out, "CreationDate: %s\n", meta.CreationDate)
	_, _ = fmt.Fprintf(out, "Engineer: %s\n", meta.Engineer)
	_, _ = fmt.Fprintf(out, "Technician: %s\n", meta.Technician)
	_, _ = fmt.Fprintf(out, "Genre: %s\n", meta.Genre)
	_, _ = fmt.Fprintf(out, "Keywords: %s\n", meta.Keywords)
	_, _ = fmt.Fprintf(out, "Medium: %s\n", meta.Medium)
	_, _ = fmt.Fprintf(out, "Product: %s\n", meta.Product)
	_, _ = fmt.Fprintf(out, "Subject: %s\n", meta.Subject)
	_, _ = fmt.Fprintf(out, "Software: %s\n", meta.Software)
	_, _ = fmt.Fprintf(out, "Source: %s\n", meta.Source)
	_, _ = fmt.Fprintf(out, "Location: %s\n", meta.Location)
	_, _ = fmt.Fprintf(out, "TrackNbr: %s\n", meta.TrackNbr)

	if meta.BroadcastExtension != nil {
		_, _ = fmt.Fprintf(out, "Originator: %s\n", meta.BroadcastExtension.Originator)
		_, _ = fmt.Fprintf(out, "OriginationDate: %s\n", meta.BroadcastExtension.OriginationDate)
		_, _ = fmt.Fprintf(out, "OriginationTime: %s\n", meta.BroadcastExtension.OriginationTime)
		_, _ = fmt.Fprintf(out, "Description: %s\n", meta.BroadcastExtension.Description)
	}

	for i, c := range meta.CuePoints {
		_, _ = fmt.Fprintf(out, "\tcue point [%d]:\t%+v\n", i, c)
	}

	return nil
}
