// aptgen synthesizes a baseband APT signal: a 2400 Hz AM carrier modulated
// by a repeating sync train, a flat gray video field, and a calibration
// wedge staircase in the telemetry column. It exists so the decoder and
// its tests can exercise the full pipeline without a real satellite
// recording.
package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/nimbusradio/aptdecode"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) (err error) {
	fs := flag.NewFlagSet("aptgen", flag.ContinueOnError)

	output := fs.String("output", "synthetic.raw", "file to write headerless 16-bit PCM to")
	sampleRate := fs.Uint("rate", 11025, "sample rate in Hz (must not be a multiple of 4800)")
	lines := fs.Uint("lines", uint(apt.WedgeLines*2), "number of scan lines to generate per channel")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	file, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", *output, err)
	}

	defer func() {
		cerr := file.Close()
		if cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	w := bufio.NewWriter(file)

	if err := generate(w, uint32(*sampleRate), int(*lines)); err != nil {
		return err
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	log.Printf("wrote %d lines at %d Hz to %s", *lines, *sampleRate, *output)

	return nil
}

// generate emits one synthetic frame per call of the scheduler's 4.5 line
// layout: a sync train, then ChannelWords words of video for channel A,
// then the same for channel B, repeated for the requested number of
// lines. The telemetry column steps up one level every wedge-tall block
// of lines (8), through 8 levels from 2000 to 30000, and starts again
// after 8 blocks (twice per 128-line frame), so a decode of the output
// has a real wedge staircase to find.
func generate(w *bufio.Writer, sampleRate uint32, lines int) error {
	phase := 0.0
	phaseStep := 2 * math.Pi * apt.CarrierFreq / float64(sampleRate)

	emit := func(amp float64) error {
		v := int16(amp * math.Sin(phase))
		phase += phaseStep

		return binary.Write(w, binary.LittleEndian, v)
	}

	emitWord := func(amp float64) error {
		n := sampleRate / apt.WordFreq
		for i := uint32(0); i < n; i++ {
			if err := emit(amp); err != nil {
				return err
			}
		}

		return nil
	}

	emitSync := func() error {
		pulseSamples := sampleRate / apt.SyncPulseFreq
		for cycle := 0; cycle < 7; cycle++ {
			for i := uint32(0); i < pulseSamples/2; i++ {
				if err := emit(30000); err != nil {
					return err
				}
			}

			for i := pulseSamples / 2; i < pulseSamples; i++ {
				if err := emit(1000); err != nil {
					return err
				}
			}
		}

		// Remaining sync words pad out to SyncWords total: each of the 7
		// cycles spans WordFreq/SyncPulseFreq words.
		padWords := apt.SyncWords - 7*(apt.WordFreq/apt.SyncPulseFreq)
		for i := 0; i < padWords; i++ {
			if err := emitWord(1000); err != nil {
				return err
			}
		}

		return nil
	}

	emitChannel := func(line int) error {
		for i := 0; i < apt.SpaceWords+apt.ChannelDataWords; i++ {
			if err := emitWord(20000); err != nil {
				return err
			}
		}

		wedge := (line / 8) % apt.WedgeCount
		level := 2000 + float64(wedge%8)*((30000-2000)/7)

		for i := 0; i < apt.TelemetryWords; i++ {
			if err := emitWord(level); err != nil {
				return err
			}
		}

		return nil
	}

	for line := 0; line < lines; line++ {
		if err := emitSync(); err != nil {
			return err
		}

		if err := emitChannel(line); err != nil {
			return err
		}

		if err := emitSync(); err != nil {
			return err
		}

		if err := emitChannel(line); err != nil {
			return err
		}
	}

	return nil
}
