package main

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nimbusradio/aptdecode"
)

// writeSyntheticRecording emits the same structurally valid APT signal
// cmd/aptgen produces: a 1040 Hz sync train followed by ChannelWords
// words of carrier, repeated for lines on both channels.
func writeSyntheticRecording(t *testing.T, path string, sampleRate uint32, lines int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	phase := 0.0
	phaseStep := 2 * math.Pi * apt.CarrierFreq / float64(sampleRate)

	emit := func(amp float64) {
		v := int16(amp * math.Sin(phase))
		phase += phaseStep
		_ = binary.Write(f, binary.LittleEndian, v)
	}

	emitWord := func(amp float64) {
		n := sampleRate / apt.WordFreq
		for i := uint32(0); i < n; i++ {
			emit(amp)
		}
	}

	emitSync := func() {
		pulseSamples := sampleRate / apt.SyncPulseFreq
		for cycle := 0; cycle < 7; cycle++ {
			for i := uint32(0); i < pulseSamples/2; i++ {
				emit(30000)
			}

			for i := pulseSamples / 2; i < pulseSamples; i++ {
				emit(1000)
			}
		}

		padWords := apt.SyncWords - 7*(apt.WordFreq/apt.SyncPulseFreq)
		for i := 0; i < padWords; i++ {
			emitWord(1000)
		}
	}

	emitChannel := func(line int) {
		for i := 0; i < apt.SpaceWords+apt.ChannelDataWords; i++ {
			emitWord(20000)
		}

		wedge := (line / 8) % apt.WedgeCount
		level := 2000 + float64(wedge%8)*((30000-2000)/7)

		for i := 0; i < apt.TelemetryWords; i++ {
			emitWord(level)
		}
	}

	for line := 0; line < lines; line++ {
		emitSync()
		emitChannel(line)
		emitSync()
		emitChannel(line)
	}
}

func TestRunDecodesRawPCMToPGM(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "pass.raw")
	writeSyntheticRecording(t, inPath, 11025, 4)

	outA := filepath.Join(dir, "a.pgm")
	outB := filepath.Join(dir, "b.pgm")

	var stderr bytes.Buffer
	code := run([]string{"-r", "11025", "-a", outA, "-b", outB, inPath}, strings.NewReader(""), &stderr)
	if code != 0 {
		t.Fatalf("run exit code=%d, stderr=%s", code, stderr.String())
	}

	for _, p := range []string{outA, outB} {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}

		if !strings.HasPrefix(string(data), "P2 ") {
			t.Fatalf("%s does not start with a PGM header: %q", p, string(data[:20]))
		}
	}
}

func TestRunRequiresRateForHeaderlessStdin(t *testing.T) {
	var stderr bytes.Buffer
	code := run(nil, strings.NewReader("not enough data"), &stderr)
	if code == 0 {
		t.Fatalf("expected nonzero exit without -r on stdin input")
	}

	if !strings.Contains(stderr.String(), "configuration error") {
		t.Fatalf("expected a configuration error message, got %q", stderr.String())
	}
}

func TestRunRejectsBadSampleRate(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "pass.raw")
	writeSyntheticRecording(t, inPath, 9600, 1)

	var stderr bytes.Buffer
	code := run([]string{"-r", "9600", inPath}, strings.NewReader(""), &stderr)
	if code == 0 {
		t.Fatalf("expected nonzero exit for a sample rate that is a multiple of 4800")
	}
}

func TestRunFlagParseError(t *testing.T) {
	var stderr bytes.Buffer
	code := run([]string{"-unknown-flag"}, strings.NewReader(""), &stderr)
	if code == 0 {
		t.Fatalf("expected nonzero exit for an unrecognized flag")
	}
}

func TestRunMissingInputFile(t *testing.T) {
	var stderr bytes.Buffer
	code := run([]string{"-r", "11025", filepath.Join(t.TempDir(), "missing.raw")}, strings.NewReader(""), &stderr)
	if code == 0 {
		t.Fatalf("expected nonzero exit for a missing input file")
	}
}
