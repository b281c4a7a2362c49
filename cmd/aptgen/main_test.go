package main

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/nimbusradio/aptdecode"
)

func TestRunGeneratesDecodablePCM(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "synthetic.raw")

	const sampleRate = 11025

	err := run([]string{"-output", outPath, "-rate", "11025", "-lines", "16"})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	fi, err := os.Stat(outPath)
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}

	if fi.Size() == 0 {
		t.Fatalf("generated file is empty")
	}

	if fi.Size()%2 != 0 {
		t.Fatalf("generated file size %d is not a whole number of 16-bit samples", fi.Size())
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("open generated file: %v", err)
	}
	defer f.Close()

	dec, err := apt.NewDecoder(sampleRate, nil)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	if err := dec.Run(apt.NewRawPCMSource(f)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if dec.ChannelA().Height() == 0 {
		t.Fatalf("expected at least one decoded line on channel A")
	}
}

func TestRunFlagParseError(t *testing.T) {
	err := run([]string{"-rate", "not-a-number"})
	if err == nil {
		t.Fatalf("expected failure for invalid flag value")
	}
}

func TestNewDecoderRejectsGeneratedMultipleOf4800(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "synthetic.raw")

	if err := run([]string{"-output", outPath, "-rate", "9600", "-lines", "1"}); err != nil {
		t.Fatalf("generation should not itself validate decodability: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("open generated file: %v", err)
	}
	defer f.Close()

	if _, err := apt.NewDecoder(9600, nil); err == nil {
		t.Fatalf("expected NewDecoder to reject a sample rate that is a multiple of 4800")
	}

	var discard int16
	_ = binary.Read(f, binary.LittleEndian, &discard)
}
