package apt

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestNewWAVSourceRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	if err := os.WriteFile(path, []byte("not a riff"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	if _, err := NewWAVSource(f); err == nil {
		t.Fatalf("expected an error opening a non-WAV file")
	}
}

func TestNewWAVSourceRejectsStereo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	writeSyntheticWAV(t, path, 11025, 16, 2, []float32{0, 0, 0.1, -0.1})

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	if _, err := NewWAVSource(f); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig for a stereo source, got %v", err)
	}
}

func TestWAVSourceReadSamplesExactAndEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.wav")

	samples := make([]float32, 256)
	for i := range samples {
		samples[i] = float32(i%100) / 100
	}

	writeSyntheticWAV(t, path, 11025, 16, 1, samples)

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	src, err := NewWAVSource(f)
	if err != nil {
		t.Fatalf("NewWAVSource: %v", err)
	}

	if src.SampleRate() != 11025 {
		t.Fatalf("SampleRate=%d, want 11025", src.SampleRate())
	}

	var got []int16
	buf := make([]int16, 64)

	for {
		n, err := src.ReadSamples(buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			t.Fatalf("ReadSamples: %v", err)
		}

		got = append(got, buf[:n]...)
	}

	if len(got) != len(samples) {
		t.Fatalf("got %d samples, want %d", len(got), len(samples))
	}
}

func TestReadWAVMetadataNilWhenAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "untagged.wav")
	writeSyntheticWAV(t, path, 8000, 16, 1, []float32{0, 0.1})

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	meta, err := ReadWAVMetadata(f)
	if err != nil {
		t.Fatalf("ReadWAVMetadata: %v", err)
	}

	if meta != nil {
		t.Fatalf("expected nil metadata for an untagged file, got %+v", meta)
	}
}

func TestReadWAVMetadataReturnsTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagged.wav")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := WriteWAV(f, 8000, []int16{0, 1, 2, 3}, &Metadata{Artist: "Ground Station", Title: "Pass"}); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	in, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer in.Close()

	meta, err := ReadWAVMetadata(in)
	if err != nil {
		t.Fatalf("ReadWAVMetadata: %v", err)
	}

	if meta == nil || meta.Artist != "Ground Station" || meta.Title != "Pass" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}
