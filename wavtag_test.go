package apt

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteWAVThenReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.wav")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	samples := make([]int16, 1000)
	for i := range samples {
		samples[i] = int16(i*13 - 5000)
	}

	meta := &Metadata{Artist: "KB9XYZ", Title: "NOAA-19 pass"}

	if err := WriteWAV(f, 11025, samples, meta); err != nil {
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

	dec := newWAVDecoder(in)

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer: %v", err)
	}

	if len(buf.Data) != len(samples) {
		t.Fatalf("got %d samples, want %d", len(buf.Data), len(samples))
	}

	for i, s := range samples {
		want := normalizePCMInt(int(s), 16)
		if !float32ApproxEqual(buf.Data[i], want, 1e-3) {
			t.Fatalf("sample[%d]=%f, want ~%f", i, buf.Data[i], want)
		}
	}

	if dec.Metadata == nil || dec.Metadata.Artist != "KB9XYZ" || dec.Metadata.Title != "NOAA-19 pass" {
		t.Fatalf("unexpected metadata: %+v", dec.Metadata)
	}
}

func TestWriteWAVNilMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "untagged.wav")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := WriteWAV(f, 8000, []int16{1, 2, 3}, nil); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestTagWAVCopiesAudioAndAttachesMetadata(t *testing.T) {
	srcPath := filepath.Join(t.TempDir(), "source.wav")
	writeSyntheticWAV(t, srcPath, 22050, 16, 1, []float32{0, 0.2, -0.2, 0.4, -0.4})

	in, err := os.Open(srcPath)
	if err != nil {
		t.Fatalf("open source: %v", err)
	}
	defer in.Close()

	outPath := filepath.Join(t.TempDir(), "tagged.wav")

	out, err := os.Create(outPath)
	if err != nil {
		t.Fatalf("create out: %v", err)
	}

	meta := &Metadata{Comments: "re-tagged pass"}

	if err := TagWAV(in, out, meta); err != nil {
		t.Fatalf("TagWAV: %v", err)
	}

	if err := out.Close(); err != nil {
		t.Fatalf("close out: %v", err)
	}

	verify, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("reopen tagged file: %v", err)
	}
	defer verify.Close()

	dec := newWAVDecoder(verify)

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer: %v", err)
	}

	if len(buf.Data) != 5 {
		t.Fatalf("got %d samples, want 5", len(buf.Data))
	}

	if dec.Metadata == nil || dec.Metadata.Comments != "re-tagged pass" {
		t.Fatalf("unexpected metadata: %+v", dec.Metadata)
	}
}
