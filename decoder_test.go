package apt

import (
	"errors"
	"io"
	"testing"
)

// zeroSource emits n silent (zero) samples, then io.EOF.
type zeroSource struct {
	remaining int
}

func (s *zeroSource) ReadSamples(buf []int16) (int, error) {
	if s.remaining < len(buf) {
		return 0, io.EOF
	}

	for i := range buf {
		buf[i] = 0
	}

	s.remaining -= len(buf)

	return len(buf), nil
}

// TestDecoderSilentInput checks spec.md 8 scenario 1: a silent input
// terminates cleanly and leaves both channels at equal, non-negative
// heights with uniform near-zero pixels.
func TestDecoderSilentInput(t *testing.T) {
	const sampleRate = 11025

	d, err := NewDecoder(sampleRate, nil)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	src := &zeroSource{remaining: sampleRate * 5}

	if err := d.Run(src); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if d.ChannelA().Height() != d.ChannelB().Height() {
		t.Fatalf("channel heights differ: A=%d B=%d", d.ChannelA().Height(), d.ChannelB().Height())
	}

	if d.ChannelA().Height() == 0 {
		t.Fatalf("expected at least one line decoded from 5s of silence")
	}

	for row := 0; row < d.ChannelA().Height(); row++ {
		for col := 0; col < ChannelWords; col++ {
			if v := d.ChannelA().Pixel(row, col); v > 4 {
				t.Fatalf("expected near-zero pixel on silent input, got %d at (%d,%d)", v, row, col)
			}
		}
	}

	if err := d.ChannelA().DetectTelemetry(); err == nil {
		t.Fatalf("expected telemetry detection to fail on silent input")
	}
}

// TestDecoderLineAppendAtomicity checks spec.md 8's invariant that channel
// A and channel B heights stay equal after every completed iteration.
func TestDecoderLineAppendAtomicity(t *testing.T) {
	const sampleRate = 11025

	d, err := NewDecoder(sampleRate, nil)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	src := &zeroSource{remaining: sampleRate * 20}

	if err := d.Run(src); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if d.ChannelA().Height() != d.ChannelB().Height() {
		t.Fatalf("heights diverged: A=%d B=%d", d.ChannelA().Height(), d.ChannelB().Height())
	}
}

// TestDecoderShortReadIsIOError checks spec.md 7: a mid-chunk short read
// (neither a full fill nor a clean io.EOF) is a fatal I/O error distinct
// from end of stream.
type shortOnceSource struct {
	served bool
}

func (s *shortOnceSource) ReadSamples(buf []int16) (int, error) {
	if s.served {
		return 0, io.EOF
	}

	s.served = true

	return 0, io.ErrUnexpectedEOF
}

func TestDecoderShortReadIsIOError(t *testing.T) {
	d, err := NewDecoder(11025, nil)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	err = d.Run(&shortOnceSource{})
	if err == nil {
		t.Fatalf("expected an error from a mid-chunk short read")
	}

	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

// suffixThenEOFSource fills its first ReadSamples call in full, then
// reports a clean io.EOF on every call after - modeling a stream that ends
// exactly at the boundary fillInput splits a wrapped fill into.
type suffixThenEOFSource struct {
	calls int
}

func (s *suffixThenEOFSource) ReadSamples(buf []int16) (int, error) {
	s.calls++
	if s.calls == 1 {
		for i := range buf {
			buf[i] = 1
		}

		return len(buf), nil
	}

	return 0, io.EOF
}

// TestFillInputWrappedPartialFillThenEOFIsIOError checks spec.md 7: if a
// ring-wrap fill's suffix half succeeds but the prefix half then hits
// io.EOF, samples were genuinely consumed this call, so it must surface as
// a fatal ErrIO rather than collapse into a clean end of stream.
func TestFillInputWrappedPartialFillThenEOFIsIOError(t *testing.T) {
	const sampleRate = 11025

	d, err := NewDecoder(sampleRate, nil)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	// Position the fill cursor 100 samples from the end of the ring so the
	// next fillInput call has plenty of free space but must wrap: a
	// suffix read of 100 samples followed by a prefix read from offset 0.
	d.npos = d.ring.len - 100
	d.pos = d.npos

	_, err = d.fillInput(&suffixThenEOFSource{})
	if err == nil {
		t.Fatalf("expected an error when the prefix half of a wrapped fill hits EOF after the suffix half succeeded")
	}

	if errors.Is(err, io.EOF) {
		t.Fatalf("a partial wrapped fill must not be reported as a clean end of stream, got %v", err)
	}

	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}
