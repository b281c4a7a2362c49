package apt

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
)

// WriteWAV writes samples as a mono 16-bit PCM WAV file, attaching meta
// as bext/cart/LIST metadata if non-nil. It is the archival counterpart
// to NewWAVSource: a captured or synthesized baseband recording can be
// saved with its provenance alongside the samples instead of as
// headerless PCM.
func WriteWAV(w io.WriteSeeker, sampleRate uint32, samples []int16, meta *Metadata) error {
	enc := newWAVEncoder(w, int(sampleRate), 16, 1, wavFormatPCM)
	enc.Metadata = meta

	data := make([]float32, len(samples))
	for i, s := range samples {
		data[i] = normalizePCMInt(int(s), 16)
	}

	buf := &audio.Float32Buffer{
		Format: &audio.Format{NumChannels: 1, SampleRate: int(sampleRate)},
		Data:   data,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("%w: failed to write WAV audio: %w", ErrIO, err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: failed to finalize WAV file: %w", ErrIO, err)
	}

	return nil
}

// TagWAV copies the PCM data from in into out, attaching meta as the
// output file's bext/cart/LIST metadata. It is the library entry point
// behind cmd/apttag: rather than mutating a capture in place, it produces
// a tagged copy so the original recording is never at risk, matching the
// teacher's wavtagger tool's copy-first design.
func TagWAV(in io.ReadSeeker, out io.WriteSeeker, meta *Metadata) (err error) {
	dec := newWAVDecoder(in)

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return fmt.Errorf("%w: failed to read source PCM: %w", ErrIO, err)
	}

	enc := newWAVEncoder(out, buf.Format.SampleRate, int(dec.BitDepth), buf.Format.NumChannels, int(dec.WavAudioFormat))
	enc.Metadata = meta

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("%w: failed to write tagged audio: %w", ErrIO, err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: failed to finalize tagged file: %w", ErrIO, err)
	}

	return nil
}
