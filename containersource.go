package apt

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
)

// WAVSource adapts a WAV-contained recording of the pre-demodulated
// baseband signal into a SampleSource, so an APT recording archived with
// its capture metadata (station, pass time, receiver notes — see
// WAVMetadata) can be decoded directly instead of requiring a prior
// conversion to headerless PCM. Grounded on the teacher's wavDecoder /
// PCMBuffer pipeline (containerdecoder.go), repurposed here as the
// decoder's input boundary rather than a general-purpose audio library
// entry point.
type WAVSource struct {
	dec *wavDecoder
	buf *audio.Float32Buffer

	pending []int16
}

// NewWAVSource opens a WAV file as a SampleSource. The file must carry a
// single-channel PCM stream; anything else is rejected, since the APT
// decoder only ever reads one baseband channel.
func NewWAVSource(r io.ReadSeeker) (*WAVSource, error) {
	dec := newWAVDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAV file", ErrIO)
	}

	if dec.NumChans != 1 {
		return nil, fmt.Errorf("%w: WAV source must be mono, got %d channels", ErrConfig, dec.NumChans)
	}

	format := &audio.Format{NumChannels: 1, SampleRate: int(dec.SampleRate)}

	return &WAVSource{
		dec: dec,
		buf: &audio.Float32Buffer{Data: make([]float32, 32768), Format: format},
	}, nil
}

// SampleRate reports the recording's sample rate, for passing straight to
// NewDecoder.
func (s *WAVSource) SampleRate() uint32 { return s.dec.SampleRate }

// ReadWAVMetadata reads a WAV file's bext/cart/LIST/smpl/cue metadata
// without requiring it be a valid decode source (mono, PCM): it is used
// by inspection tools such as cmd/aptmeta that only care about
// provenance, not the samples themselves.
func ReadWAVMetadata(r io.ReadSeeker) (*Metadata, error) {
	dec := newWAVDecoder(r)

	dec.ReadMetadata()

	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	return dec.Metadata, nil
}

// Metadata exposes the recording's bext/cart/LIST metadata, if any, for
// callers that want to print provenance (station, pass time, operator
// notes) before decoding. Nil if the file carried none.
func (s *WAVSource) Metadata() *Metadata { return s.dec.Metadata }

// ReadSamples implements SampleSource by pulling PCM float buffers from
// the container and quantizing them back to signed 16-bit, matching the
// fixed-point domain the rest of the decoder operates in.
func (s *WAVSource) ReadSamples(buf []int16) (int, error) {
	for len(s.pending) < len(buf) {
		n, err := s.dec.PCMBuffer(s.buf)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrIO, err)
		}

		if n == 0 {
			if len(s.pending) == 0 {
				return 0, io.EOF
			}

			return 0, fmt.Errorf("%w: WAV source exhausted mid-read (%d of %d samples)", ErrIO, len(s.pending), len(buf))
		}

		for _, v := range s.buf.Data[:n] {
			s.pending = append(s.pending, int16(float32ToPCMInt32(v, 16)))
		}
	}

	copy(buf, s.pending[:len(buf)])
	s.pending = s.pending[len(buf):]

	return len(buf), nil
}
