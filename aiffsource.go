package apt

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
)

// AIFFSource adapts an AIFF-contained recording into a SampleSource, the
// big-endian integer-PCM counterpart to WAVSource. Grounded on the
// teacher's go-audio/aiff usage in cmd/apttoaiff (formerly cmd/wavtoaiff),
// generalized here from a one-shot conversion tool into a reusable
// decode-time input.
type AIFFSource struct {
	dec *aiff.Decoder
	buf *audio.IntBuffer

	pending []int16
}

// NewAIFFSource opens an AIFF file as a SampleSource. The file must carry
// mono, 16-bit PCM, matching the single baseband channel the decoder
// expects.
func NewAIFFSource(r io.ReadSeeker) (*AIFFSource, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid AIFF file", ErrIO)
	}

	if dec.NumChans != 1 {
		return nil, fmt.Errorf("%w: AIFF source must be mono, got %d channels", ErrConfig, dec.NumChans)
	}

	if dec.BitDepth != 16 {
		return nil, fmt.Errorf("%w: AIFF source must be 16-bit PCM, got %d-bit", ErrConfig, dec.BitDepth)
	}

	format := &audio.Format{NumChannels: 1, SampleRate: int(dec.SampleRate)}

	return &AIFFSource{
		dec: dec,
		buf: &audio.IntBuffer{Data: make([]int, 32768), Format: format, SourceBitDepth: 16},
	}, nil
}

// SampleRate reports the recording's sample rate.
func (s *AIFFSource) SampleRate() uint32 { return uint32(s.dec.SampleRate) }

// ReadSamples implements SampleSource.
func (s *AIFFSource) ReadSamples(buf []int16) (int, error) {
	for len(s.pending) < len(buf) {
		n, err := s.dec.PCMBuffer(s.buf)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrIO, err)
		}

		if n == 0 {
			if len(s.pending) == 0 {
				return 0, io.EOF
			}

			return 0, fmt.Errorf("%w: AIFF source exhausted mid-read (%d of %d samples)", ErrIO, len(s.pending), len(buf))
		}

		for _, v := range s.buf.Data[:n] {
			s.pending = append(s.pending, int16(v))
		}
	}

	copy(buf, s.pending[:len(buf)])
	s.pending = s.pending[len(buf):]

	return len(buf), nil
}
