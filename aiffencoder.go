package apt

import (
	"io"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
)

// AIFFWriter archives a raw or decoded APT sample stream into an AIFF
// container, so a pass captured as headerless PCM can be converted to a
// format that carries its own sample rate and channel count. Grounded on
// the teacher's cmd/wavtoaiff conversion tool, generalized from a WAV-only
// converter into a general sink any SampleSource-shaped producer can
// write through.
type AIFFWriter struct {
	enc *aiff.Encoder
	buf *audio.IntBuffer
}

// NewAIFFWriter opens w for writing mono, 16-bit PCM at sampleRate.
func NewAIFFWriter(w io.WriteSeeker, sampleRate uint32) *AIFFWriter {
	enc := aiff.NewEncoder(w, int(sampleRate), 16, 1)

	return &AIFFWriter{
		enc: enc,
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 1, SampleRate: int(sampleRate)},
			SourceBitDepth: 16,
		},
	}
}

// WriteSamples appends signed 16-bit PCM samples to the AIFF data chunk.
func (w *AIFFWriter) WriteSamples(samples []int16) error {
	w.buf.Data = w.buf.Data[:0]
	for _, s := range samples {
		w.buf.Data = append(w.buf.Data, int(s))
	}

	return w.enc.Write(w.buf)
}

// Close finalizes the AIFF container, writing its final chunk sizes.
func (w *AIFFWriter) Close() error {
	return w.enc.Close()
}
