package apt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
)

// Decoder is the APT decoder: given a sample rate and a blocking sample
// source, it runs the sync/lock/line-sampling state machine (spec.md 4.5)
// and accumulates two grayscale channels. A Decoder is constructed once
// and consumed by a single call to Run.
type Decoder struct {
	sr uint32

	ring *ringBuffer
	amp  amplitudeEstimator
	sync syncDetector
	lock lockTracker

	pos  uint32
	npos uint32

	a, b Channel

	logger *log.Logger
}

// NewDecoder constructs a Decoder for the given sample rate. logger
// receives progress messages ("Acquired lock"/"Lost lock"); pass
// log.New(io.Discard, "", 0) (or nil) for silence. sampleRate must be
// positive and not a multiple of 4800 Hz; at 4800 Hz itself the carrier
// phase estimator's sin(phi) term is zero.
func NewDecoder(sampleRate uint32, logger *log.Logger) (*Decoder, error) {
	if sampleRate == 0 || sampleRate%4800 == 0 {
		return nil, fmt.Errorf("%w: %w (got %d)", ErrConfig, ErrSampleRate, sampleRate)
	}

	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	d := &Decoder{
		sr:     sampleRate,
		ring:   newRingBuffer(sampleRate),
		amp:    newAmplitudeEstimator(sampleRate),
		sync:   newSyncDetector(sampleRate),
		logger: logger,
	}

	return d, nil
}

// ChannelA returns the decoder's channel A line store.
func (d *Decoder) ChannelA() *Channel { return &d.a }

// ChannelB returns the decoder's channel B line store.
func (d *Decoder) ChannelB() *Channel { return &d.b }

// Locked reports whether the scheduler currently believes sync pulses are
// being tracked consistently.
func (d *Decoder) Locked() bool { return d.lock.Locked() }

// SampleSource supplies raw little-endian signed 16-bit PCM samples. It
// models the blocking byte-stream contract of spec.md section 6: a read
// must fill buf completely or report io.EOF with zero samples filled (a
// clean end of stream). Any other short read is a caller-visible error.
type SampleSource interface {
	// ReadSamples fills buf completely, returning (len(buf), nil) on
	// success. On a clean end of stream it returns (0, io.EOF). Any other
	// error, including a partial fill, is fatal to the decode.
	ReadSamples(buf []int16) (int, error)
}

// RawPCMSource reads headerless little-endian signed 16-bit mono PCM
// samples from r, the decoder's primary input contract (spec.md section
// 6).
type RawPCMSource struct {
	r   io.Reader
	buf []byte
}

// NewRawPCMSource wraps r as a SampleSource of headerless 16-bit PCM.
func NewRawPCMSource(r io.Reader) *RawPCMSource {
	return &RawPCMSource{r: r}
}

// ReadSamples implements SampleSource.
func (s *RawPCMSource) ReadSamples(buf []int16) (int, error) {
	need := len(buf) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}

	byteBuf := s.buf[:need]

	n, err := io.ReadFull(s.r, byteBuf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, io.EOF
		}

		if errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, fmt.Errorf("%w: short read (%d of %d bytes)", ErrIO, n, need)
		}

		return 0, fmt.Errorf("%w: %w", ErrIO, err)
	}

	for i := range buf {
		buf[i] = int16(binary.LittleEndian.Uint16(byteBuf[i*2 : i*2+2]))
	}

	return len(buf), nil
}

// fillInput reads raw samples into [npos, npos+n), where n is the ring's
// free space minus the sync detector's history window, extends the
// amplitude and moving-sum buffers over the same causal range, and
// advances npos. It returns (0, io.EOF) only when zero samples were
// consumed this call; any other read failure, including one that
// surfaces as io.EOF after a partial wrapped fill, is returned wrapped
// in ErrIO.
func (d *Decoder) fillInput(src SampleSource) (uint32, error) {
	free := d.ring.free(d.pos, d.npos)
	if free <= d.sync.syncWindow {
		// Not enough headroom past the sync detector's history window to
		// bother refilling this iteration. Run's loop still advances d.pos
		// via sync search and line sampling against whatever is already
		// buffered, so skipping the fill here only defers the next refill
		// to a later iteration - it never stalls decode progress.
		return 0, nil
	}

	size := free - d.sync.syncWindow
	npos := d.ring.index(d.npos)

	var progress uint32
	var err error

	if npos+size <= d.ring.len {
		var n int

		n, err = src.ReadSamples(d.ring.raw[npos : npos+size])
		progress = uint32(n)
	} else {
		suffixSize := d.ring.len - npos
		prefixSize := size - suffixSize

		var n int

		n, err = src.ReadSamples(d.ring.raw[npos:d.ring.len])
		progress = uint32(n)

		if err == nil {
			var n2 int

			n2, err = src.ReadSamples(d.ring.raw[:prefixSize])
			progress += uint32(n2)
		}
	}

	if err != nil {
		if errors.Is(err, io.EOF) {
			// A clean end of stream only if nothing was consumed on this
			// call. If the suffix half of a wrapped fill succeeded before
			// the prefix half hit EOF, samples were genuinely consumed
			// mid-fill - that is the short-read case spec.md 7 requires to
			// surface as a fatal error, not a silent clean exit.
			if progress == 0 {
				return 0, io.EOF
			}

			return 0, fmt.Errorf("%w: end of stream after partial fill (%d of %d samples)", ErrIO, progress, size)
		}

		if errors.Is(err, ErrIO) {
			return 0, err
		}

		return 0, fmt.Errorf("%w: %w", ErrIO, err)
	}

	d.amp.fill(d.ring, d.npos, size)
	d.ring.fillMovingSum(d.sync.syncWindow, d.npos, size)
	d.npos += size

	return size, nil
}
