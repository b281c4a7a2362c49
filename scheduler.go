package apt

import (
	"errors"
	"fmt"
	"io"
)

// Run drives the decode loop against src until a clean end of stream,
// appending completed lines to the A and B channels as they are found.
// It mirrors original_source/decoder.c's decoder_read_loop and spec.md
// 4.5: fill, search for sync, update lock, sample one line per channel,
// advance past both channels to the next sync region, repeat.
//
// A clean end of stream (io.EOF surfacing from the sample source at a
// read boundary) ends the loop without error; any already-completed
// lines remain valid and are left in place. Any other read failure is
// returned wrapped in ErrIO, per spec.md 7's propagation rule.
func (d *Decoder) Run(src SampleSource) error {
	searchLimit := d.sr

	for {
		_, err := d.fillInput(src)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}

		detectPos, resp := d.sync.find(d.ring, d.sr, d.pos, searchLimit)

		dev, transition := d.lock.update(resp)
		_ = dev

		switch transition {
		case lockAcquired:
			d.logger.Printf("[%s]: Acquired lock", posToTime(d.pos, d.sr))
		case lockLost:
			d.logger.Printf("[%s]: Lost lock", posToTime(d.pos, d.sr))
		}

		if d.lock.Locked() {
			searchLimit = SyncWords * d.sr / WordFreq
		} else {
			searchLimit = 2 * (SyncWords + ChannelWords) * d.sr / WordFreq
		}

		d.pos = detectPos

		d.a.AppendLine(sampleLine(d.ring, d.sr, d.pos))

		d.pos += (ChannelWords + SyncWords) * d.sr / WordFreq

		d.b.AppendLine(sampleLine(d.ring, d.sr, d.pos))

		d.pos += ChannelWords * d.sr / WordFreq
	}
}

// posToTime renders a sample position as "[MM:SS.mmm]"'s inner content,
// per original_source/decoder.c's pos2time, used for -v progress
// messages keyed off sample position rather than wall-clock time.
func posToTime(pos, sampleRate uint32) string {
	totalMillis := uint64(pos) * 1000 / uint64(sampleRate)
	minutes := totalMillis / 60000
	seconds := (totalMillis / 1000) % 60
	millis := totalMillis % 1000

	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}
