package apt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/riff"
)

var (
	errCueNilChunk   = errors.New("can't decode a nil chunk")
	errCueNilDecoder = errors.New("nil decoder")
)

// DecodeCueChunk decodes a cue chunk into decoder metadata. Each cue
// point names a sample offset into the data chunk; recordings produced by
// cmd/apttag use this to mark the start of a satellite pass within a
// longer capture.
func DecodeCueChunk(d *wavDecoder, ch *riff.Chunk) error {
	if ch == nil {
		return errCueNilChunk
	}

	if d == nil {
		return errCueNilDecoder
	}

	if ch.ID != CIDCue {
		ch.Drain()
		return nil
	}

	var count uint32
	if err := binary.Read(ch, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("failed to read cue point count: %w", err)
	}

	points := make([]CuePoint, 0, count)

	for i := uint32(0); i < count; i++ {
		var p CuePoint

		if err := binary.Read(ch, binary.LittleEndian, &p.ID); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return fmt.Errorf("failed to read cue point %d id: %w", i, err)
		}

		if err := binary.Read(ch, binary.LittleEndian, &p.Position); err != nil {
			return fmt.Errorf("failed to read cue point %d position: %w", i, err)
		}

		if _, err := io.ReadFull(ch, p.ChunkID[:]); err != nil {
			return fmt.Errorf("failed to read cue point %d chunk id: %w", i, err)
		}

		if err := binary.Read(ch, binary.LittleEndian, &p.ChunkStart); err != nil {
			return fmt.Errorf("failed to read cue point %d chunk start: %w", i, err)
		}

		if err := binary.Read(ch, binary.LittleEndian, &p.BlockStart); err != nil {
			return fmt.Errorf("failed to read cue point %d block start: %w", i, err)
		}

		if err := binary.Read(ch, binary.LittleEndian, &p.SampleOffset); err != nil {
			return fmt.Errorf("failed to read cue point %d sample offset: %w", i, err)
		}

		points = append(points, p)
	}

	if d.Metadata == nil {
		d.Metadata = &Metadata{}
	}

	d.Metadata.CuePoints = points

	ch.Drain()

	return nil
}

func encodeCueChunk(points []CuePoint) []byte {
	if len(points) == 0 {
		return nil
	}

	buf := make([]byte, 4, 4+len(points)*24)
	binary.LittleEndian.PutUint32(buf, uint32(len(points)))

	for _, p := range points {
		var rec [24]byte
		binary.LittleEndian.PutUint32(rec[0:4], p.ID)
		binary.LittleEndian.PutUint32(rec[4:8], p.Position)
		copy(rec[8:12], p.ChunkID[:])
		binary.LittleEndian.PutUint32(rec[12:16], p.ChunkStart)
		binary.LittleEndian.PutUint32(rec[16:20], p.BlockStart)
		binary.LittleEndian.PutUint32(rec[20:24], p.SampleOffset)
		buf = append(buf, rec[:]...)
	}

	return buf
}
