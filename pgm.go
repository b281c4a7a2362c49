package apt

import (
	"bufio"
	"fmt"
	"io"
)

// WritePGM writes the channel as a PGM (portable graymap) ASCII image,
// per spec.md 6: a "P2" header giving width, height, and maximum sample
// value, followed by one row of space-separated decimal pixels per line.
func (c *Channel) WritePGM(w io.Writer) error {
	bw := bufio.NewWriter(w)

	height := c.Height()

	if _, err := fmt.Fprintf(bw, "P2 %d %d 65535\n", c.Width(), height); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	width := c.Width()

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if col > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return fmt.Errorf("%w: %w", ErrIO, err)
				}
			}

			if _, err := fmt.Fprintf(bw, "%d", c.Pixel(row, col)); err != nil {
				return fmt.Errorf("%w: %w", ErrIO, err)
			}
		}

		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	return nil
}
