package apt

// FormatChunk returns a copy of the source capture's fmt chunk (sample
// rate, bit depth, channel count), if available.
func (d *wavDecoder) FormatChunk() *FmtChunk {
	if d == nil || d.FmtChunk == nil {
		return nil
	}

	return d.FmtChunk.Clone()
}

// RawChunks returns a copy of the non-metadata chunks preserved from the
// source capture (e.g. a custom chunk written by recording software),
// kept so TagWAV's output is a faithful copy plus new metadata rather
// than a stripped-down reencode.
func (d *wavDecoder) RawChunks() []RawChunk {
	if d == nil {
		return nil
	}

	return cloneRawChunks(d.UnknownChunks)
}

// SetRawChunks replaces the preserved non-metadata chunks with the
// provided set.
func (d *wavDecoder) SetRawChunks(chunks []RawChunk) {
	if d == nil {
		return
	}

	d.UnknownChunks = cloneRawChunks(chunks)
}

// FormatChunk returns a copy of the output file's configured fmt chunk,
// if available.
func (e *wavEncoder) FormatChunk() *FmtChunk {
	if e == nil || e.FmtChunk == nil {
		return nil
	}

	return e.FmtChunk.Clone()
}

// RawChunks returns a copy of the non-metadata chunks configured to be
// carried through to the output file.
func (e *wavEncoder) RawChunks() []RawChunk {
	if e == nil {
		return nil
	}

	return cloneRawChunks(e.UnknownChunks)
}

// SetRawChunks replaces the non-metadata chunks configured for the
// output file, as TagWAV does to carry a source capture's chunks into
// its tagged copy.
func (e *wavEncoder) SetRawChunks(chunks []RawChunk) {
	if e == nil {
		return
	}

	e.UnknownChunks = cloneRawChunks(chunks)
}
