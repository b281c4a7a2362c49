package apt

// sampleLine resamples the continuous envelope into ChannelWords fixed
// 16-bit pixels by averaging the envelope samples falling within each
// word's time slice, per spec.md 4.6 and original_source/decoder.c's
// decoder_read_line. There is no interpolation: the rounding error per
// word is bounded by one sample amplitude.
func sampleLine(r *ringBuffer, sampleRate uint32, start uint32) []uint16 {
	buf := make([]uint16, ChannelWords)

	for i := uint32(0); i < ChannelWords; i++ {
		spos := start + (i * sampleRate / WordFreq)
		epos := start + ((i + 1) * sampleRate / WordFreq)

		var sum uint32
		for j := spos; j < epos; j++ {
			sum += uint32(r.ampl[r.index(j)])
		}

		buf[i] = uint16(sum / (epos - spos))
	}

	return buf
}
