package apt

// syncDetector locates the 1040 Hz, 7-cycle sync pulse train that precedes
// channel A by convolving a square wave against the amplitude envelope,
// per spec.md 4.3 and original_source/decoder.c's decoder_find_sync.
type syncDetector struct {
	syncPulse  uint32 // samples per 1040 Hz half-cycle
	syncWindow uint32 // samples in the full 7-cycle sync train
}

func newSyncDetector(sampleRate uint32) syncDetector {
	return syncDetector{
		syncPulse:  sampleRate / SyncPulseFreq,
		syncWindow: 7 * sampleRate / SyncPulseFreq,
	}
}

// find searches [pos, pos+searchLength) for the position with the
// strongest matched-filter response, returning that position advanced past
// the tail of the sync train, and the peak (normalized) response. Ties
// keep the first position found, matching the C original's strict '>'
// comparison.
func (s syncDetector) find(r *ringBuffer, sampleRate uint32, pos uint32, searchLength uint32) (detectPos uint32, maxResponse int32) {
	epos := pos + searchLength
	maxResponse = minInt32

	for p := pos; p < epos; p++ {
		avg := uint16(r.msum[r.index(p)] / s.syncWindow)
		response := s.response(r, sampleRate, p, avg)

		if response > maxResponse {
			maxResponse = response
			detectPos = p
		}
	}

	detectPos += 7 * sampleRate / WordFreq

	return detectPos, maxResponse
}

// response computes the matched-filter value for a single candidate
// position p, per spec.md 4.3 step 2-3.
func (s syncDetector) response(r *ringBuffer, sampleRate uint32, p uint32, avg uint16) int32 {
	syncBase := p - s.syncWindow - 1

	var response int32

	for j := uint32(0); j < 7; j++ {
		syncPos := syncBase + j*sampleRate/SyncPulseFreq

		var k uint32
		for ; k < s.syncPulse/2; k++ {
			response += int32(r.ampl[r.index(syncPos+k)]) - int32(avg)
		}

		if s.syncPulse&1 == 1 {
			k++
		}

		for ; k < s.syncPulse; k++ {
			response -= int32(r.ampl[r.index(syncPos+k)]) - int32(avg)
		}
	}

	return response / int32(14*(s.syncPulse&^1))
}

const minInt32 = -1 << 31
