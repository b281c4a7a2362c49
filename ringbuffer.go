package apt

// ringBuffer holds the raw samples, the instantaneous carrier amplitude,
// and the moving sum of amplitude, all co-indexed on the same monotonic
// sample position. Storage is a power of two so that indexing reduces to a
// bit mask, per original_source/decoder.c's npow2/I() pattern.
type ringBuffer struct {
	len  uint32
	mask uint32

	raw  []int16
	ampl []uint16
	msum []uint32
}

// newRingBuffer sizes the ring to the next power of two at or above
// sampleRate, so that a full second of history is always retained.
func newRingBuffer(sampleRate uint32) *ringBuffer {
	n := nextPow2(sampleRate)

	return &ringBuffer{
		len:  n,
		mask: n - 1,
		raw:  make([]int16, n),
		ampl: make([]uint16, n),
		msum: make([]uint32, n),
	}
}

// nextPow2 returns the smallest power of two greater than or equal to v.
func nextPow2(v uint32) uint32 {
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v++

	return v
}

// index folds a monotonically increasing sample position into the ring.
func (r *ringBuffer) index(pos uint32) uint32 {
	return pos & r.mask
}

// fillMovingSum extends the moving-sum buffer over [npos, npos+size),
// maintaining msum[i] = msum[i-1] - ampl[i-syncWindow] + ampl[i]. It must
// run after the amplitude estimator has populated the same range.
func (r *ringBuffer) fillMovingSum(syncWindow uint32, npos uint32, size uint32) {
	for i := npos; i < npos+size; i++ {
		r.msum[r.index(i)] = r.msum[r.index(i-1)] - uint32(r.ampl[r.index(i-syncWindow)]) + uint32(r.ampl[r.index(i)])
	}
}

// free returns the number of raw-sample slots available to fill without
// overwriting positions still needed as detector history, given the
// current read cursor pos and fill cursor npos.
func (r *ringBuffer) free(pos, npos uint32) uint32 {
	p := r.index(pos)
	n := r.index(npos)

	if n < p {
		return p - n
	}

	return (r.len - n) + p
}
