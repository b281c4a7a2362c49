package apt

import (
	"math"
	"testing"
)

// TestAmplitudeEstimatorPureTone exercises spec.md 8's amplitude
// reconstruction invariant: for a pure 2400 Hz tone of peak amplitude A0,
// every envelope sample from index 1 onward should reconstruct A0 to
// within floating-point rounding, for any sample rate where sin(phi) is
// non-zero.
func TestAmplitudeEstimatorPureTone(t *testing.T) {
	for _, sampleRate := range []uint32{8000, 9600, 11025, 20800, 48000} {
		sampleRate := sampleRate

		t.Run("", func(t *testing.T) {
			const peak = 16384.0

			r := newRingBuffer(sampleRate)
			est := newAmplitudeEstimator(sampleRate)

			phaseStep := 2 * math.Pi * CarrierFreq / float64(sampleRate)

			const n = 2000
			for i := uint32(0); i < n; i++ {
				v := peak * math.Sin(float64(i)*phaseStep)
				r.raw[r.index(i)] = int16(v)
			}

			est.fill(r, 1, n-1)

			for i := uint32(1); i < n; i++ {
				got := float64(r.ampl[r.index(i)])
				if math.Abs(got-peak) > 2 {
					t.Fatalf("sample rate %d: ampl[%d] = %v, want ~%v", sampleRate, i, got, peak)
				}
			}
		})
	}
}

// TestAmplitudeEstimator9600Simplification checks spec.md 4.1's claim that
// at SR=9600 the law-of-cosines estimator reduces to sqrt(a^2+b^2).
func TestAmplitudeEstimator9600Simplification(t *testing.T) {
	est := newAmplitudeEstimator(9600)

	if math.Abs(est.sinphi-1) > 1e-9 {
		t.Fatalf("sin(phi) at SR=9600 = %v, want 1", est.sinphi)
	}

	if math.Abs(est.cosphi2) > 1e-9 {
		t.Fatalf("2*cos(phi) at SR=9600 = %v, want 0", est.cosphi2)
	}
}

// TestNewDecoderRejectsMultiplesOf4800 covers spec.md 4.1's construction
// error condition.
func TestNewDecoderRejectsMultiplesOf4800(t *testing.T) {
	for _, sr := range []uint32{0, 4800, 9600, 19200} {
		if _, err := NewDecoder(sr, nil); err == nil {
			t.Fatalf("NewDecoder(%d) should have failed", sr)
		}
	}

	if _, err := NewDecoder(11025, nil); err != nil {
		t.Fatalf("NewDecoder(11025) unexpectedly failed: %v", err)
	}
}
