package apt

import "testing"

// TestLockTrackerAcquiresOnLowVariance feeds a constant, realistic sync
// response long enough for the zeroed startup history to fully cycle out,
// then checks that lock acquires once the rolling deviation drops below
// the acquire threshold.
func TestLockTrackerAcquiresOnLowVariance(t *testing.T) {
	var tr lockTracker

	var lastTransition lockTransition

	for i := 0; i < 3*lockHistoryLen; i++ {
		_, transition := tr.update(500)
		if transition != lockUnchanged {
			lastTransition = transition
		}
	}

	if lastTransition != lockAcquired || !tr.Locked() {
		t.Fatalf("expected lock to acquire once a constant response has filled the history, got locked=%v", tr.Locked())
	}
}

// TestLockTrackerLosesLockOnHighVariance checks spec.md 4.4's other
// hysteresis edge: once locked, a high-variance run of responses must
// drop the lock flag.
func TestLockTrackerLosesLockOnHighVariance(t *testing.T) {
	var tr lockTracker

	for i := 0; i < 2*lockHistoryLen; i++ {
		tr.update(500)
	}

	if !tr.Locked() {
		t.Fatalf("setup failed: tracker should be locked before the variance spike")
	}

	for i := 0; i < lockHistoryLen; i++ {
		sign := int32(1)
		if i%2 == 0 {
			sign = -1
		}

		tr.update(sign * 2000)
	}

	if tr.Locked() {
		t.Fatalf("tracker should have lost lock under a high-variance response run")
	}
}

// TestLockTrackerHysteresisNoMidBandFlip checks spec.md 8's hysteresis
// invariant directly against the update function: a transition to
// unlocked only ever happens when dev>200, and a transition to locked
// only ever happens when dev<50.
func TestLockTrackerHysteresisNoMidBandFlip(t *testing.T) {
	var tr lockTracker

	responses := []int32{0, 0, 500, 500, 500, -500, 500, 900, 10, 10, 10, 10, 10, 10, 10, 10, 10, 400, -400, 400, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10}

	for _, r := range responses {
		dev, transition := tr.update(r)

		switch transition {
		case lockAcquired:
			if dev >= 50 {
				t.Fatalf("lockAcquired transition at dev=%d, want <50", dev)
			}
		case lockLost:
			if dev <= 200 {
				t.Fatalf("lockLost transition at dev=%d, want >200", dev)
			}
		}
	}
}
