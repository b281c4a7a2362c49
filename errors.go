package apt

import "errors"

// Error categories, per the error handling design: construction/flag
// problems are config errors, stream failures are I/O errors, telemetry
// search failures are detection errors, and degenerate normalization
// bounds are numeric errors. Call sites wrap one of these sentinels with
// fmt.Errorf("...: %w", ...) so callers can still classify the failure via
// errors.Is while getting a descriptive message.
var (
	// ErrConfig marks a missing or invalid configuration: a bad sample
	// rate, conflicting flags, and the like.
	ErrConfig = errors.New("apt: configuration error")

	// ErrIO marks an input or output failure: a failed open, or a
	// mid-chunk short read that isn't a clean end of stream.
	ErrIO = errors.New("apt: i/o error")

	// ErrDetection marks a failed telemetry frame search.
	ErrDetection = errors.New("apt: telemetry detection failed")

	// ErrNumeric marks a degenerate normalization bound (high == low).
	ErrNumeric = errors.New("apt: numeric error")
)

// ErrSampleRate is wrapped by ErrConfig when the sample rate is zero or a
// multiple of 4800 Hz.
var ErrSampleRate = errors.New("sample rate must be positive and not a multiple of 4800 Hz")
