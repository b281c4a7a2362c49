package apt

// Protocol constants for the Automatic Picture Transmission format, ported
// from original_source/channel.h and original_source/decoder.h. Exported
// so that signal-generation and archival tooling (cmd/aptgen and friends)
// can lay out a conforming line without duplicating the layout here.
const (
	CarrierFreq   = 2400 // Hz, the AM carrier frequency.
	WordFreq      = 4160 // words/s transmitted.
	SyncPulseFreq = WordFreq / 4

	SpaceWords       = 47
	ChannelDataWords = 909
	TelemetryWords   = 45

	// ChannelWords is the width of one channel's scan line, in 16-bit words.
	ChannelWords = SpaceWords + ChannelDataWords + TelemetryWords // 1001

	// SyncWords is the number of words spent on the sync pulse train that
	// precedes channel A.
	SyncWords = 39

	// telemetryWedgeWords is the number of telemetry samples summed over
	// one 8-line wedge window for wedge statistics.
	telemetryWedgeWords = 8 * TelemetryWords

	// WedgeCount is the number of calibration wedges in one telemetry frame.
	WedgeCount = 16

	// WedgeLines is the height, in scan lines, of one telemetry frame.
	WedgeLines = 8 * WedgeCount // 128

	// lockHistoryLen is the depth of the rolling sync-response history
	// used by the lock tracker.
	lockHistoryLen = 16
)
