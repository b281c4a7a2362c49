// Package apt decodes Automatic Picture Transmission (APT), the analog
// image format broadcast by NOAA POES weather satellites on VHF.
//
// A Decoder consumes a pre-demodulated baseband signal (signed 16-bit PCM,
// mono, at a caller-supplied sample rate) through a SampleSource, recovers
// the carrier envelope, locates the 1040 Hz sync pulse trains that open
// each scan line, and appends decoded lines to two Channel values (video
// channels A and B). Once a Channel has accumulated a full telemetry
// frame, DetectTelemetry locates its 16-step calibration wedge and
// Normalize rescales pixels against it.
//
// Three SampleSource implementations are provided: RawPCMSource for
// headerless PCM, and WAVSource/AIFFSource for recordings archived in a
// sound container together with their capture metadata (station,
// receiver, pass time). The container support is built on this package's
// adapted WAV codec, which also backs the cmd/aptmeta, cmd/apttag, and
// cmd/apttoaiff tools for inspecting and converting archived passes.
package apt
