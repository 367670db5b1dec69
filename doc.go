// Package opushead reads and writes the Opus identification header
// ("OpusHead") carried by Ogg and WebM streams.
//
// The header describes the channel count, the number of priming samples
// to drop, an output gain and, for more than two channels, how the
// multiplexed Opus streams map to output channels. Opus always decodes at
// 48 kHz; the sample rate stored in the header is the pre-encode rate and
// is informational only.
//
// # Layout
//
// All multi-byte fields are little-endian:
//
//	Bytes 0-7:   "OpusHead" magic signature
//	Byte 8:      Version (1)
//	Byte 9:      Channel count (1-8)
//	Bytes 10-11: Pre-skip
//	Bytes 12-15: Input sample rate (informational)
//	Bytes 16-17: Output gain (Q7.8 dB, signed)
//	Byte 18:     Channel mapping family
//	For a nonzero mapping family:
//	  Byte 19:     Stream count
//	  Byte 20:     Coupled stream count
//	  Bytes 21+:   One stream position per channel
//
// # Parsing
//
// Parse validates untrusted input in a fixed order and reports the first
// failure as one of the package's sentinel errors. It does not check the
// magic signature or the version byte; containers verify those before
// handing the packet over (see package container/ogg).
//
// # Writing
//
// Write always emits a canonical header: mapping family 0 for mono and
// stereo, otherwise mapping family 1 with one uncoupled stream per channel
// and the Vorbis channel order from ChannelMap.
//
// Parse and Write are pure functions and safe for concurrent use.
//
// # References
//
//   - RFC 7845 Section 5.1: Identification Header
//   - Vorbis I Specification Section 4.3.9: channel order
package opushead
