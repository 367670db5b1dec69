package ogg

import (
	"fmt"

	"github.com/thesyncim/opushead"
)

// frameSamples is the frame size at 48 kHz for each TOC configuration
// (RFC 6716 Section 3.1).
var frameSamples = [32]int{
	480, 960, 1920, 2880, // SILK NB
	480, 960, 1920, 2880, // SILK MB
	480, 960, 1920, 2880, // SILK WB
	480, 960, // Hybrid SWB
	480, 960, // Hybrid FB
	120, 240, 480, 960, // CELT NB
	120, 240, 480, 960, // CELT WB
	120, 240, 480, 960, // CELT SWB
	120, 240, 480, 960, // CELT FB
}

// PacketSamples returns the number of samples per channel, at 48 kHz, that
// an Opus packet decodes to. Only the TOC byte and, for code 3 packets,
// the frame count byte are read.
//
// For multistream packets the first stream's TOC is used; every stream of
// a packet covers the same duration.
func PacketSamples(packet []byte) (int, error) {
	if len(packet) == 0 {
		return 0, fmt.Errorf("%w: empty packet", ErrInvalidPacket)
	}
	toc := packet[0]
	size := frameSamples[toc>>3]

	var frames int
	switch toc & 0x03 {
	case 0:
		frames = 1
	case 1, 2:
		frames = 2
	default:
		if len(packet) < 2 {
			return 0, fmt.Errorf("%w: code 3 packet without frame count", ErrInvalidPacket)
		}
		frames = int(packet[1] & 0x3F)
		if frames == 0 {
			return 0, fmt.Errorf("%w: zero frame count", ErrInvalidPacket)
		}
	}

	samples := frames * size
	if samples > opushead.MaxOutputPacketSamples {
		return 0, fmt.Errorf("%w: %d samples exceeds %d", ErrInvalidPacket, samples, opushead.MaxOutputPacketSamples)
	}
	return samples, nil
}
