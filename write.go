package opushead

import (
	"encoding/binary"
	"fmt"
)

// BufferSize returns the output capacity Write needs for a header with the
// given channel count. The stream map is only emitted for more than two
// channels, but the capacity is required either way.
func BufferSize(channels int) int {
	return StreamMapOffset + channels
}

// Write encodes h into out and returns the number of bytes written.
//
// inputSampleRate is the pre-encode rate stored as informational metadata;
// it does not affect decoding, which always runs at DecodeSampleRate.
//
// Write emits the canonical layout for h.Channels and ignores the other
// stream fields of h. Mono and stereo use mapping family 0 and produce
// HeaderSize bytes. Three or more channels use mapping family 1 with one
// uncoupled stream per channel and the ChannelMap order, producing
// StreamMapOffset+channels bytes.
//
// It returns ErrInvalidChannelCount if h.Channels is outside 1-8 and
// ErrBufferTooSmall if len(out) < BufferSize(h.Channels). In both cases
// out is left untouched. Otherwise all of out is zeroed before the header
// is written.
func Write(h *Header, inputSampleRate uint32, out []byte) (int, error) {
	channels := int(h.Channels)
	if !validChannels(channels) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidChannelCount, channels)
	}
	if need := BufferSize(channels); len(out) < need {
		return 0, fmt.Errorf("%w: %d bytes, need %d", ErrBufferTooSmall, len(out), need)
	}

	clear(out)

	copy(out, Magic)
	out[offsetVersion] = Version
	out[offsetChannels] = h.Channels
	binary.LittleEndian.PutUint16(out[offsetPreSkip:], h.PreSkip)
	binary.LittleEndian.PutUint32(out[offsetSampleRate:], inputSampleRate)
	binary.LittleEndian.PutUint16(out[offsetOutputGain:], uint16(h.OutputGain))

	if channels <= 2 {
		out[offsetMapping] = MappingFamilyRTP
		return HeaderSize, nil
	}

	// Every channel gets its own stream; coupled streams are never emitted.
	out[offsetMapping] = MappingFamilyVorbis
	out[offsetStreamCount] = h.Channels
	out[offsetCoupledCount] = 0
	copy(out[StreamMapOffset:], channelMaps[channels-1][:channels])
	return StreamMapOffset + channels, nil
}

// Marshal encodes h into a newly allocated slice.
// See Write for the layout and errors.
func Marshal(h *Header, inputSampleRate uint32) ([]byte, error) {
	buf := make([]byte, BufferSize(int(h.Channels)))
	n, err := Write(h, inputSampleRate, buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}
