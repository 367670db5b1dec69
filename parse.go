package opushead

import (
	"encoding/binary"
	"fmt"
)

// fieldReader reads little-endian fields from a header buffer.
// A 16-bit read whose second byte falls outside the buffer yields 0.
type fieldReader []byte

func (r fieldReader) le16(offset int) uint16 {
	if offset < 0 || offset+1 >= len(r) {
		return 0
	}
	return binary.LittleEndian.Uint16(r[offset:])
}

// Parse decodes an identification header.
//
// data starts at the magic signature; Parse does not check the signature
// or the version byte. Checks run in order and the first failure is
// returned:
//
//   - ErrTooShort if data is shorter than HeaderSize
//   - ErrInvalidChannelCount if the channel count is not 1-8
//   - ErrMissingStreamMap if mapping family 0 declares more than 2 channels
//   - ErrTruncatedStreamMap if the stream map is cut short
//   - ErrInconsistentStreamMap if streams plus coupled streams != channels
//
// For mapping family 0 the stream fields are filled with the implicit
// layout: one stream, coupled for stereo, map {0, 1}.
func Parse(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, need %d", ErrTooShort, len(data), HeaderSize)
	}

	h := &Header{Channels: data[offsetChannels]}
	if !validChannels(int(h.Channels)) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannelCount, h.Channels)
	}

	r := fieldReader(data)
	h.PreSkip = r.le16(offsetPreSkip)
	h.OutputGain = int16(r.le16(offsetOutputGain))
	h.MappingFamily = data[offsetMapping]

	if h.MappingFamily == MappingFamilyRTP {
		if h.Channels > 2 {
			return nil, fmt.Errorf("%w: %d channels with mapping family 0", ErrMissingStreamMap, h.Channels)
		}
		h.setDefaultLayout()
		return h, nil
	}

	if need := StreamMapOffset + int(h.Channels); len(data) < need {
		return nil, fmt.Errorf("%w: %d bytes, need %d for %d channels",
			ErrTruncatedStreamMap, len(data), need, h.Channels)
	}

	h.StreamCount = data[offsetStreamCount]
	h.CoupledCount = data[offsetCoupledCount]
	if int(h.StreamCount)+int(h.CoupledCount) != int(h.Channels) {
		return nil, fmt.Errorf("%w: %d streams + %d coupled != %d channels",
			ErrInconsistentStreamMap, h.StreamCount, h.CoupledCount, h.Channels)
	}

	copy(h.StreamMap[:], data[StreamMapOffset:StreamMapOffset+int(h.Channels)])
	return h, nil
}

// InputSampleRate returns the informational pre-encode sample rate stored
// at bytes 12-15. It returns ErrTooShort if data is shorter than HeaderSize.
func InputSampleRate(data []byte) (uint32, error) {
	if len(data) < HeaderSize {
		return 0, fmt.Errorf("%w: %d bytes, need %d", ErrTooShort, len(data), HeaderSize)
	}
	return binary.LittleEndian.Uint32(data[offsetSampleRate:]), nil
}
