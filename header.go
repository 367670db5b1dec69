package opushead

import (
	"bytes"
	"fmt"
)

// Header layout constants per RFC 7845.
const (
	// Magic is the signature that starts every identification header.
	Magic = "OpusHead"

	// Version is the header version emitted by Write.
	Version = 1

	// HeaderSize is the size of the fixed region, without the stream map.
	HeaderSize = 19

	// StreamMapOffset is where the stream map starts when the mapping
	// family is nonzero: stream count, coupled count, then one byte per
	// channel.
	StreamMapOffset = 21

	// DecodeSampleRate is the output rate of every Opus decoder.
	DecodeSampleRate = 48000

	// MaxOutputPacketSamples is the largest number of samples per channel
	// a single packet can decode to (120 ms at 48 kHz).
	MaxOutputPacketSamples = 960 * 6
)

// Field offsets within the fixed region.
const (
	offsetVersion      = 8
	offsetChannels     = 9
	offsetPreSkip      = 10
	offsetSampleRate   = 12
	offsetOutputGain   = 16
	offsetMapping      = 18
	offsetStreamCount  = 19
	offsetCoupledCount = 20
)

// MappingFamily values understood by this package.
const (
	// MappingFamilyRTP is the implicit mono/stereo layout.
	MappingFamilyRTP = 0

	// MappingFamilyVorbis is the explicit 1-8 channel Vorbis layout.
	MappingFamilyVorbis = 1
)

// Header is a decoded identification header.
type Header struct {
	// Channels is the output channel count (1-8).
	Channels uint8

	// PreSkip is the number of samples (at 48 kHz) to discard at the start.
	PreSkip uint16

	// OutputGain is the gain in Q7.8 dB. Negative values attenuate.
	OutputGain int16

	// MappingFamily is 0 for the implicit mono/stereo layout. Any other
	// value means the header carries an explicit stream map.
	MappingFamily uint8

	// StreamCount is the number of multiplexed Opus streams.
	StreamCount uint8

	// CoupledCount is the number of those streams carrying two channels.
	CoupledCount uint8

	// StreamMap gives, for each output channel, the decoded position
	// feeding it. Only the first Channels entries are meaningful.
	StreamMap [MaxChannels]byte
}

// NewHeader returns a header for the given channel count laid out exactly
// as Write will emit it: the implicit layout for mono and stereo, one
// uncoupled stream per channel in Vorbis order otherwise.
// It returns ErrInvalidChannelCount if channels is outside 1-8.
func NewHeader(channels int, preSkip uint16, outputGain int16) (*Header, error) {
	if !validChannels(channels) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannelCount, channels)
	}

	h := &Header{
		Channels:   uint8(channels),
		PreSkip:    preSkip,
		OutputGain: outputGain,
	}
	if channels > 2 {
		h.MappingFamily = MappingFamilyVorbis
		h.StreamCount = uint8(channels)
		h.StreamMap = channelMaps[channels-1]
		return h, nil
	}

	h.setDefaultLayout()
	return h, nil
}

// setDefaultLayout fills the stream fields implied by mapping family 0.
func (h *Header) setDefaultLayout() {
	h.StreamCount = 1
	h.CoupledCount = 0
	if h.Channels > 1 {
		h.CoupledCount = 1
	}
	copy(h.StreamMap[:], defaultLayout[:])
}

// Validate reports whether the header satisfies the invariants Parse
// guarantees: a channel count of 1-8, a stream map for more than two
// channels, and stream counts that add up to the channel count.
func (h *Header) Validate() error {
	if !validChannels(int(h.Channels)) {
		return fmt.Errorf("%w: %d", ErrInvalidChannelCount, h.Channels)
	}
	if h.MappingFamily == MappingFamilyRTP {
		if h.Channels > 2 {
			return fmt.Errorf("%w: %d channels with mapping family 0", ErrMissingStreamMap, h.Channels)
		}
		return nil
	}
	if int(h.StreamCount)+int(h.CoupledCount) != int(h.Channels) {
		return fmt.Errorf("%w: %d streams + %d coupled != %d channels",
			ErrInconsistentStreamMap, h.StreamCount, h.CoupledCount, h.Channels)
	}
	return nil
}

// HasCanonicalLayout reports whether h uses the stream layout Write emits
// for h.Channels: one coupled stream for stereo, one uncoupled stream per
// channel in ChannelMap order otherwise, under mapping family 0 or 1.
// Packets coded for any other layout do not decode under a header built
// by Write.
func (h *Header) HasCanonicalLayout() bool {
	want, err := NewHeader(int(h.Channels), h.PreSkip, h.OutputGain)
	if err != nil {
		return false
	}
	switch h.MappingFamily {
	case MappingFamilyRTP:
		if h.Channels > 2 {
			return false
		}
	case MappingFamilyVorbis:
	default:
		return false
	}
	return h.StreamCount == want.StreamCount &&
		h.CoupledCount == want.CoupledCount &&
		bytes.Equal(h.Mapping(), want.Mapping())
}

// Mapping returns the meaningful part of StreamMap.
func (h *Header) Mapping() []byte {
	n := min(int(h.Channels), MaxChannels)
	return h.StreamMap[:n]
}

// GainDB returns OutputGain in decibels.
func (h *Header) GainDB() float64 {
	return float64(h.OutputGain) / 256
}
