package opushead

// MaxChannels is the largest channel count with a Vorbis channel order.
const MaxChannels = 8

// channelMaps holds the Vorbis channel order for 1-8 channels, indexed by
// channels-1. Each row lists the stream position feeding each output channel.
var channelMaps = [MaxChannels][MaxChannels]byte{
	{0},
	{0, 1},
	{0, 2, 1},
	{0, 1, 2, 3},
	{0, 4, 1, 2, 3},
	{0, 4, 1, 2, 3, 5},
	{0, 4, 1, 2, 3, 5, 6},
	{0, 6, 1, 2, 3, 4, 5, 7},
}

// defaultLayout is the implicit stream map for mapping family 0.
var defaultLayout = [2]byte{0, 1}

// ChannelMap returns a copy of the canonical stream map for the given
// channel count:
//
//	1: mono           {0}
//	2: stereo         {0, 1}
//	3: L, C, R        {0, 2, 1}
//	4: quad           {0, 1, 2, 3}
//	5: 5.0            {0, 4, 1, 2, 3}
//	6: 5.1            {0, 4, 1, 2, 3, 5}
//	7: 6.1            {0, 4, 1, 2, 3, 5, 6}
//	8: 7.1            {0, 6, 1, 2, 3, 4, 5, 7}
//
// It returns nil if channels is outside 1-8.
func ChannelMap(channels int) []byte {
	if !validChannels(channels) {
		return nil
	}
	row := channelMaps[channels-1]
	out := make([]byte, channels)
	copy(out, row[:channels])
	return out
}

func validChannels(channels int) bool {
	return channels >= 1 && channels <= MaxChannels
}
