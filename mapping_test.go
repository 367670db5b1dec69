package opushead

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChannelMap(t *testing.T) {
	tests := []struct {
		channels int
		want     []byte
	}{
		{1, []byte{0}},
		{2, []byte{0, 1}},
		{3, []byte{0, 2, 1}},
		{4, []byte{0, 1, 2, 3}},
		{5, []byte{0, 4, 1, 2, 3}},
		{6, []byte{0, 4, 1, 2, 3, 5}},
		{7, []byte{0, 4, 1, 2, 3, 5, 6}},
		{8, []byte{0, 6, 1, 2, 3, 4, 5, 7}},
	}

	for _, tc := range tests {
		got := ChannelMap(tc.channels)
		require.Equal(t, tc.want, got, "channels=%d", tc.channels)
	}
}

func TestChannelMap_OutOfRange(t *testing.T) {
	for _, channels := range []int{-1, 0, 9, 255} {
		require.Nil(t, ChannelMap(channels), "channels=%d", channels)
	}
}

func TestChannelMap_ReturnsCopy(t *testing.T) {
	m := ChannelMap(6)
	m[0] = 0xFF

	require.Equal(t, []byte{0, 4, 1, 2, 3, 5}, ChannelMap(6))
}

func TestChannelMap_RowsArePermutations(t *testing.T) {
	// Every row uses each position below the channel count exactly once.
	for channels := 1; channels <= MaxChannels; channels++ {
		seen := make([]bool, channels)
		for _, pos := range ChannelMap(channels) {
			require.Less(t, int(pos), channels)
			require.False(t, seen[pos], "channels=%d: position %d repeated", channels, pos)
			seen[pos] = true
		}
	}
}
