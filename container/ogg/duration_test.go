package ogg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPacketSamples(t *testing.T) {
	tests := []struct {
		name   string
		packet []byte
		want   int
	}{
		{"CELT FB 20ms", []byte{0xFC}, 960},
		{"CELT NB 2.5ms", []byte{0x80}, 120},
		{"SILK NB 60ms", []byte{0x18}, 2880},
		{"hybrid FB 10ms", []byte{0x70}, 480},
		{"code 1", []byte{0xFD, 0, 0}, 1920},
		{"code 2", []byte{0xFE, 1, 0, 0}, 1920},
		{"code 3 with padding flag", []byte{0xFF, 0x40 | 3}, 2880},
		{"code 3 at the limit", []byte{0xFB, 6}, 5760},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PacketSamples(tc.packet)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestPacketSamples_Errors(t *testing.T) {
	tests := []struct {
		name   string
		packet []byte
	}{
		{"empty", nil},
		{"code 3 without count", []byte{0xFF}},
		{"zero frames", []byte{0xFF, 0x80}},
		{"over 120ms", []byte{0x1B, 3}},
		{"too many frames", []byte{0xFF, 7}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := PacketSamples(tc.packet)
			require.ErrorIs(t, err, ErrInvalidPacket)
		})
	}
}
