package ogg

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"

	"github.com/thesyncim/opushead"
)

// writeStream builds an Ogg Opus stream holding packets of the given sizes,
// each 960 samples long.
func writeStream(t *testing.T, config WriterConfig, sizes ...int) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriterWithConfig(&buf, config)
	require.NoError(t, err)
	for i, n := range sizes {
		packet := bytes.Repeat([]byte{byte(i)}, n)
		packet[0] = 0xFC
		require.NoError(t, w.WritePacket(packet, 960))
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func stereoConfig() WriterConfig {
	h, _ := opushead.NewHeader(2, DefaultPreSkip, 0)
	return WriterConfig{Header: *h, InputSampleRate: 44100}
}

func TestNewReader_Headers(t *testing.T) {
	config := stereoConfig()
	config.Header.OutputGain = -5
	config.Comments = []Comment{{"TITLE", "x"}}
	data := writeStream(t, config)

	r, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)

	require.Equal(t, uint8(2), r.Channels())
	require.Equal(t, uint16(DefaultPreSkip), r.PreSkip())
	require.Equal(t, int16(-5), r.Header().OutputGain)
	require.Equal(t, uint8(1), r.Header().CoupledCount)
	require.Equal(t, uint32(44100), r.InputSampleRate())
	require.Len(t, r.RawHeader(), opushead.HeaderSize)
	require.Equal(t, DefaultVendor, r.Tags().Vendor)
	require.Equal(t, []Comment{{"TITLE", "x"}}, r.Tags().Comments)
}

func TestNewReader_Surround(t *testing.T) {
	h, err := opushead.NewHeader(8, 312, 0)
	require.NoError(t, err)
	data := writeStream(t, WriterConfig{Header: *h, InputSampleRate: 48000})

	r, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, h, r.Header())
}

func TestNewReader_Errors(t *testing.T) {
	bos := func(payload []byte) []byte {
		return (&Page{HeaderType: PageFlagBOS, SerialNumber: 1, Segments: BuildSegmentTable(len(payload)), Payload: payload}).Encode()
	}
	head := func(channels, family byte, extra ...byte) []byte {
		b := make([]byte, opushead.HeaderSize)
		copy(b, opushead.Magic)
		b[8] = 1
		b[9] = channels
		b[18] = family
		return append(b, extra...)
	}

	tests := []struct {
		name string
		data []byte
		want []error
	}{
		{"empty input", nil, []error{ErrUnexpectedEOS}},
		{"not ogg", []byte("This is not an Ogg file at all"), []error{ErrInvalidPage}},
		{"not BOS", (&Page{Segments: []byte{1}, Payload: []byte{0}}).Encode(), []error{ErrInvalidPage}},
		{"bad magic", bos([]byte("NotOpusHead12345678")), []error{ErrInvalidHeader}},
		{"major version 1", bos(func() []byte { b := head(2, 0); b[8] = 0x10; return b }()), []error{ErrInvalidHeader}},
		{"too short", bos(head(2, 0)[:18]), []error{ErrInvalidHeader, opushead.ErrTooShort}},
		{"zero channels", bos(head(0, 0)), []error{ErrInvalidHeader, opushead.ErrInvalidChannelCount}},
		{"missing stream map", bos(head(3, 0)), []error{ErrInvalidHeader, opushead.ErrMissingStreamMap}},
		{"truncated stream map", bos(head(3, 1, 3, 0)), []error{ErrInvalidHeader, opushead.ErrTruncatedStreamMap}},
		{"inconsistent stream map", bos(head(2, 1, 2, 1, 0, 1)), []error{ErrInvalidHeader, opushead.ErrInconsistentStreamMap}},
		{"missing tags", bos(head(2, 0)), []error{ErrUnexpectedEOS}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := NewReader(bytes.NewReader(tc.data))
			require.Nil(t, r)
			for _, want := range tc.want {
				require.ErrorIs(t, err, want)
			}
		})
	}
}

func TestNewReader_AcceptsCompatibleVersions(t *testing.T) {
	for _, version := range []byte{0x00, 0x01, 0x0F} {
		data := writeStream(t, stereoConfig())
		pages := readPages(t, data)
		pages[0].Payload[8] = version

		var buf bytes.Buffer
		for _, p := range pages {
			buf.Write(p.Encode())
		}

		_, err := NewReader(&buf)
		require.NoError(t, err, "version %#x", version)
	}
}

func TestReadPacket(t *testing.T) {
	sizes := []int{50, 60, 70, 1000, 255, 510}
	data := writeStream(t, stereoConfig(), sizes...)

	r, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)

	for i, n := range sizes {
		packet, granule, err := r.ReadPacket()
		require.NoError(t, err)
		require.Len(t, packet, n)
		require.Equal(t, byte(0xFC), packet[0])
		require.Equal(t, uint64(960*(i+1)), granule)
	}

	_, _, err = r.ReadPacket()
	require.ErrorIs(t, err, io.EOF)
	require.True(t, r.EOF())
	_, _, err = r.ReadPacket()
	require.ErrorIs(t, err, io.EOF)
}

func TestReadPacket_SpanningPages(t *testing.T) {
	size := 255*maxSegments + 300
	data := writeStream(t, stereoConfig(), 10, size, 20)

	r, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)

	for _, n := range []int{10, size, 20} {
		packet, _, err := r.ReadPacket()
		require.NoError(t, err)
		require.Len(t, packet, n)
	}
}

func TestReadPacket_MultiplePacketsPerPage(t *testing.T) {
	data := writeStream(t, stereoConfig())
	pages := readPages(t, data)

	audio := &Page{
		SerialNumber: pages[0].SerialNumber,
		PageSequence: 2,
		GranulePos:   2880,
		Segments:     []byte{2, 3, 0, 4},
		Payload:      []byte{0xFC, 1, 0xFC, 2, 2, 0xFC, 3, 3, 3},
	}

	var buf bytes.Buffer
	buf.Write(pages[0].Encode())
	buf.Write(pages[1].Encode())
	buf.Write(audio.Encode())

	r, err := NewReader(&buf)
	require.NoError(t, err)

	// The zero-length packet is skipped.
	for _, want := range [][]byte{{0xFC, 1}, {0xFC, 2, 2}, {0xFC, 3, 3, 3}} {
		packet, granule, err := r.ReadPacket()
		require.NoError(t, err)
		require.Equal(t, want, packet)
		require.Equal(t, uint64(2880), granule)
	}
	_, _, err = r.ReadPacket()
	require.ErrorIs(t, err, io.EOF)
}

func TestReadPacket_DropsOrphanContinuation(t *testing.T) {
	data := writeStream(t, stereoConfig())
	pages := readPages(t, data)
	serial := pages[0].SerialNumber

	orphan := &Page{
		HeaderType:   PageFlagContinuation,
		SerialNumber: serial,
		PageSequence: 2,
		GranulePos:   960,
		Segments:     []byte{3, 2},
		Payload:      []byte{9, 9, 9, 0xFC, 7},
	}
	foreign := &Page{SerialNumber: serial + 1, Segments: []byte{1}, Payload: []byte{0xFC}}

	var buf bytes.Buffer
	buf.Write(pages[0].Encode())
	buf.Write(pages[1].Encode())
	buf.Write(foreign.Encode())
	buf.Write(orphan.Encode())

	r, err := NewReader(&buf)
	require.NoError(t, err)

	packet, _, err := r.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{0xFC, 7}, packet)
}

func TestReader_SmallReads(t *testing.T) {
	data := writeStream(t, stereoConfig(), 100, 200)

	r, err := NewReader(iotest.OneByteReader(bytes.NewReader(data)))
	require.NoError(t, err)

	for _, n := range []int{100, 200} {
		packet, _, err := r.ReadPacket()
		require.NoError(t, err)
		require.Len(t, packet, n)
	}
}

func TestReader_LargePacket(t *testing.T) {
	size := 200 * 1024
	data := writeStream(t, stereoConfig(), size)

	r, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	packet, _, err := r.ReadPacket()
	require.NoError(t, err)
	require.Len(t, packet, size)
}

func TestReader_Truncated(t *testing.T) {
	data := writeStream(t, stereoConfig(), 100)

	r, err := NewReader(bytes.NewReader(data[:len(data)-40]))
	require.NoError(t, err)

	_, _, err = r.ReadPacket()
	require.ErrorIs(t, err, ErrUnexpectedEOS)
}

func TestReader_CorruptPage(t *testing.T) {
	data := writeStream(t, stereoConfig(), 100)
	data[len(data)-50] ^= 0xFF

	r, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)

	_, _, err = r.ReadPacket()
	require.ErrorIs(t, err, ErrBadCRC)
}
