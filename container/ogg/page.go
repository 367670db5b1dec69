package ogg

import (
	"encoding/binary"
	"fmt"
)

// Page header flags.
const (
	// PageFlagContinuation marks a page whose first segment continues a
	// packet from the previous page.
	PageFlagContinuation = 0x01

	// PageFlagBOS marks the first page of a logical bitstream.
	PageFlagBOS = 0x02

	// PageFlagEOS marks the last page of a logical bitstream.
	PageFlagEOS = 0x04
)

const (
	// pageHeaderSize is the fixed part of the page header, before the
	// segment table.
	pageHeaderSize = 27

	// maxSegments is the largest segment table a page can carry.
	maxSegments = 255

	crcOffset = 22

	oggMagic = "OggS"
)

// Page is a single Ogg page.
//
//	Bytes 0-3:   "OggS"
//	Byte 4:      Stream structure version (0)
//	Byte 5:      Header type flags
//	Bytes 6-13:  Granule position
//	Bytes 14-17: Bitstream serial number
//	Bytes 18-21: Page sequence number
//	Bytes 22-25: CRC
//	Byte 26:     Segment count
//	Bytes 27+:   Segment table, then payload
type Page struct {
	Version      byte
	HeaderType   byte
	GranulePos   uint64
	SerialNumber uint32
	PageSequence uint32

	// Segments is the lacing table. A value of 255 means the packet goes
	// on in the next segment; anything smaller ends it.
	Segments []byte

	Payload []byte
}

// BuildSegmentTable returns the lacing values for a single packet of the
// given length. A packet whose length is a multiple of 255 gets a trailing
// zero segment.
func BuildSegmentTable(packetLen int) []byte {
	segments := make([]byte, packetLen/255+1)
	for i := range len(segments) - 1 {
		segments[i] = 255
	}
	segments[len(segments)-1] = byte(packetLen % 255)
	return segments
}

// ParseSegmentTable returns the lengths of the packets that end within the
// given lacing values. Trailing 255-valued segments belong to a packet that
// continues on the next page and are not reported.
func ParseSegmentTable(segments []byte) []int {
	var lengths []int
	n := 0
	for _, seg := range segments {
		n += int(seg)
		if seg < 255 {
			lengths = append(lengths, n)
			n = 0
		}
	}
	return lengths
}

// IsBOS reports whether the page starts a logical bitstream.
func (p *Page) IsBOS() bool { return p.HeaderType&PageFlagBOS != 0 }

// IsEOS reports whether the page ends a logical bitstream.
func (p *Page) IsEOS() bool { return p.HeaderType&PageFlagEOS != 0 }

// IsContinuation reports whether the page starts mid-packet.
func (p *Page) IsContinuation() bool { return p.HeaderType&PageFlagContinuation != 0 }

// Continues reports whether the last packet on the page goes on in the
// next page.
func (p *Page) Continues() bool {
	return len(p.Segments) > 0 && p.Segments[len(p.Segments)-1] == 255
}

// PacketLengths is ParseSegmentTable(p.Segments).
func (p *Page) PacketLengths() []int {
	return ParseSegmentTable(p.Segments)
}

// Packets splits the payload into the packets that end on this page. If
// the page is a continuation, the first entry is the tail of the packet
// started on an earlier page. The slices alias Payload.
func (p *Page) Packets() [][]byte {
	lengths := p.PacketLengths()
	if len(lengths) == 0 {
		return nil
	}
	packets := make([][]byte, 0, len(lengths))
	off := 0
	for _, n := range lengths {
		if off+n > len(p.Payload) {
			packets = append(packets, p.Payload[off:])
			break
		}
		packets = append(packets, p.Payload[off:off+n])
		off += n
	}
	return packets
}

// Encode serializes the page and fills in its CRC.
func (p *Page) Encode() []byte {
	headerSize := pageHeaderSize + len(p.Segments)
	data := make([]byte, headerSize+len(p.Payload))

	copy(data, oggMagic)
	data[4] = p.Version
	data[5] = p.HeaderType
	binary.LittleEndian.PutUint64(data[6:], p.GranulePos)
	binary.LittleEndian.PutUint32(data[14:], p.SerialNumber)
	binary.LittleEndian.PutUint32(data[18:], p.PageSequence)
	data[26] = byte(len(p.Segments))
	copy(data[pageHeaderSize:], p.Segments)
	copy(data[headerSize:], p.Payload)

	binary.LittleEndian.PutUint32(data[crcOffset:], pageCRC(data))
	return data
}

// ParsePage decodes the page at the start of data and returns it with the
// number of bytes it occupies. It returns ErrInvalidPage when the capture
// pattern is missing or data ends before the page does, and ErrBadCRC
// when the checksum does not match.
func ParsePage(data []byte) (*Page, int, error) {
	if len(data) < pageHeaderSize {
		return nil, 0, fmt.Errorf("%w: %d bytes, need %d", ErrInvalidPage, len(data), pageHeaderSize)
	}
	if string(data[:4]) != oggMagic {
		return nil, 0, fmt.Errorf("%w: missing capture pattern", ErrInvalidPage)
	}

	headerSize := pageHeaderSize + int(data[26])
	if len(data) < headerSize {
		return nil, 0, fmt.Errorf("%w: truncated segment table", ErrInvalidPage)
	}
	segments := data[pageHeaderSize:headerSize]

	payloadSize := 0
	for _, seg := range segments {
		payloadSize += int(seg)
	}
	total := headerSize + payloadSize
	if len(data) < total {
		return nil, 0, fmt.Errorf("%w: truncated payload", ErrInvalidPage)
	}

	if stored := binary.LittleEndian.Uint32(data[crcOffset:]); stored != pageCRC(data[:total]) {
		return nil, 0, ErrBadCRC
	}

	p := &Page{
		Version:      data[4],
		HeaderType:   data[5],
		GranulePos:   binary.LittleEndian.Uint64(data[6:]),
		SerialNumber: binary.LittleEndian.Uint32(data[14:]),
		PageSequence: binary.LittleEndian.Uint32(data[18:]),
		Segments:     append([]byte(nil), segments...),
		Payload:      append([]byte(nil), data[headerSize:total]...),
	}
	return p, total, nil
}
