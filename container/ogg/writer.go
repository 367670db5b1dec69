package ogg

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/thesyncim/opushead"
)

// DefaultPreSkip is the usual encoder lookahead at 48 kHz.
const DefaultPreSkip = 312

// granuleNone marks a page on which no packet ends.
const granuleNone = ^uint64(0)

// WriterConfig configures a Writer.
type WriterConfig struct {
	// Header supplies the channel count, pre-skip and output gain. The
	// stream layout is always the canonical one emitted by opushead.Write.
	Header opushead.Header

	// InputSampleRate is the pre-encode rate stored in the header. It is
	// informational only.
	InputSampleRate uint32

	// Vendor is the OpusTags vendor string; DefaultVendor when empty.
	Vendor string

	// Comments are written to OpusTags in order.
	Comments []Comment

	// Serial is the bitstream serial number; a random one when zero.
	Serial uint32
}

// Writer writes Opus packets to an Ogg stream. Files it produces play in
// standard players.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	w       io.Writer
	serial  uint32
	pageSeq uint32
	granule uint64
	closed  bool
}

// NewWriter creates a Writer for a mono or stereo stream with the default
// pre-skip and no gain.
func NewWriter(w io.Writer, inputSampleRate uint32, channels uint8) (*Writer, error) {
	h, err := opushead.NewHeader(int(channels), DefaultPreSkip, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	return NewWriterWithConfig(w, WriterConfig{
		Header:          *h,
		InputSampleRate: inputSampleRate,
	})
}

// NewWriterWithConfig creates a Writer and writes the OpusHead and
// OpusTags pages. Channel counts of 3-8 get mapping family 1 with one
// stream per channel.
func NewWriterWithConfig(w io.Writer, config WriterConfig) (*Writer, error) {
	head, err := opushead.Marshal(&config.Header, config.InputSampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}

	tags := &OpusTags{Vendor: config.Vendor, Comments: config.Comments}
	if tags.Vendor == "" {
		tags.Vendor = DefaultVendor
	}

	ow := &Writer{
		w:      w,
		serial: config.Serial,
	}
	if ow.serial == 0 {
		ow.serial = rand.Uint32()
	}

	// Header pages have granule position 0.
	if err := ow.writePacket(head, PageFlagBOS, 0); err != nil {
		return nil, err
	}
	if err := ow.writePacket(tags.Encode(), 0, 0); err != nil {
		return nil, err
	}
	return ow, nil
}

// WritePacket writes one Opus packet. samples is the number of samples per
// channel at 48 kHz the packet decodes to (960 for 20 ms); see
// PacketSamples.
func (ow *Writer) WritePacket(packet []byte, samples int) error {
	if ow.closed {
		return ErrUnexpectedEOS
	}
	ow.granule += uint64(samples)
	return ow.writePacket(packet, 0, ow.granule)
}

// WritePacketAt writes one Opus packet ending at the absolute granule
// position granulePos. A final packet uses it to carry a trimmed end
// position. granulePos may not go below the current position.
func (ow *Writer) WritePacketAt(packet []byte, granulePos uint64) error {
	if ow.closed {
		return ErrUnexpectedEOS
	}
	if granulePos < ow.granule {
		return fmt.Errorf("%w: granule position %d before %d", ErrInvalidPacket, granulePos, ow.granule)
	}
	ow.granule = granulePos
	return ow.writePacket(packet, 0, granulePos)
}

// Close writes an empty EOS page. Further writes fail.
func (ow *Writer) Close() error {
	if ow.closed {
		return nil
	}
	ow.closed = true
	return ow.writePacket(nil, PageFlagEOS, ow.granule)
}

// writePacket lays a packet out over as many pages as its segment table
// needs. Only the page on which the packet ends carries granule.
func (ow *Writer) writePacket(packet []byte, flags byte, granule uint64) error {
	segments := BuildSegmentTable(len(packet))
	for first := true; len(segments) > 0; first = false {
		n := min(len(segments), maxSegments)

		size := 0
		for _, seg := range segments[:n] {
			size += int(seg)
		}

		page := &Page{
			HeaderType:   flags,
			GranulePos:   granule,
			SerialNumber: ow.serial,
			PageSequence: ow.pageSeq,
			Segments:     segments[:n],
			Payload:      packet[:size],
		}
		if !first {
			page.HeaderType = flags&^PageFlagBOS | PageFlagContinuation
		}
		if n < len(segments) {
			page.HeaderType &^= PageFlagEOS
			page.GranulePos = granuleNone
		}

		if _, err := ow.w.Write(page.Encode()); err != nil {
			return err
		}
		ow.pageSeq++

		segments = segments[n:]
		packet = packet[size:]
	}
	return nil
}

// Serial returns the bitstream serial number.
func (ow *Writer) Serial() uint32 { return ow.serial }

// GranulePos returns the number of samples written so far at 48 kHz.
func (ow *Writer) GranulePos() uint64 { return ow.granule }

// PageCount returns the number of pages written so far.
func (ow *Writer) PageCount() uint32 { return ow.pageSeq }
