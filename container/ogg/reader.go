package ogg

import (
	"errors"
	"fmt"
	"io"

	"github.com/thesyncim/opushead"
)

// readerBufferSize holds the largest possible page: 27 header bytes, 255
// lacing values and 255*255 payload bytes.
const readerBufferSize = 64 * 1024

// Reader reads Opus packets from an Ogg stream. Only the first logical
// bitstream is followed; pages with other serial numbers are skipped.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	r io.Reader

	head     *opushead.Header
	rawHead  []byte
	tags     *OpusTags
	serial   uint32
	inputHz  uint32
	granule  uint64
	eos      bool
	srcDone  bool
	pending  [][]byte // complete packets not yet returned
	partial  []byte   // packet continuing on the next page
	dropping bool     // skipping the tail of a packet whose start was lost

	buf      []byte
	off, end int
}

// NewReader reads the identification and comment headers.
//
// The first page must be a BOS page whose first packet starts with
// "OpusHead" and carries a version with major number 0; the rest is
// decoded by opushead.Parse. Header errors wrap both ErrInvalidHeader and
// the opushead error describing the problem.
func NewReader(r io.Reader) (*Reader, error) {
	or := &Reader{
		r:   r,
		buf: make([]byte, readerBufferSize),
	}

	page, err := or.readPage()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no pages", ErrUnexpectedEOS)
		}
		return nil, err
	}
	if !page.IsBOS() {
		return nil, fmt.Errorf("%w: first page is not BOS", ErrInvalidPage)
	}
	or.serial = page.SerialNumber

	packets := page.Packets()
	if len(packets) == 0 {
		return nil, fmt.Errorf("%w: empty BOS page", ErrInvalidHeader)
	}
	if err := or.parseHead(packets[0]); err != nil {
		return nil, err
	}

	tags, err := or.nextPacket()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing OpusTags", ErrUnexpectedEOS)
		}
		return nil, err
	}
	if or.tags, err = ParseOpusTags(tags); err != nil {
		return nil, err
	}
	return or, nil
}

func (or *Reader) parseHead(packet []byte) error {
	if len(packet) < len(opushead.Magic) || string(packet[:len(opushead.Magic)]) != opushead.Magic {
		return fmt.Errorf("%w: missing OpusHead signature", ErrInvalidHeader)
	}
	// RFC 7845: reject only incompatible major versions.
	if len(packet) > 8 && packet[8]>>4 != 0 {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidHeader, packet[8])
	}

	head, err := opushead.Parse(packet)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	rate, err := opushead.InputSampleRate(packet)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}

	or.head = head
	or.inputHz = rate
	or.rawHead = append([]byte(nil), packet...)
	return nil
}

// ReadPacket returns the next audio packet and the granule position of the
// page on which it ends. It returns io.EOF once the EOS page has been
// consumed or the input ends.
func (or *Reader) ReadPacket() (packet []byte, granulePos uint64, err error) {
	packet, err = or.nextPacket()
	if err != nil {
		return nil, 0, err
	}
	return packet, or.granule, nil
}

// nextPacket returns the next non-empty packet of the followed bitstream.
func (or *Reader) nextPacket() ([]byte, error) {
	for len(or.pending) == 0 {
		if or.eos || or.srcDone {
			return nil, io.EOF
		}
		page, err := or.readPage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				or.srcDone = true
				continue
			}
			return nil, err
		}
		if page.SerialNumber != or.serial {
			continue
		}
		or.absorb(page)
	}

	p := or.pending[0]
	or.pending = or.pending[1:]
	return p, nil
}

// absorb splits a page into packets, joining packets that span pages.
func (or *Reader) absorb(page *Page) {
	if page.IsEOS() {
		or.eos = true
	}

	cur := or.partial
	or.partial = nil
	if page.IsContinuation() {
		if cur == nil {
			// The start of this packet was never seen.
			or.dropping = true
		}
	} else {
		// An unfinished packet from the previous page is discarded.
		cur = nil
		or.dropping = false
	}

	completed := false
	off := 0
	for _, seg := range page.Segments {
		n := int(seg)
		if !or.dropping {
			cur = append(cur, page.Payload[off:off+n]...)
		}
		off += n
		if seg == 255 {
			continue
		}
		if !or.dropping && len(cur) > 0 {
			or.pending = append(or.pending, cur)
			completed = true
		}
		cur = nil
		or.dropping = false
	}
	or.partial = cur

	if completed {
		or.granule = page.GranulePos
	}
}

// readPage returns the next page from the underlying reader.
func (or *Reader) readPage() (*Page, error) {
	for {
		if or.end > or.off {
			page, n, err := ParsePage(or.buf[or.off:or.end])
			if err == nil {
				or.off += n
				return page, nil
			}
			if errors.Is(err, ErrBadCRC) || !or.incomplete() {
				return nil, err
			}
		}

		if or.off > 0 {
			copy(or.buf, or.buf[or.off:or.end])
			or.end -= or.off
			or.off = 0
		}
		n, err := or.r.Read(or.buf[or.end:])
		or.end += n
		if err != nil {
			if errors.Is(err, io.EOF) && n > 0 {
				continue
			}
			if errors.Is(err, io.EOF) && or.end > or.off {
				return nil, fmt.Errorf("%w: %d trailing bytes", ErrUnexpectedEOS, or.end-or.off)
			}
			return nil, err
		}
	}
}

// incomplete reports whether the buffered bytes are a prefix of a page.
func (or *Reader) incomplete() bool {
	data := or.buf[or.off:or.end]
	if len(data) < 4 {
		return string(data) == oggMagic[:len(data)]
	}
	if string(data[:4]) != oggMagic {
		return false
	}
	if len(data) < pageHeaderSize {
		return true
	}
	headerSize := pageHeaderSize + int(data[26])
	if len(data) < headerSize {
		return true
	}
	size := headerSize
	for _, seg := range data[pageHeaderSize:headerSize] {
		size += int(seg)
	}
	return len(data) < size
}

// Header returns the parsed identification header.
func (or *Reader) Header() *opushead.Header { return or.head }

// RawHeader returns the identification header packet as read.
func (or *Reader) RawHeader() []byte { return or.rawHead }

// InputSampleRate returns the informational pre-encode rate from the
// identification header. Decoding always runs at 48 kHz.
func (or *Reader) InputSampleRate() uint32 { return or.inputHz }

// Tags returns the parsed comment header.
func (or *Reader) Tags() *OpusTags { return or.tags }

// PreSkip returns the number of samples to discard at the start.
func (or *Reader) PreSkip() uint16 { return or.head.PreSkip }

// Channels returns the output channel count.
func (or *Reader) Channels() uint8 { return or.head.Channels }

// GranulePos returns the granule position of the last page that completed
// a packet.
func (or *Reader) GranulePos() uint64 { return or.granule }

// EOF reports whether the EOS page has been read.
func (or *Reader) EOF() bool { return or.eos }

// Serial returns the serial number of the followed bitstream.
func (or *Reader) Serial() uint32 { return or.serial }
