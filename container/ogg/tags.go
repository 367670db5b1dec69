package ogg

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	opusTagsMagic = "OpusTags"

	// DefaultVendor is written when WriterConfig.Vendor is empty.
	DefaultVendor = "opushead"
)

// Comment is one "KEY=value" entry of the comment header.
type Comment struct {
	Key   string
	Value string
}

// OpusTags is the comment header, the second packet of an Ogg Opus stream.
//
//	Bytes 0-7:   "OpusTags"
//	Bytes 8-11:  Vendor string length
//	Bytes 12+:   Vendor string
//	Next 4:      Comment count
//	For each comment: 4-byte length, then "KEY=value"
type OpusTags struct {
	Vendor string

	// Comments keeps the order found in the stream. Keys may repeat.
	Comments []Comment
}

// Get returns the value of the first comment whose key matches, ignoring
// ASCII case as the Vorbis comment format requires.
func (t *OpusTags) Get(key string) (string, bool) {
	for _, c := range t.Comments {
		if strings.EqualFold(c.Key, key) {
			return c.Value, true
		}
	}
	return "", false
}

// Add appends a comment.
func (t *OpusTags) Add(key, value string) {
	t.Comments = append(t.Comments, Comment{Key: key, Value: value})
}

// Encode serializes the comment header.
func (t *OpusTags) Encode() []byte {
	size := len(opusTagsMagic) + 4 + len(t.Vendor) + 4
	for _, c := range t.Comments {
		size += 4 + len(c.Key) + 1 + len(c.Value)
	}

	data := make([]byte, 0, size)
	data = append(data, opusTagsMagic...)
	data = appendString(data, t.Vendor)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(t.Comments)))
	for _, c := range t.Comments {
		data = appendString(data, c.Key+"="+c.Value)
	}
	return data
}

func appendString(b []byte, s string) []byte {
	b = binary.LittleEndian.AppendUint32(b, uint32(len(s)))
	return append(b, s...)
}

// ParseOpusTags decodes a comment header. Comments without '=' are
// skipped. It returns ErrInvalidHeader if the packet is malformed.
func ParseOpusTags(data []byte) (*OpusTags, error) {
	if len(data) < len(opusTagsMagic) || string(data[:len(opusTagsMagic)]) != opusTagsMagic {
		return nil, fmt.Errorf("%w: missing OpusTags signature", ErrInvalidHeader)
	}
	r := tagReader{data: data, off: len(opusTagsMagic)}

	vendor, ok := r.string()
	if !ok {
		return nil, fmt.Errorf("%w: truncated vendor string", ErrInvalidHeader)
	}
	count, ok := r.uint32()
	if !ok {
		return nil, fmt.Errorf("%w: truncated comment count", ErrInvalidHeader)
	}
	// Each comment needs at least its 4-byte length.
	if uint64(count)*4 > uint64(len(data)-r.off) {
		return nil, fmt.Errorf("%w: %d comments do not fit in %d bytes", ErrInvalidHeader, count, len(data))
	}

	t := &OpusTags{Vendor: vendor}
	for i := range count {
		s, ok := r.string()
		if !ok {
			return nil, fmt.Errorf("%w: truncated comment %d", ErrInvalidHeader, i)
		}
		key, value, found := strings.Cut(s, "=")
		if !found {
			continue
		}
		t.Comments = append(t.Comments, Comment{Key: key, Value: value})
	}
	return t, nil
}

type tagReader struct {
	data []byte
	off  int
}

func (r *tagReader) uint32() (uint32, bool) {
	if len(r.data)-r.off < 4 {
		return 0, false
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, true
}

func (r *tagReader) string() (string, bool) {
	n, ok := r.uint32()
	if !ok || uint64(n) > uint64(len(r.data)-r.off) {
		return "", false
	}
	s := string(r.data[r.off : r.off+int(n)])
	r.off += int(n)
	return s, true
}
