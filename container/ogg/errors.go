package ogg

import "errors"

// Package-level errors for Ogg parsing and encoding.
var (
	// ErrInvalidPage indicates the page structure is malformed: missing
	// "OggS" capture pattern, truncated data, or a page out of place.
	ErrInvalidPage = errors.New("ogg: invalid page structure")

	// ErrInvalidHeader indicates the OpusHead or OpusTags packet is
	// malformed. Errors from opushead.Parse are wrapped with it, so both
	// errors.Is(err, ErrInvalidHeader) and the specific opushead error match.
	ErrInvalidHeader = errors.New("ogg: invalid Opus header")

	// ErrBadCRC indicates the page checksum does not match its contents.
	ErrBadCRC = errors.New("ogg: CRC mismatch")

	// ErrUnexpectedEOS indicates the stream ended in the middle of the
	// headers or a write was attempted after Close.
	ErrUnexpectedEOS = errors.New("ogg: unexpected end of stream")

	// ErrInvalidPacket indicates an Opus packet whose TOC byte cannot be
	// turned into a duration, or a granule position that moves backwards.
	ErrInvalidPacket = errors.New("ogg: invalid Opus packet")
)
