// errors.go defines the errors returned by Parse and Write.

package opushead

import "errors"

// Parse errors, in the order Parse checks for them.
var (
	// ErrTooShort indicates the buffer is smaller than the 19-byte fixed region.
	ErrTooShort = errors.New("opushead: header too short")

	// ErrInvalidChannelCount indicates a channel count of 0 or more than 8.
	// The limit comes from the Vorbis channel mapping table.
	ErrInvalidChannelCount = errors.New("opushead: invalid channel count (must be 1-8)")

	// ErrMissingStreamMap indicates mapping family 0 with more than 2 channels.
	// The implicit layout only covers mono and stereo.
	ErrMissingStreamMap = errors.New("opushead: missing stream map")

	// ErrTruncatedStreamMap indicates the buffer ends before the stream map
	// declared by the channel count.
	ErrTruncatedStreamMap = errors.New("opushead: truncated stream map")

	// ErrInconsistentStreamMap indicates stream count plus coupled count
	// does not equal the channel count.
	ErrInconsistentStreamMap = errors.New("opushead: inconsistent stream map")
)

// ErrBufferTooSmall indicates the output buffer cannot hold the header.
// The buffer must be at least BufferSize(channels) bytes.
var ErrBufferTooSmall = errors.New("opushead: output buffer too small")
