// Package ogg reads and writes Ogg Opus streams (RFC 7845 over RFC 3533).
//
// A stream starts with two header packets, each beginning a page of its own:
//   - OpusHead, on the BOS page, decoded and encoded by package opushead
//   - OpusTags, the vendor string and "KEY=value" comments
//
// Audio packets follow. Each page's granule position counts the samples
// at 48 kHz decoded up to the last packet ending on that page.
//
// # Pages
//
// Packets are laced into segments of up to 255 bytes. A segment of 255
// means the packet goes on; a shorter one ends it, so a packet whose
// length is a multiple of 255 ends with a zero segment. A page holds at
// most 255 segments; longer packets continue on the next page with the
// continuation flag set.
//
// The page CRC uses polynomial 0x04C11DB7 without reflection, computed
// over the page with the CRC field zeroed.
//
// # Headers
//
// Reader checks the "OpusHead" signature and the major version itself and
// leaves the rest of the identification header to opushead.Parse. Writer
// always emits the canonical header produced by opushead.Write: mapping
// family 0 for mono and stereo, family 1 with one stream per channel for
// 3-8 channels.
package ogg
