package ogg

// Ogg pages carry a CRC-32 with polynomial 0x04C11DB7, initial value 0, no
// reflection and no final XOR. hash/crc32 only implements reflected CRCs,
// so the table is built here.

var crcTable = makeCRCTable(0x04C11DB7)

func makeCRCTable(poly uint32) *[256]uint32 {
	var t [256]uint32
	for i := range t {
		crc := uint32(i) << 24
		for range 8 {
			if crc&0x80000000 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return &t
}

// crcUpdate continues a running checksum over data.
func crcUpdate(crc uint32, data []byte) uint32 {
	for _, b := range data {
		crc = crc<<8 ^ crcTable[byte(crc>>24)^b]
	}
	return crc
}

// pageCRC computes the checksum of an encoded page, treating the checksum
// field (bytes 22-25) as zero.
func pageCRC(page []byte) uint32 {
	var zero [4]byte
	crc := crcUpdate(0, page[:crcOffset])
	crc = crcUpdate(crc, zero[:])
	return crcUpdate(crc, page[crcOffset+4:])
}
