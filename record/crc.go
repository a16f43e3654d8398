package record

import "hash/crc32"

// The checksum domain is CRC-32 with the Castagnoli polynomial computed
// over the fragment type byte followed by the payload bytes.
var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// maskDelta is the constant added when masking a CRC for storage.
const maskDelta = 0xa282ead8

// MaskCRC returns the stored form of a CRC: rotated right by 15 bits with
// maskDelta added. Storing raw CRCs is problematic when the data itself
// contains embedded CRCs; the rotation and offset break that identity.
func MaskCRC(crc uint32) uint32 {
	return ((crc >> 15) | (crc << 17)) + maskDelta
}

// UnmaskCRC inverts MaskCRC.
func UnmaskCRC(masked uint32) uint32 {
	rot := masked - maskDelta
	return (rot >> 17) | (rot << 15)
}

func crcValue(p []byte) uint32 {
	return crc32.Checksum(p, castagnoli)
}

func crcExtend(crc uint32, p []byte) uint32 {
	return crc32.Update(crc, castagnoli, p)
}

// fragmentCRC computes the unmasked checksum of a fragment.
func fragmentCRC(t Type, p []byte) uint32 {
	return crcExtend(crcValue([]byte{byte(t)}), p)
}
