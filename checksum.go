package xbeeapi

// Sum adds the bytes of b, discarding overflow.
func Sum(b []byte) byte {
	var sum byte

	for _, c := range b {
		sum += c
	}

	return sum
}

// Checksum computes the checksum of the frame type and payload bytes in b.
func Checksum(b []byte) byte {
	return 0xFF - Sum(b)
}

// ValidChecksum reports whether c is the checksum of b.
func ValidChecksum(b []byte, c byte) bool {
	return Sum(b)+c == 0xFF
}
