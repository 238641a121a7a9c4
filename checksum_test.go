package xbeeapi

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksum(t *testing.T) {
	// AT command NH, frame ID 0x52.
	b := []byte{0x08, 0x52, 0x4E, 0x48}

	assert.Equal(t, byte(0x0F), Checksum(b))
	assert.True(t, ValidChecksum(b, 0x0F))
}

func TestChecksumEmpty(t *testing.T) {
	assert.Equal(t, byte(0xFF), Checksum(nil))
	assert.True(t, ValidChecksum(nil, 0xFF))
}

func TestChecksumBitFlip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		b := make([]byte, 1+rng.Intn(64))
		rng.Read(b)

		c := Checksum(b)

		if !ValidChecksum(b, c) {
			t.Fatalf("Checksum %02x of % x does not validate", c, b)
		}

		// A single bit flip changes the sum by a power of two, never a
		// multiple of 256, so it is always caught.
		bit := rng.Intn(8)
		pos := rng.Intn(len(b))

		f := append([]byte(nil), b...)
		f[pos] ^= 1 << bit

		if ValidChecksum(f, c) {
			t.Fatalf("Flipped bit %d of byte %d in % x went unnoticed", bit, pos, b)
		}

		if ValidChecksum(b, c^(1<<bit)) {
			t.Fatalf("Flipped bit %d of checksum for % x went unnoticed", bit, b)
		}
	}
}
