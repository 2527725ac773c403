package ipf

import "hash/crc32"

// Compressed IPF payloads are obfuscated with a PKZIP-style rolling
// keystream seeded from a fixed password baked into the client. Only
// every second byte is transformed; the key state rolls forward on the
// plaintext byte.
var password = [20]byte{
	0x6F, 0x66, 0x4F, 0x31, 0x61, 0x30, 0x75, 0x65, 0x58, 0x41,
	0x3F, 0x20, 0x5B, 0xFF, 0x73, 0x20, 0x68, 0x20, 0x25, 0x3F,
}

var crcTable = crc32.MakeTable(crc32.IEEE)

type keyState [3]uint32

func newKeyState() keyState {
	k := keyState{0x12345678, 0x23456789, 0x34567890}
	for _, b := range password {
		k.roll(b)
	}
	return k
}

func (k *keyState) roll(b byte) {
	k[0] = crcTable[byte(k[0])^b] ^ (k[0] >> 8)
	k[1] = 0x08088405*(uint32(byte(k[0]))+k[1]) + 1
	k[2] = crcTable[byte(k[2])^byte(k[1]>>24)] ^ (k[2] >> 8)
}

func (k *keyState) streamByte() byte {
	v := (k[2] & 0xFFFD) | 2
	return byte((v * (v ^ 1)) >> 8)
}

// decrypt transforms an obfuscated payload in place.
func decrypt(buf []byte) {
	if len(buf) == 0 {
		return
	}
	k := newKeyState()
	n := (len(buf)-1)/2 + 1
	for i := 0; i < n; i++ {
		idx := i * 2
		buf[idx] ^= k.streamByte()
		k.roll(buf[idx])
	}
}
