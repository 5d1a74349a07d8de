package pipeline

// BlockSize is the unit handed to the cipher primitive.
const BlockSize = 16

// Key is normalized AES-128 key material.
type Key [BlockSize]byte

// Block is a single cipher block, used as the chaining seed in CBC mode.
type Block [BlockSize]byte

// ZeroSeed is the chaining seed every worker's CBC stream starts from.
//
//nolint:gochecknoglobals
var ZeroSeed Block

// NormalizeKey zero-pads raw on the right or truncates it to BlockSize bytes.
func NormalizeKey(raw []byte) Key {
	var key Key

	copy(key[:], raw)

	return key
}

// aligned returns n rounded down to a multiple of BlockSize.
func aligned(n int) int {
	return n - n%BlockSize
}
