package pipeline

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// Primitive transforms a block-aligned buffer in place.
// Implementations must not retain state between calls so that workers can share one value.
type Primitive interface {
	Transform(buf []byte, key Key, dir Direction, mode Mode, seed Block) error
}

// AES is the AES-128 primitive. The seed is used as IV in CBC mode and ignored in ECB mode.
type AES struct{}

// Transform implements Primitive.
func (AES) Transform(buf []byte, key Key, dir Direction, mode Mode, seed Block) error {
	if len(buf)%BlockSize != 0 {
		return fmt.Errorf("%w: %d bytes", ErrMisalignedLength, len(buf))
	}

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return fmt.Errorf("%w: creating cipher: %w", ErrPrimitive, err)
	}

	switch mode {
	case ModeIndependent:
		for i := 0; i < len(buf); i += BlockSize {
			if dir == Forward {
				block.Encrypt(buf[i:i+BlockSize], buf[i:i+BlockSize])
			} else {
				block.Decrypt(buf[i:i+BlockSize], buf[i:i+BlockSize])
			}
		}
	case ModeChained:
		var blockMode cipher.BlockMode
		if dir == Forward {
			blockMode = cipher.NewCBCEncrypter(block, seed[:])
		} else {
			blockMode = cipher.NewCBCDecrypter(block, seed[:])
		}

		blockMode.CryptBlocks(buf, buf)
	default:
		return fmt.Errorf("%w: unsupported mode %s", ErrPrimitive, mode)
	}

	return nil
}
