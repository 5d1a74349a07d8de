package pipeline

import (
	"fmt"
	"strings"
)

// Mode selects how blocks relate to each other within a partition.
type Mode byte

const (
	// ModeIndependent transforms every block on its own (ECB).
	ModeIndependent Mode = iota
	// ModeChained chains blocks sequentially within a partition (CBC).
	ModeChained
)

// String returns the conventional cipher mode name.
func (m Mode) String() string {
	switch m {
	case ModeIndependent:
		return "ECB"
	case ModeChained:
		return "CBC"
	default:
		return fmt.Sprintf("Mode(%d)", byte(m))
	}
}

// ParseMode accepts "ecb" or "cbc" in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ECB":
		return ModeIndependent, nil
	case "CBC":
		return ModeChained, nil
	default:
		return 0, fmt.Errorf("unknown mode %q: must be ECB or CBC", s)
	}
}

// Direction selects encryption or decryption.
type Direction byte

const (
	// Forward encrypts.
	Forward Direction = iota
	// Inverse decrypts.
	Inverse
)

func (d Direction) String() string {
	if d == Inverse {
		return "decrypt"
	}

	return "encrypt"
}

// ParseDirection accepts "encrypt" or "decrypt" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "encrypt", "enc":
		return Forward, nil
	case "decrypt", "dec":
		return Inverse, nil
	default:
		return 0, fmt.Errorf("unknown operation %q: must be encrypt or decrypt", s)
	}
}
