package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// RandomWord returns 32 random bytes in hex, the same width as the word
// delivered by an on-chain randomness oracle.
func RandomWord() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// DecodeWord parses a hex random word, with or without the 0x prefix. Shorter
// words are left padded to 32 bytes.
func DecodeWord(word string) ([]byte, error) {
	word = strings.TrimPrefix(strings.TrimPrefix(word, "0x"), "0X")
	if len(word)%2 == 1 {
		word = "0" + word
	}

	b, err := hex.DecodeString(word)
	if err != nil {
		return nil, err
	}

	if len(b) > 32 {
		return nil, hex.ErrLength
	}

	padded := make([]byte, 32)
	copy(padded[32-len(b):], b)
	return padded, nil
}
