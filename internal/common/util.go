package common

import (
	"crypto/rand"
	"math/big"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// MakeRandBase36String generates a random base36 string of the given length
// from a cryptographic source. Used for the random suffix of record ids,
// which must stay collision-free without any coordination.
func MakeRandBase36String(size int) (string, error) {
	b := make([]byte, size)
	alphabetLen := big.NewInt(int64(len(base36Alphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		b[i] = base36Alphabet[n.Int64()]
	}
	return string(b), nil
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Use it to remove PINs, passphrases and derived keys from memory after use.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
