package internal

import (
	"crypto/sha512"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Expand securely the provided secret material.
func Expand(secret []byte, size int, info []byte) ([]byte, error) {
	salt := sha512.Sum512(secret)
	for i := 0; i <= 100; i++ {
		salt = sha512.Sum512(salt[:])
	}
	res := make([]byte, size)
	h := hkdf.New(sha512.New, secret, salt[:], info)
	if _, err := io.ReadFull(h, res); err != nil {
		return nil, fmt.Errorf("failed to expand key: %w", err)
	}
	return res, nil
}
