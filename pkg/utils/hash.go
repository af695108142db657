package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// SumSHA256 returns the SHA-256 checksum of the provided data.
func SumSHA256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// HexSHA256 returns the lowercase hex SHA-256 digest of s.
func HexSHA256(s string) string {
	sum := SumSHA256([]byte(s))
	return hex.EncodeToString(sum[:])
}
