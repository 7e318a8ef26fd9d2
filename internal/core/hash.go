package core

import (
	"strconv"
	"unicode/utf16"
)

const (
	fnvOffset32 uint32 = 0x811c9dc5
	fnvPrime32  uint32 = 0x01000193

	hashLength = 7
)

// FNV1a32 mixes the UTF-16 code units of s with the 32-bit FNV-1a
// parameters.
func FNV1a32(s string) uint32 {
	h := fnvOffset32
	for _, unit := range utf16.Encode([]rune(s)) {
		h ^= uint32(unit)
		h *= fnvPrime32
	}
	return h
}

// Hash7 returns the base-36 digest of s cut to at most 7 characters.
// Digests below 36^6 are shorter and are not padded.
func Hash7(s string) string {
	digest := strconv.FormatUint(uint64(FNV1a32(s)), 36)
	if len(digest) > hashLength {
		return digest[:hashLength]
	}
	return digest
}
