// Package cuid2 generates prefixed, time-sortable identifiers for
// catalogs, versions and items (cat_..., ver_..., itm_...).
package cuid2

import (
	cryptorand "crypto/rand"
	"strings"
	"time"
)

// Base62 alphabet: 0-9, A-Z, a-z
const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// EncodeTimestampBase62 encodes a Unix timestamp (seconds) as a
// 6-character base62 string. Output is lexicographically sortable,
// which gives inserted rows B-tree index locality.
func EncodeTimestampBase62(timestampSeconds int64) string {
	n := timestampSeconds
	result := make([]byte, 6)
	for i := 5; i >= 0; i-- {
		result[i] = base62Alphabet[n%62]
		n /= 62
	}
	return string(result)
}

// randomBase62 generates a random base62 string using rejection
// sampling over 6-bit chunks for a uniform distribution.
func randomBase62(length int) string {
	bytesNeeded := (length*6)/8 + 4
	buf := make([]byte, bytesNeeded)
	if _, err := cryptorand.Read(buf); err != nil {
		panic("failed to read random bytes: " + err.Error())
	}

	var result strings.Builder
	bitBuffer := uint64(0)
	bitsInBuffer := uint(0)
	byteIndex := 0

	for result.Len() < length {
		for bitsInBuffer < 6 && byteIndex < len(buf) {
			bitBuffer = (bitBuffer << 8) | uint64(buf[byteIndex])
			bitsInBuffer += 8
			byteIndex++
		}

		value := (bitBuffer >> (bitsInBuffer - 6)) & 0x3f
		bitsInBuffer -= 6

		// Values 62 and 63 fall outside the alphabet; reject to
		// stay uniform
		if value < 62 {
			result.WriteByte(base62Alphabet[value])
		}

		if bitsInBuffer < 6 && byteIndex >= len(buf) {
			if _, err := cryptorand.Read(buf); err != nil {
				panic("failed to read random bytes: " + err.Error())
			}
			byteIndex = 0
			bitBuffer = 0
			bitsInBuffer = 0
		}
	}

	return result.String()
}

// PrefixedIDOptions for generating prefixed IDs.
type PrefixedIDOptions struct {
	// PureRandom skips the 6-char sortable timestamp prefix
	PureRandom bool
	// RandomLength of the random portion (default 18 when
	// time-sortable, 24 otherwise)
	RandomLength int
}

// GeneratePrefixedID generates a prefixed identifier. By default the
// random portion is preceded by a sortable timestamp.
//
//	GeneratePrefixedID("cat", PrefixedIDOptions{}) // "cat_0CL2KwaB3cD5eF7gH9iJ1k"
func GeneratePrefixedID(prefix string, options PrefixedIDOptions) string {
	randomLength := options.RandomLength

	if options.PureRandom {
		if randomLength == 0 {
			randomLength = 24
		}
		return prefix + "_" + randomBase62(randomLength)
	}

	if randomLength == 0 {
		randomLength = 18
	}
	timestamp := EncodeTimestampBase62(time.Now().Unix())
	return prefix + "_" + timestamp + randomBase62(randomLength)
}
