// Package checksum computes and compares the MD5 content digests that mod
// metadata pages publish for their files.
package checksum

import (
	"crypto/md5" //nolint:gosec // the remote reports MD5; we must reproduce it bit-for-bit
	"encoding/hex"
	"io"
	"strings"
)

// Size is the length of a hex-encoded digest.
const Size = md5.Size * 2

// Sum returns the lowercase hex MD5 digest of data.
func Sum(data []byte) string {
	h := md5.Sum(data) //nolint:gosec
	return hex.EncodeToString(h[:])
}

// SumReader hashes everything r yields.
func SumReader(r io.Reader) (string, error) {
	h := md5.New() //nolint:gosec
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify reports whether data hashes to expectedHex. Case and surrounding whitespace
// in expectedHex are ignored.
func Verify(data []byte, expectedHex string) bool {
	return Sum(data) == Normalize(expectedHex)
}

// Normalize lowercases and trims a hex digest.
func Normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// IsHex reports whether s is a well-formed digest of the expected length.
func IsHex(s string) bool {
	s = Normalize(s)
	if len(s) != Size {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
