// Package cipher obfuscates the hourly word for storage. The shift key is
// derived from the public bucket id, so this hides the word from casual
// inspection of stored records only; it is not a security boundary.
package cipher

import (
	"encoding/base64"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

const alphabetSize = 26

// DecodeError reports a payload that is not valid for the storage encoding.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cipher: malformed payload: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// KeyFor derives the shift key for a bucket id: byte-sum modulo 26.
// Same bucket id, same key.
func KeyFor(bucketID string) int {
	sum := 0
	for i := 0; i < len(bucketID); i++ {
		sum += int(bucketID[i])
	}
	return sum % alphabetSize
}

// Encode lowercases the word, shifts it by the bucket's key, and wraps the
// result in base64 so the stored payload is an opaque printable string.
func Encode(word, bucketID string) string {
	shifted := shift(strings.ToLower(word), KeyFor(bucketID))
	return base64.StdEncoding.EncodeToString([]byte(shifted))
}

// Decode reverses Encode. It fails with a *DecodeError when the payload is
// not valid base64; the result is always lowercase.
func Decode(payload, bucketID string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", &DecodeError{Err: err}
	}
	return shift(string(raw), alphabetSize-KeyFor(bucketID)), nil
}

// ValidPayload reports whether a stored payload uses the encoding alphabet.
func ValidPayload(payload string) bool {
	_, err := base64.StdEncoding.DecodeString(payload)
	return err == nil
}

// Fingerprint returns a short radix-36 digest of lowercase(word)+bucketID,
// for cross-checking a record without revealing the plaintext.
func Fingerprint(word, bucketID string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(word) + bucketID))
	return strconv.FormatUint(uint64(h.Sum32()), 36)
}

// VerifyFingerprint checks a word against a stored fingerprint,
// case-insensitive on the word.
func VerifyFingerprint(word, fingerprint, bucketID string) bool {
	return Fingerprint(word, bucketID) == fingerprint
}

// shift applies a Caesar shift of k positions to the ASCII letters of s.
// Anything that is not a lowercase or uppercase letter passes through.
func shift(s string, k int) string {
	k = ((k % alphabetSize) + alphabetSize) % alphabetSize
	out := []byte(s)
	for i, c := range out {
		switch {
		case c >= 'a' && c <= 'z':
			out[i] = 'a' + (c-'a'+byte(k))%alphabetSize
		case c >= 'A' && c <= 'Z':
			out[i] = 'A' + (c-'A'+byte(k))%alphabetSize
		}
	}
	return string(out)
}
