// Package domain contains the core types of the translation cache.
package domain

import (
	"crypto/md5" //nolint:gosec // content address, not a security boundary
	"encoding/hex"
	"strings"

	"go.trai.ch/zerr"
)

// KeyLength is the length of a hex encoded cache key.
const KeyLength = md5.Size * 2

// trailingSpace is the set of characters stripped from the end of every text
// before it is hashed or stored.
const trailingSpace = "\r\n "

// Key addresses a stored translation. It is the hex digest of the canonical
// source text.
type Key string

// String returns the hex form of the key.
func (k Key) String() string {
	return string(k)
}

// Canonicalize strips trailing carriage returns, newlines and spaces.
// Nothing else is normalized: leading whitespace, case and Unicode form are kept.
func Canonicalize(text string) string {
	return strings.TrimRight(text, trailingSpace)
}

// DeriveKey returns the cache key for text.
// Texts differing only in trailing whitespace share a key.
func DeriveKey(text string) Key {
	sum := md5.Sum([]byte(Canonicalize(text))) //nolint:gosec // see import
	return Key(hex.EncodeToString(sum[:]))
}

// ParseKey validates s as a cache key.
func ParseKey(s string) (Key, error) {
	if len(s) != KeyLength {
		return "", zerr.With(zerr.Wrap(ErrInvalidKey, "parse key"), "key", s)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", zerr.With(zerr.Wrap(ErrInvalidKey, "parse key"), "key", s)
		}
	}
	return Key(s), nil
}
