// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxVoterTokenLen bounds the opaque voter token in bytes
const MaxVoterTokenLen = 256

var ErrInvalidToken = errors.New("invalid voter token")

// NormalizeVoterToken trims surrounding whitespace. An empty result means
// an anonymous vote and is not an error.
func NormalizeVoterToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if len(token) > MaxVoterTokenLen {
		return "", ErrInvalidToken
	}
	if !utf8.ValidString(token) {
		return "", ErrInvalidToken
	}
	for _, r := range token {
		if r < 0x20 || r == 0x7f {
			return "", ErrInvalidToken
		}
	}
	return token, nil
}

// HashVoterToken returns the HMAC-SHA256 digest of token, hex encoded.
// The same token and salt always produce the same digest, so uniqueness
// on the stored value still deduplicates repeat voters.
func HashVoterToken(token, salt string) string {
	if token == "" {
		return ""
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(token))
	return hex.EncodeToString(h.Sum(nil))
}
