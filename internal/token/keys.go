// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the length in bytes of a token key.
const KeySize = chacha20poly1305.KeySize

// GenerateKey returns a fresh random key, base64 encoded for use in TOKEN_KEY.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to read random key: %w", err)
	}

	return base64.StdEncoding.EncodeToString(key), nil
}

// ParseKey decodes a base64 key in either the standard or URL-safe alphabet,
// with or without padding.
func ParseKey(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("empty token key")
	}

	var key []byte
	var err error
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if key, err = enc.DecodeString(value); err == nil {
			break
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode token key: %w", err)
	}

	if len(key) != KeySize {
		return nil, fmt.Errorf("token key must be %d bytes, got %d", KeySize, len(key))
	}

	return key, nil
}

// ParseKeys parses the primary key followed by any retired keys.
func ParseKeys(primary string, retired []string) ([]byte, [][]byte, error) {
	p, err := ParseKey(primary)
	if err != nil {
		return nil, nil, fmt.Errorf("primary key: %w", err)
	}

	var r [][]byte
	for i, v := range retired {
		if strings.TrimSpace(v) == "" {
			continue
		}

		k, err := ParseKey(v)
		if err != nil {
			return nil, nil, fmt.Errorf("retired key %d: %w", i, err)
		}
		r = append(r, k)
	}

	return p, r, nil
}
