// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package token

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/canonical/guest-access-service/internal/types"
)

// formatVersion prefixes every sealed token and is bound into the AEAD as
// additional data.
const formatVersion byte = 1

const (
	nonceSize = chacha20poly1305.NonceSizeX
	// minSealedSize is version byte, nonce and tag around an empty plaintext.
	minSealedSize = 1 + nonceSize + chacha20poly1305.Overhead
)

var encoding = base64.RawURLEncoding.Strict()

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic("token: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic("token: CBOR decoder initialization failed: " + err.Error())
	}
}

// Payload is what a token carries. It is never stored; the token is the only copy.
type Payload struct {
	GuestID   string
	TenantID  string
	Purpose   types.Purpose
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// wirePayload is the sealed form. Times are unix milliseconds.
type wirePayload struct {
	GuestID   string `cbor:"1,keyasint"`
	TenantID  string `cbor:"2,keyasint"`
	Purpose   string `cbor:"3,keyasint"`
	IssuedAt  int64  `cbor:"4,keyasint"`
	ExpiresAt int64  `cbor:"5,keyasint"`
}

func (w *wirePayload) payload() *Payload {
	return &Payload{
		GuestID:   w.GuestID,
		TenantID:  w.TenantID,
		Purpose:   types.Purpose(w.Purpose),
		IssuedAt:  time.UnixMilli(w.IssuedAt).UTC(),
		ExpiresAt: time.UnixMilli(w.ExpiresAt).UTC(),
	}
}

type Option func(*Codec)

// WithClock replaces time.Now, for deterministic expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// WithRandom replaces the nonce source.
func WithRandom(r io.Reader) Option {
	return func(c *Codec) {
		c.random = r
	}
}

// Codec seals and opens guest tokens. It is safe for concurrent use and
// immutable once built.
type Codec struct {
	// keys[0] seals, every entry opens
	keys []cipher.AEAD

	now    func() time.Time
	random io.Reader
}

func NewCodec(primary []byte, retired [][]byte, opts ...Option) (*Codec, error) {
	c := new(Codec)
	c.now = time.Now
	c.random = rand.Reader

	for i, k := range append([][]byte{primary}, retired...) {
		aead, err := chacha20poly1305.NewX(k)
		if err != nil {
			return nil, fmt.Errorf("invalid token key %d: %w", i, err)
		}
		c.keys = append(c.keys, aead)
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Encode mints a token for the guest, valid for ttl from now.
func (c *Codec) Encode(guestID, tenantID string, purpose types.Purpose, ttl time.Duration) (string, error) {
	raw, _, err := c.Issue(guestID, tenantID, purpose, ttl)
	return raw, err
}

// Issue is Encode that also hands back the payload it sealed.
func (c *Codec) Issue(guestID, tenantID string, purpose types.Purpose, ttl time.Duration) (string, *Payload, error) {
	if guestID == "" || tenantID == "" {
		return "", nil, fmt.Errorf("guest id and tenant id are required")
	}

	if !purpose.Valid() {
		return "", nil, fmt.Errorf("unknown token purpose %q", purpose)
	}

	if ttl < time.Millisecond {
		return "", nil, fmt.Errorf("token ttl must be at least 1ms, got %v", ttl)
	}

	now := c.now()
	w := wirePayload{
		GuestID:   guestID,
		TenantID:  tenantID,
		Purpose:   string(purpose),
		IssuedAt:  now.UnixMilli(),
		ExpiresAt: now.Add(ttl).UnixMilli(),
	}

	plaintext, err := encMode.Marshal(&w)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode token payload: %w", err)
	}

	sealed := make([]byte, 1+nonceSize, minSealedSize+len(plaintext))
	sealed[0] = formatVersion
	nonce := sealed[1 : 1+nonceSize]
	if _, err := io.ReadFull(c.random, nonce); err != nil {
		return "", nil, fmt.Errorf("failed to generate token nonce: %w", err)
	}

	sealed = c.keys[0].Seal(sealed, nonce, plaintext, []byte{formatVersion})

	return encoding.EncodeToString(sealed), w.payload(), nil
}

// Decode authenticates the token before reading any field, then checks the
// validity window. Failures are ErrMalformedToken, ErrInvalidSignature or an
// *ExpiredTokenError.
func (c *Codec) Decode(raw string) (*Payload, error) {
	if raw == "" || strings.IndexFunc(raw, notURLSafe) >= 0 {
		return nil, ErrMalformedToken
	}

	sealed, err := encoding.DecodeString(raw)
	if err != nil {
		return nil, ErrMalformedToken
	}

	if len(sealed) < minSealedSize || sealed[0] != formatVersion {
		return nil, ErrMalformedToken
	}

	nonce := sealed[1 : 1+nonceSize]
	ciphertext := sealed[1+nonceSize:]
	additional := sealed[:1]

	var plaintext []byte
	opened := false
	for _, aead := range c.keys {
		if plaintext, err = aead.Open(nil, nonce, ciphertext, additional); err == nil {
			opened = true
			break
		}
	}

	if !opened {
		return nil, ErrInvalidSignature
	}

	var w wirePayload
	if err := decMode.Unmarshal(plaintext, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	if w.GuestID == "" || w.TenantID == "" || !types.Purpose(w.Purpose).Valid() || w.ExpiresAt <= w.IssuedAt {
		return nil, ErrMalformedToken
	}

	p := w.payload()
	if !c.now().Before(p.ExpiresAt) {
		return nil, &ExpiredTokenError{Payload: p}
	}

	return p, nil
}

// IsTokenError reports whether err came from Decode rejecting the token itself.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrMalformedToken) || errors.Is(err, ErrInvalidSignature) || errors.Is(err, ErrExpiredToken)
}

func notURLSafe(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		return false
	}
	return true
}
