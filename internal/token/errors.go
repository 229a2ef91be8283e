// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package token

import (
	"errors"
)

// Decode failures are kept distinct: each one gets its own remediation
// message on the guest landing page.
var (
	ErrMalformedToken   = errors.New("token is malformed")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrExpiredToken     = errors.New("token has expired")
)

// ExpiredTokenError is returned for a token that authenticated correctly but
// whose validity window has closed. The payload is only meant for the audit
// trail; nothing may be authorized from it.
type ExpiredTokenError struct {
	Payload *Payload
}

func (e *ExpiredTokenError) Error() string {
	return ErrExpiredToken.Error()
}

func (e *ExpiredTokenError) Unwrap() error {
	return ErrExpiredToken
}
