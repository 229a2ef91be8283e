// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package access

import (
	"errors"

	"github.com/canonical/guest-access-service/internal/token"
	"github.com/canonical/guest-access-service/internal/types"
)

// ErrPurposeMismatch is reported for an authentic token presented to a surface
// it was not minted for.
var ErrPurposeMismatch = errors.New("token purpose not accepted here")

// Result is the outcome of one validation. Payload and Guest are only set
// when the outcome is success or duplicate.
type Result struct {
	Outcome types.ScanOutcome
	Payload *token.Payload
	Guest   *types.Guest
	Err     error

	// audited is the authenticated payload, expired ones included, used to
	// attribute the scan event
	audited *token.Payload
}

// Granted reports whether the token authorized access to the guest.
func (r *Result) Granted() bool {
	return r.Outcome == types.OutcomeSuccess || r.Outcome == types.OutcomeDuplicate
}
