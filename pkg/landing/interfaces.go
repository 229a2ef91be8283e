// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package landing

import (
	"github.com/canonical/guest-access-service/internal/token"
)

// CodecInterface is used to route a token to the surface it was minted for
// before the surface validates it.
type CodecInterface interface {
	Decode(raw string) (*token.Payload, error)
}
