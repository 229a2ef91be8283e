// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package surface

import (
	"context"
	"time"

	"github.com/canonical/guest-access-service/internal/token"
	"github.com/canonical/guest-access-service/internal/types"
)

type CodecInterface interface {
	Issue(guestID, tenantID string, purpose types.Purpose, ttl time.Duration) (string, *token.Payload, error)
}

type GeneratorInterface interface {
	Generate(guestID, tenantID string, purpose types.Purpose, ttl time.Duration) (*Surface, error)
	GenerateBatch(ctx context.Context, tenantID string, guestIDs []string, purpose types.Purpose, ttl time.Duration) ([]*Surface, error)
	TTL(purpose types.Purpose, requested time.Duration) (time.Duration, error)
}
