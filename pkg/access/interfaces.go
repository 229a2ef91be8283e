// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package access

import (
	"context"

	"github.com/canonical/guest-access-service/internal/token"
	"github.com/canonical/guest-access-service/internal/types"
)

type CodecInterface interface {
	Decode(raw string) (*token.Payload, error)
}

// StorageInterface is the slice of the guest store the validator needs.
type StorageInterface interface {
	GetGuestByID(ctx context.Context, guestID, tenantID string) (*types.Guest, error)
	AppendScanEvent(ctx context.Context, event *types.ScanEvent) (*types.ScanEvent, error)
}

type ValidatorInterface interface {
	Validate(ctx context.Context, raw string, opts ...Option) *Result
}
