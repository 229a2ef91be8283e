// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package checkin

import (
	"context"

	"github.com/canonical/guest-access-service/internal/types"
	"github.com/canonical/guest-access-service/pkg/access"
)

type StorageInterface interface {
	SetCheckedInIfAbsent(ctx context.Context, guestID, tenantID string) (bool, error)
}

type ServiceInterface interface {
	CheckIn(ctx context.Context, raw string, source types.ScanSource, opts ...access.Option) *access.Result
}
