// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package selfservice

import (
	"context"

	"github.com/canonical/guest-access-service/internal/types"
	"github.com/canonical/guest-access-service/pkg/access"
)

type StorageInterface interface {
	UpdateGuestFields(ctx context.Context, guestID, tenantID string, fields *types.GuestFields) (*types.Guest, error)
}

type ServiceInterface interface {
	Load(ctx context.Context, raw string, opts ...access.Option) *access.Result
	Submit(ctx context.Context, raw string, form *Form, opts ...access.Option) (*access.Result, error)
	Check(form *Form) error
}
