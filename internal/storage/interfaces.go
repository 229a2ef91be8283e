// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"

	"github.com/canonical/guest-access-service/internal/types"
)

// StorageInterface is the guest system of record. Every guest lookup or
// mutation is scoped by tenant: a guest that exists under another tenant
// yields ErrTenantMismatch, a missing one ErrNotFound, and an unreachable
// or slow backend ErrTransient.
type StorageInterface interface {
	GetGuestByID(ctx context.Context, guestID, tenantID string) (*types.Guest, error)
	// SetCheckedInIfAbsent moves the guest to checked_in at most once.
	// It returns true only for the call that made the transition.
	SetCheckedInIfAbsent(ctx context.Context, guestID, tenantID string) (bool, error)
	// UpdateGuestFields writes every field at once or none of them.
	UpdateGuestFields(ctx context.Context, guestID, tenantID string, fields *types.GuestFields) (*types.Guest, error)
	AppendScanEvent(ctx context.Context, event *types.ScanEvent) (*types.ScanEvent, error)
	ListScanEvents(ctx context.Context, tenantID, guestID string, page, size int64) ([]*types.ScanEvent, error)
	Ping(ctx context.Context) error
}
