// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package staff

import (
	"context"

	"github.com/canonical/guest-access-service/internal/token"
	"github.com/canonical/guest-access-service/internal/types"
	"github.com/canonical/guest-access-service/pkg/access"
	"github.com/canonical/guest-access-service/pkg/surface"
)

type CodecInterface interface {
	Decode(raw string) (*token.Payload, error)
}

type StorageInterface interface {
	ListScanEvents(ctx context.Context, tenantID, guestID string, page, size int64) ([]*types.ScanEvent, error)
}

type AuthorizerInterface interface {
	CheckTenantAccess(ctx context.Context, tenantID, userID, relation string) (bool, error)
}

type ServiceInterface interface {
	IssueSurfaces(ctx context.Context, userID, tenantID string, req *IssueRequest) ([]*surface.Surface, error)
	RenderQR(ctx context.Context, userID, tenantID, guestID string, purpose types.Purpose, size int) ([]byte, error)
	Scan(ctx context.Context, userID, raw string, source types.ScanSource) (*access.Result, error)
	ListScans(ctx context.Context, userID, tenantID, guestID string, page, size int64) ([]*types.ScanEvent, error)
}
