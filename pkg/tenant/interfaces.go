// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"
)

type ServiceInterface interface {
	AddMember(ctx context.Context, actorID, tenantID string, req *MemberRequest) (*Member, error)
	RemoveMember(ctx context.Context, actorID, tenantID, userID string) error
}

type AuthzInterface interface {
	CheckTenantAccess(ctx context.Context, tenantId, userId, relation string) (bool, error)
	AssignTenantOwner(ctx context.Context, tenantId, userId string) error
	AssignTenantStaff(ctx context.Context, tenantId, userId string) error
	RemoveTenantStaff(ctx context.Context, tenantId, userId string) error
}

type KratosClientInterface interface {
	GetIdentityIDByEmail(ctx context.Context, email string) (string, error)
	CreateIdentity(ctx context.Context, email string) (string, error)
	CreateRecoveryLink(ctx context.Context, identityID string, expiresIn string) (string, string, error)
}
