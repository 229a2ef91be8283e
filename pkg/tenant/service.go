// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"context"
	"fmt"

	"github.com/canonical/guest-access-service/internal/authorization"
	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/tracing"
)

var _ ServiceInterface = (*Service)(nil)

// Service manages who may act for a tenant. Memberships live only in the
// authorization store.
type Service struct {
	authz              AuthzInterface
	kratos             KratosClientInterface
	invitationLifetime string
	tracer             tracing.TracingInterface
	monitor            monitoring.MonitorInterface
	logger             logging.LoggerInterface
}

// AddMember grants role to the user named in req. An email with no matching
// identity provisions one and returns a recovery link as the invitation.
func (s *Service) AddMember(ctx context.Context, actorID, tenantID string, req *MemberRequest) (*Member, error) {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.AddMember")
	defer span.End()

	if err := s.authorize(ctx, actorID, tenantID); err != nil {
		return nil, err
	}

	member := &Member{TenantID: tenantID, UserID: req.UserID, Role: req.Role}

	if member.UserID == "" {
		if err := s.resolve(ctx, req.Email, member); err != nil {
			return nil, err
		}
	}

	var err error
	switch req.Role {
	case RoleOwner:
		err = s.authz.AssignTenantOwner(ctx, tenantID, member.UserID)
	case RoleStaff:
		err = s.authz.AssignTenantStaff(ctx, tenantID, member.UserID)
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidRequest, req.Role)
	}

	if err != nil {
		s.logger.Errorf("Failed to assign role in authz: %v", err)
		return nil, fmt.Errorf("failed to assign permissions: %w", err)
	}

	s.logger.Infow("tenant member added", "tenant_id", tenantID, "user_id", member.UserID, "role", req.Role, "actor_id", actorID)

	return member, nil
}

// RemoveMember revokes staff access. Owners are not removed through here.
func (s *Service) RemoveMember(ctx context.Context, actorID, tenantID, userID string) error {
	ctx, span := s.tracer.Start(ctx, "tenant.Service.RemoveMember")
	defer span.End()

	if err := s.authorize(ctx, actorID, tenantID); err != nil {
		return err
	}

	if err := s.authz.RemoveTenantStaff(ctx, tenantID, userID); err != nil {
		s.logger.Errorf("Failed to remove role in authz: %v", err)
		return fmt.Errorf("failed to remove permissions: %w", err)
	}

	s.logger.Infow("tenant member removed", "tenant_id", tenantID, "user_id", userID, "actor_id", actorID)

	return nil
}

func (s *Service) resolve(ctx context.Context, email string, member *Member) error {
	if s.kratos == nil {
		return fmt.Errorf("%w: email invitations need an identity provider, use user_id", ErrInvalidRequest)
	}

	identityID, err := s.kratos.GetIdentityIDByEmail(ctx, email)
	if err != nil {
		s.logger.Errorf("Failed to check identity existence: %v", err)
		return fmt.Errorf("failed to check identity: %w", err)
	}

	if identityID != "" {
		member.UserID = identityID
		return nil
	}

	s.logger.Infof("Creating new identity for invited member of tenant %s", member.TenantID)

	identityID, err = s.kratos.CreateIdentity(ctx, email)
	if err != nil {
		s.logger.Errorf("Failed to create identity: %v", err)
		return fmt.Errorf("failed to provision user: %w", err)
	}

	link, code, err := s.kratos.CreateRecoveryLink(ctx, identityID, s.invitationLifetime)
	if err != nil {
		s.logger.Errorf("Failed to create recovery link: %v", err)
		return fmt.Errorf("failed to generate invitation link: %w", err)
	}

	member.UserID = identityID
	member.InvitationLink = link
	member.InvitationCode = code

	return nil
}

func (s *Service) authorize(ctx context.Context, actorID, tenantID string) error {
	allowed, err := s.authz.CheckTenantAccess(ctx, tenantID, actorID, authorization.CAN_ISSUE_PERMISSION)
	if err != nil {
		return fmt.Errorf("failed to check tenant access: %w", err)
	}

	if !allowed {
		return ErrForbidden
	}

	return nil
}

// NewService builds the member service. kratos may be nil, in which case
// members can only be added by user id.
func NewService(
	authz AuthzInterface,
	kratos KratosClientInterface,
	invitationLifetime string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		authz:              authz,
		kratos:             kratos,
		invitationLifetime: invitationLifetime,
		tracer:             tracer,
		monitor:            monitor,
		logger:             logger,
	}
}
