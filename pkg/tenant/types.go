// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import "errors"

const (
	RoleOwner = "owner"
	RoleStaff = "staff"
)

var (
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidRequest = errors.New("invalid request")
)

// MemberRequest grants a role on a tenant to an existing user id or, when an
// identity provider is configured, to an email address.
type MemberRequest struct {
	UserID string `json:"user_id" validate:"required_without=Email,omitempty,max=128"`
	Email  string `json:"email" validate:"required_without=UserID,omitempty,email"`
	Role   string `json:"role" validate:"required,oneof=owner staff"`
}

type Member struct {
	TenantID       string `json:"tenant_id"`
	UserID         string `json:"user_id"`
	Role           string `json:"role"`
	InvitationLink string `json:"invitation_link,omitempty"`
	InvitationCode string `json:"invitation_code,omitempty"`
}
