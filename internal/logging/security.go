// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"go.uber.org/zap"
)

const (
	eventSystemStartup   = "sys_startup"
	eventSystemShutdown  = "sys_shutdown"
	eventTokenRejected   = "authn_token_invalid"
	eventTenantViolation = "authz_tenant_violation"
	eventGuestNotFound   = "authz_guest_not_found"
	eventAuthzFailure    = "authz_fail"
)

type SecurityLogger struct {
	l *zap.Logger
}

func (s *SecurityLogger) SystemStartup() {
	s.l.Info("service started", zap.String("event", eventSystemStartup))
}

func (s *SecurityLogger) SystemShutdown() {
	s.l.Info("service shutting down", zap.String("event", eventSystemShutdown))
}

func (s *SecurityLogger) TokenRejected(reason, remoteAddr string) {
	s.l.Warn(
		"guest token rejected",
		zap.String("event", eventTokenRejected+":"+reason),
		zap.String("remote_addr", remoteAddr),
	)
}

// TenantViolation records a token whose tenant does not own the guest record
// it names. The guest only ever sees a generic message, so this is the one
// place the detail is kept.
func (s *SecurityLogger) TenantViolation(guestID, tokenTenantID, recordTenantID string) {
	s.l.Warn(
		"tenant mismatch on guest token",
		zap.String("event", eventTenantViolation),
		zap.String("guest_id", guestID),
		zap.String("token_tenant_id", tokenTenantID),
		zap.String("record_tenant_id", recordTenantID),
	)
}

func (s *SecurityLogger) GuestNotFound(guestID, tenantID string) {
	s.l.Warn(
		"guest token references unknown guest",
		zap.String("event", eventGuestNotFound),
		zap.String("guest_id", guestID),
		zap.String("tenant_id", tenantID),
	)
}

func (s *SecurityLogger) AuthzFailure(userID, resource string) {
	s.l.Warn(
		"staff authorization failed",
		zap.String("event", eventAuthzFailure),
		zap.String("user_id", userID),
		zap.String("resource", resource),
	)
}
