// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

type LoggerInterface interface {
	Errorf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Debugf(string, ...interface{})
	Fatalf(string, ...interface{})
	Error(...interface{})
	Info(...interface{})
	Warn(...interface{})
	Debug(...interface{})
	Fatal(...interface{})
	Errorw(string, ...interface{})
	Infow(string, ...interface{})
	Warnw(string, ...interface{})
	Debugw(string, ...interface{})
	Sync() error
	Security() SecurityLoggerInterface
}

// SecurityLoggerInterface emits audit events following the OWASP logging
// vocabulary, kept apart from application logs so they can be shipped
// to a different sink.
type SecurityLoggerInterface interface {
	SystemStartup()
	SystemShutdown()
	TokenRejected(reason, remoteAddr string)
	TenantViolation(guestID, tokenTenantID, recordTenantID string)
	GuestNotFound(guestID, tenantID string)
	AuthzFailure(userID, resource string)
}
