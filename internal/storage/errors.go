// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors for storage operations.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrTenantMismatch = errors.New("resource belongs to another tenant")
	ErrTransient      = errors.New("storage temporarily unavailable")
	ErrDuplicateKey   = errors.New("duplicate key violation")
)

// PostgreSQL error codes
const (
	pgErrCodeUniqueViolation = "23505"
	// class 08 is connection exception, 53 insufficient resources,
	// 57 operator intervention (shutdowns, cancels)
	pgErrClassConnection   = "08"
	pgErrClassResources    = "53"
	pgErrClassIntervention = "57"
	pgErrCodeSerialization = "40001"
	pgErrCodeDeadlock      = "40P01"
)

// IsDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation.
func IsDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrCodeUniqueViolation
	}
	return false
}

// IsTransient reports whether err is worth retrying: timeouts, unreachable
// or overloaded databases, serialization failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrTransient) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, pgErrClassConnection),
			strings.HasPrefix(pgErr.Code, pgErrClassResources),
			strings.HasPrefix(pgErr.Code, pgErrClassIntervention),
			pgErr.Code == pgErrCodeSerialization,
			pgErr.Code == pgErrCodeDeadlock:
			return true
		}
		return false
	}

	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}

// wrapError tags err with ErrTransient when it is retryable, keeping the cause.
func wrapError(err error, context string) error {
	if IsTransient(err) {
		return fmt.Errorf("%s: %w: %w", context, ErrTransient, err)
	}
	return fmt.Errorf("%s: %w", context, err)
}
