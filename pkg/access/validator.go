// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package access

import (
	"context"
	"errors"
	"time"

	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/storage"
	"github.com/canonical/guest-access-service/internal/token"
	"github.com/canonical/guest-access-service/internal/tracing"
	"github.com/canonical/guest-access-service/internal/types"
)

const (
	defaultStoreTimeout = 3 * time.Second
	defaultAuditTimeout = 5 * time.Second
)

var _ ValidatorInterface = (*Validator)(nil)

// Validator turns a raw token into a resolved guest, or into the reason it
// could not. Every call leaves exactly one scan event behind.
type Validator struct {
	codec CodecInterface
	store StorageInterface

	storeTimeout time.Duration
	auditTimeout time.Duration

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (v *Validator) Validate(ctx context.Context, raw string, opts ...Option) *Result {
	ctx, span := v.tracer.Start(ctx, "access.Validator.Validate")
	defer span.End()

	o := newOptions(opts)
	scannedAt := time.Now().UTC()

	result := v.validate(ctx, raw, o)
	v.record(ctx, result, o.source, scannedAt)

	return result
}

func (v *Validator) validate(ctx context.Context, raw string, o *options) *Result {
	result := new(Result)

	p, err := v.codec.Decode(raw)
	if err != nil {
		result.Err = err
		result.Outcome = types.OutcomeInvalid

		var expired *token.ExpiredTokenError
		if errors.As(err, &expired) {
			result.Outcome = types.OutcomeExpired
			result.audited = expired.Payload
		}

		v.logger.Security().TokenRejected(rejectionReason(err), o.remoteAddr)
		return result
	}

	result.audited = p

	if !o.allows(p.Purpose) {
		result.Err = ErrPurposeMismatch
		result.Outcome = types.OutcomeInvalid
		v.logger.Security().TokenRejected("purpose_mismatch", o.remoteAddr)
		return result
	}

	storeCtx, cancel := context.WithTimeout(ctx, v.storeTimeout)
	g, err := v.store.GetGuestByID(storeCtx, p.GuestID, p.TenantID)
	cancel()

	if err != nil {
		return v.failure(result, p, "", err)
	}

	// the store filters by tenant too, this is the second line
	if g.TenantID != p.TenantID {
		return v.failure(result, p, g.TenantID, storage.ErrTenantMismatch)
	}

	result.Outcome = types.OutcomeSuccess
	result.Payload = p
	result.Guest = g

	if o.effect == nil {
		return result
	}

	effectCtx, cancel := context.WithTimeout(ctx, v.storeTimeout)
	outcome, updated, err := o.effect(effectCtx, p, g)
	cancel()

	if err != nil {
		result.Payload = nil
		result.Guest = nil
		return v.failure(result, p, "", err)
	}

	result.Outcome = outcome
	if updated != nil {
		result.Guest = updated
	}

	return result
}

func (v *Validator) failure(result *Result, p *token.Payload, recordTenantID string, err error) *Result {
	result.Err = err

	switch {
	case errors.Is(err, storage.ErrNotFound):
		result.Outcome = types.OutcomeNotFound
		v.logger.Security().GuestNotFound(p.GuestID, p.TenantID)
	case errors.Is(err, storage.ErrTenantMismatch):
		result.Outcome = types.OutcomeTenantMismatch
		v.logger.Security().TenantViolation(p.GuestID, p.TenantID, recordTenantID)
	default:
		// timeouts, unreachable stores and anything unclassified
		result.Outcome = types.OutcomeTransientError
		v.logger.Errorw("guest store unavailable during validation", "guest_id", p.GuestID, "tenant_id", p.TenantID, "error", err)
	}

	return result
}

// record appends the scan event. It runs detached from the caller's
// cancellation so an abandoned request still leaves its audit entry.
func (v *Validator) record(ctx context.Context, result *Result, source types.ScanSource, scannedAt time.Time) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), v.auditTimeout)
	defer cancel()

	event := &types.ScanEvent{
		ScannedAt: scannedAt,
		Outcome:   result.Outcome,
		Source:    source,
	}

	if p := result.audited; p != nil {
		event.GuestID = p.GuestID
		event.TenantID = p.TenantID
		event.Purpose = p.Purpose
	}

	if _, err := v.store.AppendScanEvent(ctx, event); err != nil {
		v.logger.Errorw("failed to append scan event", "guest_id", event.GuestID, "tenant_id", event.TenantID, "outcome", event.Outcome, "error", err)
	}

	if err := v.monitor.IncScanOutcomeMetric(map[string]string{"purpose": string(event.Purpose), "outcome": string(event.Outcome)}); err != nil {
		v.logger.Debugf("failed to record scan outcome metric: %v", err)
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, token.ErrExpiredToken):
		return "expired"
	case errors.Is(err, token.ErrInvalidSignature):
		return "invalid_signature"
	default:
		return "malformed"
	}
}

func NewValidator(codec CodecInterface, store StorageInterface, storeTimeout time.Duration, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Validator {
	v := new(Validator)

	v.codec = codec
	v.store = store
	v.storeTimeout = storeTimeout
	if storeTimeout <= 0 {
		v.storeTimeout = defaultStoreTimeout
	}
	v.auditTimeout = defaultAuditTimeout

	v.tracer = tracer
	v.monitor = monitor
	v.logger = logger

	return v
}
