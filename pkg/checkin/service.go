// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package checkin

import (
	"context"
	"time"

	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/token"
	"github.com/canonical/guest-access-service/internal/tracing"
	"github.com/canonical/guest-access-service/internal/types"
	"github.com/canonical/guest-access-service/pkg/access"
)

var _ ServiceInterface = (*Service)(nil)

// Service moves guests from not_checked_in to checked_in. There is no
// operation going the other way.
type Service struct {
	validator access.ValidatorInterface
	store     StorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// CheckIn validates a check-in token and performs the transition. Repeat
// scans of a checked in guest come back as duplicate, never as an error.
func (s *Service) CheckIn(ctx context.Context, raw string, source types.ScanSource, opts ...access.Option) *access.Result {
	ctx, span := s.tracer.Start(ctx, "checkin.Service.CheckIn")
	defer span.End()

	opts = append(opts,
		access.WithPurposes(types.PurposeCheckIn),
		access.WithSource(source),
		access.WithEffect(s.transition),
	)

	result := s.validator.Validate(ctx, raw, opts...)

	if result.Outcome == types.OutcomeSuccess {
		s.logger.Infow("guest checked in", "guest_id", result.Guest.ID, "tenant_id", result.Guest.TenantID, "source", source)
	}

	return result
}

func (s *Service) transition(ctx context.Context, p *token.Payload, g *types.Guest) (types.ScanOutcome, *types.Guest, error) {
	ok, err := s.store.SetCheckedInIfAbsent(ctx, p.GuestID, p.TenantID)
	if err != nil {
		return "", nil, err
	}

	updated := *g
	updated.CheckInStatus = types.CheckedIn

	if !ok {
		return types.OutcomeDuplicate, &updated, nil
	}

	now := time.Now().UTC()
	updated.CheckedInAt = &now

	return types.OutcomeSuccess, &updated, nil
}

func NewService(validator access.ValidatorInterface, store StorageInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	s := new(Service)

	s.validator = validator
	s.store = store

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
