// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package selfservice

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/token"
	"github.com/canonical/guest-access-service/internal/tracing"
	"github.com/canonical/guest-access-service/internal/types"
	"github.com/canonical/guest-access-service/pkg/access"
)

var _ ServiceInterface = (*Service)(nil)

var selfServicePurposes = []types.Purpose{types.PurposeRSVP, types.PurposeGuestForm}

type Service struct {
	validator access.ValidatorInterface
	store     StorageInterface
	validate  *validator.Validate

	storeTimeout time.Duration

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Load resolves an rsvp or guest-form token to the guest it was minted for.
func (s *Service) Load(ctx context.Context, raw string, opts ...access.Option) *access.Result {
	ctx, span := s.tracer.Start(ctx, "selfservice.Service.Load")
	defer span.End()

	return s.validator.Validate(ctx, raw, append(opts, access.WithPurposes(selfServicePurposes...))...)
}

// Submit writes the form to the guest named by the token. A *ValidationError
// is returned, and nothing is written, unless every field passes. The write
// runs as the validator's effect, so a failed write is audited with the
// outcome the holder is shown.
func (s *Service) Submit(ctx context.Context, raw string, form *Form, opts ...access.Option) (*access.Result, error) {
	ctx, span := s.tracer.Start(ctx, "selfservice.Service.Submit")
	defer span.End()

	var verr *ValidationError
	update := func(ctx context.Context, p *token.Payload, _ *types.Guest) (types.ScanOutcome, *types.Guest, error) {
		if verr = check(s.validate, form); verr != nil {
			return types.OutcomeSuccess, nil, nil
		}

		ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()

		updated, err := s.store.UpdateGuestFields(ctx, p.GuestID, p.TenantID, form.fields())
		if err != nil {
			s.logger.Errorw("failed to update guest fields", "guest_id", p.GuestID, "tenant_id", p.TenantID, "error", err)
			return "", nil, err
		}

		return types.OutcomeSuccess, updated, nil
	}

	result := s.validator.Validate(ctx, raw, append(opts, access.WithPurposes(selfServicePurposes...), access.WithEffect(update))...)
	if verr != nil {
		return result, verr
	}

	return result, nil
}

// Check validates a form without writing anything.
func (s *Service) Check(form *Form) error {
	if verr := check(s.validate, form); verr != nil {
		return verr
	}
	return nil
}

func NewService(v access.ValidatorInterface, store StorageInterface, storeTimeout time.Duration, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	s := new(Service)

	s.validator = v
	s.store = store
	s.validate = newValidate()

	s.storeTimeout = storeTimeout
	if s.storeTimeout <= 0 {
		s.storeTimeout = 3 * time.Second
	}

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
