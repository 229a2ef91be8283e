// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package staff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/canonical/guest-access-service/internal/authorization"
	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/token"
	"github.com/canonical/guest-access-service/internal/tracing"
	"github.com/canonical/guest-access-service/internal/types"
	"github.com/canonical/guest-access-service/pkg/access"
	"github.com/canonical/guest-access-service/pkg/checkin"
	"github.com/canonical/guest-access-service/pkg/surface"
)

const (
	defaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

var _ ServiceInterface = (*Service)(nil)

type Service struct {
	generator  surface.GeneratorInterface
	checkin    checkin.ServiceInterface
	codec      CodecInterface
	store      StorageInterface
	authorizer AuthorizerInterface

	baseURL string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// IssueSurfaces mints a batch of surfaces with absolute landing URLs.
func (s *Service) IssueSurfaces(ctx context.Context, userID, tenantID string, req *IssueRequest) ([]*surface.Surface, error) {
	ctx, span := s.tracer.Start(ctx, "staff.Service.IssueSurfaces")
	defer span.End()

	if err := s.authorize(ctx, userID, tenantID, authorization.CAN_ISSUE_PERMISSION); err != nil {
		return nil, err
	}

	ttl, err := s.ttl(req.Purpose, req.TTL)
	if err != nil {
		return nil, err
	}

	surfaces, err := s.generator.GenerateBatch(ctx, tenantID, req.GuestIDs, req.Purpose, ttl)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	for _, sf := range surfaces {
		link, err := sf.AbsoluteURL(s.baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid public base url: %w", err)
		}
		sf.URL = link
	}

	s.logger.Infow("issued guest surfaces", "tenant_id", tenantID, "purpose", req.Purpose, "count", len(surfaces), "user_id", userID)

	return surfaces, nil
}

// RenderQR returns a PNG for a fresh surface with the purpose default TTL.
func (s *Service) RenderQR(ctx context.Context, userID, tenantID, guestID string, purpose types.Purpose, size int) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "staff.Service.RenderQR")
	defer span.End()

	if err := s.authorize(ctx, userID, tenantID, authorization.CAN_ISSUE_PERMISSION); err != nil {
		return nil, err
	}

	if size == 0 {
		size = defaultQRSize
	}

	if size < minQRSize || size > maxQRSize {
		return nil, fmt.Errorf("%w: size must be between %d and %d", ErrInvalidRequest, minQRSize, maxQRSize)
	}

	ttl, err := s.ttl(purpose, "")
	if err != nil {
		return nil, err
	}

	sf, err := s.generator.Generate(guestID, tenantID, purpose, ttl)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	return surface.QRCode(sf, s.baseURL, size)
}

// Scan checks a guest in on behalf of staff. A token that opens is only
// accepted from staff of its own tenant; anything else goes straight to
// check-in so the attempt is still audited.
func (s *Service) Scan(ctx context.Context, userID, raw string, source types.ScanSource) (*access.Result, error) {
	ctx, span := s.tracer.Start(ctx, "staff.Service.Scan")
	defer span.End()

	if tenantID := s.tenantOf(raw); tenantID != "" {
		if err := s.authorize(ctx, userID, tenantID, authorization.CAN_SCAN_PERMISSION); err != nil {
			return nil, err
		}
	}

	return s.checkin.CheckIn(ctx, raw, source), nil
}

func (s *Service) ListScans(ctx context.Context, userID, tenantID, guestID string, page, size int64) ([]*types.ScanEvent, error) {
	ctx, span := s.tracer.Start(ctx, "staff.Service.ListScans")
	defer span.End()

	if err := s.authorize(ctx, userID, tenantID, authorization.CAN_VIEW_PERMISSION); err != nil {
		return nil, err
	}

	return s.store.ListScanEvents(ctx, tenantID, guestID, page, size)
}

func (s *Service) authorize(ctx context.Context, userID, tenantID, relation string) error {
	allowed, err := s.authorizer.CheckTenantAccess(ctx, tenantID, userID, relation)
	if err != nil {
		return fmt.Errorf("failed to check tenant access: %w", err)
	}

	if !allowed {
		return ErrForbidden
	}

	return nil
}

func (s *Service) ttl(purpose types.Purpose, requested string) (time.Duration, error) {
	if !purpose.Valid() {
		return 0, fmt.Errorf("%w: unknown purpose %q", ErrInvalidRequest, purpose)
	}

	var d time.Duration
	if requested != "" {
		parsed, err := time.ParseDuration(requested)
		if err != nil || parsed <= 0 {
			return 0, fmt.Errorf("%w: ttl %q is not a positive duration", ErrInvalidRequest, requested)
		}
		d = parsed
	}

	ttl, err := s.generator.TTL(purpose, d)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	return ttl, nil
}

func (s *Service) tenantOf(raw string) string {
	p, err := s.codec.Decode(raw)
	if err == nil {
		return p.TenantID
	}

	var expired *token.ExpiredTokenError
	if errors.As(err, &expired) {
		return expired.Payload.TenantID
	}

	return ""
}

func NewService(
	generator surface.GeneratorInterface,
	checkinService checkin.ServiceInterface,
	codec CodecInterface,
	store StorageInterface,
	authorizer AuthorizerInterface,
	baseURL string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	s := new(Service)

	s.generator = generator
	s.checkin = checkinService
	s.codec = codec
	s.store = store
	s.authorizer = authorizer
	s.baseURL = baseURL

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
