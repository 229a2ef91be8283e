// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package surface

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/skip2/go-qrcode"
	"golang.org/x/sync/errgroup"

	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/tracing"
	"github.com/canonical/guest-access-service/internal/types"
)

const (
	landingPrefix = "/qr/"
	batchWorkers  = 8
)

var ErrTTLTooLong = errors.New("requested ttl exceeds the configured maximum")

// Surface is a shareable access point for one guest: a token and the landing
// path it unlocks.
type Surface struct {
	GuestID   string        `json:"guest_id"`
	Purpose   types.Purpose `json:"purpose"`
	Token     string        `json:"token"`
	URL       string        `json:"url"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// AbsoluteURL resolves the landing path against the public base URL.
func (s *Surface) AbsoluteURL(baseURL string) (string, error) {
	return url.JoinPath(baseURL, s.URL)
}

type Config struct {
	DefaultTTLs map[types.Purpose]time.Duration
	MaxTTL      time.Duration
}

var _ GeneratorInterface = (*Generator)(nil)

// Generator mints surfaces on demand. Nothing is cached: every call yields a
// fresh token with its own window.
type Generator struct {
	codec CodecInterface
	cfg   Config

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (g *Generator) Generate(guestID, tenantID string, purpose types.Purpose, ttl time.Duration) (*Surface, error) {
	raw, p, err := g.codec.Issue(guestID, tenantID, purpose, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token for guest %s: %w", guestID, err)
	}

	return &Surface{
		GuestID:   guestID,
		Purpose:   purpose,
		Token:     raw,
		URL:       landingPrefix + raw,
		ExpiresAt: p.ExpiresAt,
	}, nil
}

// GenerateBatch issues one surface per guest id, in input order. Each token is
// sealed independently.
func (g *Generator) GenerateBatch(ctx context.Context, tenantID string, guestIDs []string, purpose types.Purpose, ttl time.Duration) ([]*Surface, error) {
	ctx, span := g.tracer.Start(ctx, "surface.Generator.GenerateBatch")
	defer span.End()

	surfaces := make([]*Surface, len(guestIDs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(batchWorkers)

	for i, guestID := range guestIDs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			s, err := g.Generate(guestID, tenantID, purpose, ttl)
			if err != nil {
				return err
			}

			surfaces[i] = s
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	g.logger.Debugf("issued %d %s surfaces for tenant %s", len(surfaces), purpose, tenantID)

	return surfaces, nil
}

// TTL picks the purpose default when requested is zero and enforces MaxTTL.
func (g *Generator) TTL(purpose types.Purpose, requested time.Duration) (time.Duration, error) {
	ttl := requested
	if ttl == 0 {
		ttl = g.cfg.DefaultTTLs[purpose]
	}

	if ttl <= 0 {
		return 0, fmt.Errorf("no ttl for purpose %q", purpose)
	}

	if g.cfg.MaxTTL > 0 && ttl > g.cfg.MaxTTL {
		return 0, ErrTTLTooLong
	}

	return ttl, nil
}

// QRCode renders the absolute landing URL of s as a PNG of size pixels.
func QRCode(s *Surface, baseURL string, size int) ([]byte, error) {
	link, err := s.AbsoluteURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}

	return png, nil
}

func NewGenerator(codec CodecInterface, cfg Config, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Generator {
	g := new(Generator)

	g.codec = codec
	g.cfg = cfg

	g.tracer = tracer
	g.monitor = monitor
	g.logger = logger

	return g
}
