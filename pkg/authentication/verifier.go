// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/tracing"
)

var (
	ErrNoAccessPolicy = errors.New("unauthorized: no access policy configured")
	ErrAccessDenied   = errors.New("unauthorized: missing required scope or subject not allowed")
)

type claims struct {
	Subject string   `json:"sub"`
	Scope   string   `json:"scope"`
	Scopes  []string `json:"scp"`
}

func (c *claims) principal() *Principal {
	scopes := strings.Fields(c.Scope)
	for _, s := range c.Scopes {
		if !slices.Contains(scopes, s) {
			scopes = append(scopes, s)
		}
	}

	return &Principal{Subject: c.Subject, Scopes: scopes}
}

type JWTVerifier struct {
	verifier        *oidc.IDTokenVerifier
	allowedSubjects []string
	requiredScope   string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (v *JWTVerifier) VerifyToken(ctx context.Context, rawToken string) (*Principal, error) {
	ctx, span := v.tracer.Start(ctx, "authentication.JWTVerifier.VerifyToken")
	defer span.End()

	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	c := new(claims)
	if err := token.Claims(c); err != nil {
		v.logger.Debugf("Failed to extract claims: %v", err)
		return nil, err
	}

	p := c.principal()
	if err := v.authorize(p); err != nil {
		v.logger.Security().AuthzFailure(p.Subject, "staff_api_access")
		return nil, err
	}

	return p, nil
}

// authorize accepts a listed subject or, failing that, the required scope.
func (v *JWTVerifier) authorize(p *Principal) error {
	if len(v.allowedSubjects) == 0 && v.requiredScope == "" {
		return ErrNoAccessPolicy
	}

	if slices.Contains(v.allowedSubjects, p.Subject) {
		return nil
	}

	if v.requiredScope != "" && slices.Contains(p.Scopes, v.requiredScope) {
		return nil
	}

	return ErrAccessDenied
}

func NewJWTVerifier(
	verifier *oidc.IDTokenVerifier,
	allowedSubjects []string,
	requiredScope string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *JWTVerifier {
	v := new(JWTVerifier)

	v.verifier = verifier
	v.allowedSubjects = allowedSubjects
	v.requiredScope = requiredScope

	v.tracer = tracer
	v.monitor = monitor
	v.logger = logger

	return v
}
