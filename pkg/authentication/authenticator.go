// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/tracing"
)

var otelHTTPClient = http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

// staff tokens are access tokens, so no audience is enforced
var verifierConfig = &oidc.Config{SkipClientIDCheck: true}

// NewJWTAuthenticator builds the staff token verifier. A JWKS URL skips
// issuer discovery.
func NewJWTAuthenticator(
	ctx context.Context,
	issuer string,
	jwksURL string,
	allowedSubjects []string,
	requiredScope string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) (TokenVerifierInterface, error) {
	if issuer == "" {
		return nil, fmt.Errorf("issuer is required for JWT authentication")
	}

	ctx = oidc.ClientContext(ctx, &otelHTTPClient)

	var provider ProviderInterface

	if jwksURL != "" {
		logger.Infof("Using manual JWKS URL: %s", jwksURL)
		provider = &keySetProvider{issuer: issuer, keySet: oidc.NewRemoteKeySet(ctx, jwksURL)}
	} else {
		logger.Infof("Using OIDC discovery for issuer: %s", issuer)
		p, err := oidc.NewProvider(ctx, issuer)
		if err != nil {
			return nil, fmt.Errorf("failed to create OIDC provider: %v", err)
		}
		provider = p
	}

	logger.Info("staff JWT authentication is enabled")

	return NewJWTVerifier(provider.Verifier(verifierConfig), allowedSubjects, requiredScope, tracer, monitor, logger), nil
}

type keySetProvider struct {
	issuer string
	keySet oidc.KeySet
}

func (p *keySetProvider) Verifier(cfg *oidc.Config) *oidc.IDTokenVerifier {
	return oidc.NewVerifier(p.issuer, p.keySet, cfg)
}
