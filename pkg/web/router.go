// Copyright 2025 Canonical Ltd
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	middleware "github.com/go-chi/chi/v5/middleware"

	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/tracing"
	"github.com/canonical/guest-access-service/pkg/landing"
	"github.com/canonical/guest-access-service/pkg/metrics"
	"github.com/canonical/guest-access-service/pkg/staff"
	"github.com/canonical/guest-access-service/pkg/status"
	"github.com/canonical/guest-access-service/pkg/tenant"
)

func NewRouter(
	landingAPI *landing.API,
	staffAPI *staff.API,
	tenantHandler *tenant.Handler,
	storage status.PingerInterface,
	allowedOrigins []string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) http.Handler {
	router := chi.NewMux()

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	middlewares := make(chi.Middlewares, 0)
	middlewares = append(
		middlewares,
		middleware.RequestID,
		monitoring.NewMiddleware(monitor, logger).ResponseTime(),
		middlewareCORS(allowedOrigins),
	)

	router.Use(middlewares...)

	metrics.NewAPI(logger).RegisterEndpoints(router)
	status.NewAPI(storage, tracer, monitor, logger).RegisterEndpoints(router)
	landingAPI.RegisterEndpoints(router)

	if staffAPI != nil {
		staffAPI.RegisterEndpoints(router)
	}

	if tenantHandler != nil {
		tenantHandler.RegisterEndpoints(router)
	}

	return tracing.NewMiddleware(monitor, logger).OpenTelemetry(router)
}
