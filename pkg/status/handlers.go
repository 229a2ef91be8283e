// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package status

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/tracing"
	"github.com/canonical/guest-access-service/internal/version"
)

const pingTimeout = 2 * time.Second

type Status struct {
	Status    string `json:"status"`
	BuildInfo string `json:"buildInfo"`
}

type API struct {
	storage PingerInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Get("/api/v0/status", a.alive)
	mux.Get("/api/v0/ready", a.ready)
}

func (a *API) alive(w http.ResponseWriter, r *http.Request) {
	a.write(w, http.StatusOK, &Status{Status: "ok", BuildInfo: version.Version})
}

// ready reports whether guest records can be reached right now.
func (a *API) ready(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "status.API.ready")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	err := a.storage.Ping(ctx)

	availability := 1.0
	if err != nil {
		availability = 0.0
	}

	if merr := a.monitor.SetDependencyAvailability(map[string]string{"component": "storage"}, availability); merr != nil {
		a.logger.Debugf("failed to set storage availability: %v", merr)
	}

	if err != nil {
		a.logger.Errorf("storage is not reachable: %v", err)
		a.write(w, http.StatusServiceUnavailable, &Status{Status: "unavailable", BuildInfo: version.Version})
		return
	}

	a.write(w, http.StatusOK, &Status{Status: "ok", BuildInfo: version.Version})
}

func (a *API) write(w http.ResponseWriter, code int, s *Status) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(s); err != nil {
		a.logger.Errorf("failed to encode status: %v", err)
	}
}

func NewAPI(storage PingerInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	a := new(API)

	a.storage = storage

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
