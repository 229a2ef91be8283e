// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package landing

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/token"
	"github.com/canonical/guest-access-service/internal/tracing"
	"github.com/canonical/guest-access-service/internal/types"
	"github.com/canonical/guest-access-service/pkg/access"
	"github.com/canonical/guest-access-service/pkg/checkin"
	"github.com/canonical/guest-access-service/pkg/selfservice"
)

// API serves the pages a guest reaches by following a QR code or link.
type API struct {
	codec       CodecInterface
	checkin     checkin.ServiceInterface
	selfservice selfservice.ServiceInterface
	limiter     *RateLimiter

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Group(func(r chi.Router) {
		if a.limiter != nil {
			r.Use(a.limiter.Limit)
		}

		r.Get("/qr/{token}", a.handleGet)
		r.Post("/qr/{token}", a.handleSubmit)
	})
}

func (a *API) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "landing.API.handleGet")
	defer span.End()

	raw := chi.URLParam(r, "token")
	opts := []access.Option{access.WithRemoteAddr(r.RemoteAddr)}

	if a.purposeOf(raw) == types.PurposeCheckIn {
		result := a.checkin.CheckIn(ctx, raw, types.SourceLink, opts...)

		resp := newResponse(stateOf(result, StateCheckedIn))
		resp.Guest = result.Guest.Summary()
		a.write(w, resp)
		return
	}

	result := a.selfservice.Load(ctx, raw, opts...)

	resp := newResponse(stateOf(result, StateForm))
	if result.Granted() {
		resp.Guest = result.Guest.Summary()
		resp.Form = selfservice.FormFromGuest(result.Guest)
	}
	a.write(w, resp)
}

func (a *API) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "landing.API.handleSubmit")
	defer span.End()

	raw := chi.URLParam(r, "token")
	opts := []access.Option{access.WithRemoteAddr(r.RemoteAddr)}

	form, err := selfservice.DecodeForm(r.Body)

	var verr *selfservice.ValidationError
	switch {
	case errors.As(err, &verr):
		// the token still decides what the holder is told
		result := a.selfservice.Load(ctx, raw, opts...)
		if !result.Granted() {
			a.write(w, newResponse(stateOf(result, StateForm)))
			return
		}

		resp := newResponse(StateValidationFailed)
		resp.Errors = verr.Merge(a.selfservice.Check(form)).Fields
		a.write(w, resp)
		return
	case err != nil:
		a.logger.Debugf("failed to decode landing form: %v", err)
		a.write(w, newResponse(StateBadRequest))
		return
	}

	result, err := a.selfservice.Submit(ctx, raw, form, opts...)
	if !result.Granted() {
		a.write(w, newResponse(stateOf(result, StateUpdated)))
		return
	}

	switch {
	case errors.As(err, &verr):
		resp := newResponse(StateValidationFailed)
		resp.Errors = verr.Fields
		a.write(w, resp)
	case err != nil:
		a.write(w, newResponse(StateUnavailable))
	default:
		resp := newResponse(StateUpdated)
		resp.Guest = result.Guest.Summary()
		a.write(w, resp)
	}
}

// purposeOf peeks at the token to pick the surface. Tokens that do not open
// go through check-in, which records them as invalid.
func (a *API) purposeOf(raw string) types.Purpose {
	payload, err := a.codec.Decode(raw)
	if err == nil {
		return payload.Purpose
	}

	var expired *token.ExpiredTokenError
	if errors.As(err, &expired) {
		return expired.Payload.Purpose
	}

	return types.PurposeCheckIn
}

func (a *API) write(w http.ResponseWriter, resp *Response) {
	status := presentations[resp.State].status
	if resp.State == StateUnavailable {
		w.Header().Set("Retry-After", retryAfterSeconds)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		a.logger.Errorf("failed to encode landing response: %v", err)
	}
}

func NewAPI(codec CodecInterface, checkinService checkin.ServiceInterface, selfService selfservice.ServiceInterface, limiter *RateLimiter, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	a := new(API)

	a.codec = codec
	a.checkin = checkinService
	a.selfservice = selfService
	a.limiter = limiter

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
