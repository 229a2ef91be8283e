// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/tracing"
	"github.com/canonical/guest-access-service/pkg/authentication"
)

const maxBody = 1 << 16

type Handler struct {
	service  ServiceInterface
	authn    *authentication.Middleware
	validate *validator.Validate

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (h *Handler) RegisterEndpoints(mux *chi.Mux) {
	mux.Group(func(r chi.Router) {
		r.Use(h.authn.Authenticate())

		r.Post("/api/v0/tenants/{tenant_id}/members", h.AddMember)
		r.Delete("/api/v0/tenants/{tenant_id}/members/{user_id}", h.RemoveMember)
	})
}

func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "tenant.Handler.AddMember")
	defer span.End()

	actorID, _ := authentication.GetUserID(ctx)

	req := new(MemberRequest)
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	member, err := h.service.AddMember(ctx, actorID, chi.URLParam(r, "tenant_id"), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, member)
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "tenant.Handler.RemoveMember")
	defer span.End()

	actorID, _ := authentication.GetUserID(ctx)

	if err := h.service.RemoveMember(ctx, actorID, chi.URLParam(r, "tenant_id"), chi.URLParam(r, "user_id")); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		h.writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, ErrInvalidRequest):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Errorf("tenant member request failed: %v", err)
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"status":  status,
		"message": message,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Errorf("failed to encode tenant response: %v", err)
	}
}

func NewHandler(
	service ServiceInterface,
	authn *authentication.Middleware,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Handler {
	h := new(Handler)

	h.service = service
	h.authn = authn
	h.validate = validator.New(validator.WithRequiredStructEnabled())

	h.tracer = tracer
	h.monitor = monitor
	h.logger = logger

	return h
}
