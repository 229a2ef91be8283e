// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package staff

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/tracing"
	"github.com/canonical/guest-access-service/internal/types"
	"github.com/canonical/guest-access-service/pkg/authentication"
	"github.com/canonical/guest-access-service/pkg/scan"
)

const (
	maxJSONBody      = 1 << 20
	maxMultipartBody = 10 << 20

	defaultPageSize = 50
)

// API is the staff surface: issuing codes, scanning at the door and reading
// the scan trail. Every route needs a staff bearer token.
type API struct {
	service  ServiceInterface
	authn    *authentication.Middleware
	validate *validator.Validate

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Group(func(r chi.Router) {
		r.Use(a.authn.Authenticate())

		r.Post("/api/v0/tenants/{tenant_id}/surfaces", a.handleIssueSurfaces)
		r.Get("/api/v0/tenants/{tenant_id}/guests/{guest_id}/qr.png", a.handleQRCode)
		r.Get("/api/v0/tenants/{tenant_id}/guests/{guest_id}/scans", a.handleListScans)
		r.Post("/api/v0/scans", a.handleScan)
	})
}

func (a *API) handleIssueSurfaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "staff.API.IssueSurfaces")
	defer span.End()

	userID, _ := authentication.GetUserID(ctx)

	req := new(IssueRequest)
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(req); err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := a.validate.Struct(req); err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	surfaces, err := a.service.IssueSurfaces(ctx, userID, chi.URLParam(r, "tenant_id"), req)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, &IssueResponse{Surfaces: surfaces})
}

func (a *API) handleQRCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "staff.API.QRCode")
	defer span.End()

	userID, _ := authentication.GetUserID(ctx)

	purpose := types.PurposeCheckIn
	if p := r.URL.Query().Get("purpose"); p != "" {
		purpose = types.Purpose(p)
	}

	size := 0
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			a.writeError(w, http.StatusBadRequest, "size must be an integer")
			return
		}
		size = n
	}

	png, err := a.service.RenderQR(ctx, userID, chi.URLParam(r, "tenant_id"), chi.URLParam(r, "guest_id"), purpose, size)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		a.logger.Debugf("failed to write qr code: %v", err)
	}
}

func (a *API) handleScan(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "staff.API.Scan")
	defer span.End()

	userID, _ := authentication.GetUserID(ctx)

	raw, source, status, msg := a.readScan(w, r)
	if status != 0 {
		a.writeError(w, status, msg)
		return
	}

	result, err := a.service.Scan(ctx, userID, raw, source)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	status = http.StatusOK
	if result.Outcome == types.OutcomeTransientError {
		w.Header().Set("Retry-After", "5")
		status = http.StatusServiceUnavailable
	}

	a.writeJSON(w, status, &ScanResponse{
		Outcome: result.Outcome,
		Granted: result.Granted(),
		Guest:   result.Guest.Summary(),
	})
}

// readScan takes either a JSON ScanRequest or a multipart upload with the
// photo in the "image" field. A non-zero status means the request is
// rejected with msg.
func (a *API) readScan(w http.ResponseWriter, r *http.Request) (string, types.ScanSource, int, string) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxMultipartBody); err != nil {
			return "", "", http.StatusBadRequest, "invalid multipart body"
		}

		file, _, err := r.FormFile("image")
		if err != nil {
			return "", "", http.StatusBadRequest, "missing image"
		}
		defer file.Close()

		text, err := scan.DecodeImage(file, scan.NewQRDecoder())
		switch {
		case errors.Is(err, scan.ErrNoCode):
			return "", "", http.StatusUnprocessableEntity, "no qr code found in image"
		case err != nil:
			a.logger.Debugf("failed to decode uploaded image: %v", err)
			return "", "", http.StatusBadRequest, "image could not be decoded"
		}

		return scan.TokenFromText(text), types.SourceUpload, 0, ""
	}

	req := new(ScanRequest)
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(req); err != nil {
		return "", "", http.StatusBadRequest, "invalid request body"
	}

	if err := a.validate.Struct(req); err != nil {
		return "", "", http.StatusBadRequest, err.Error()
	}

	source := req.Source
	if source == "" {
		source = types.SourceCamera
	}

	return scan.TokenFromText(req.Token), source, 0, ""
}

func (a *API) handleListScans(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "staff.API.ListScans")
	defer span.End()

	userID, _ := authentication.GetUserID(ctx)

	page, err := queryInt(r, "page", 1)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	size, err := queryInt(r, "size", defaultPageSize)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := a.service.ListScans(ctx, userID, chi.URLParam(r, "tenant_id"), chi.URLParam(r, "guest_id"), page, size)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, newScanEventsResponse(events, page, size))
}

func queryInt(r *http.Request, name string, fallback int64) (int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 1 {
		return 0, errors.New(name + " must be a positive integer")
	}

	return n, nil
}

func (a *API) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		a.writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, ErrInvalidRequest):
		a.writeError(w, http.StatusBadRequest, err.Error())
	default:
		a.logger.Errorf("staff request failed: %v", err)
		a.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, message string) {
	a.writeJSON(w, status, map[string]interface{}{
		"status":  status,
		"message": message,
	})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Errorf("failed to encode staff response: %v", err)
	}
}

func NewAPI(service ServiceInterface, authn *authentication.Middleware, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	a := new(API)

	a.service = service
	a.authn = authn
	a.validate = validator.New(validator.WithRequiredStructEnabled())

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
