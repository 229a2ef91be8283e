// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package staff

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/tracing"
	"github.com/canonical/guest-access-service/internal/types"
	"github.com/canonical/guest-access-service/pkg/access"
	"github.com/canonical/guest-access-service/pkg/authentication"
	"github.com/canonical/guest-access-service/pkg/surface"
)

func qrUpload(t *testing.T, text string) (io.Reader, string) {
	t.Helper()

	var img []byte
	if text != "" {
		var err error
		img, err = qrcode.Encode(text, qrcode.Medium, 256)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	} else {
		blank := image.NewGray(image.Rect(0, 0, 64, 64))
		for i := range blank.Pix {
			blank.Pix[i] = 0xff
		}
		buf := new(bytes.Buffer)
		if err := png.Encode(buf, blank); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		img = buf.Bytes()
	}

	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)

	part, err := mw.CreateFormFile("image", "scan.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := part.Write(img); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mw.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return body, mw.FormDataContentType()
}

func TestAPI_Staff(t *testing.T) {
	expiry := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		method         string
		path           string
		body           func(*testing.T) (io.Reader, string)
		noAuth         bool
		setupMocks     func(*MockServiceInterface)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "missing bearer token",
			method:         http.MethodGet,
			path:           "/api/v0/tenants/tenant-a/guests/guest-1/scans",
			noAuth:         true,
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "issue surfaces",
			method: http.MethodPost,
			path:   "/api/v0/tenants/tenant-a/surfaces",
			body: func(*testing.T) (io.Reader, string) {
				return strings.NewReader(`{"guest_ids":["guest-1","guest-2"],"purpose":"rsvp","ttl":"48h"}`), "application/json"
			},
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().IssueSurfaces(gomock.Any(), "staff-1", "tenant-a", gomock.Any()).DoAndReturn(
					func(_ any, _, _ string, req *IssueRequest) ([]*surface.Surface, error) {
						out := make([]*surface.Surface, 0, len(req.GuestIDs))
						for _, id := range req.GuestIDs {
							out = append(out, &surface.Surface{GuestID: id, Purpose: req.Purpose, Token: "t-" + id, URL: "https://guests.example.com/qr/t-" + id, ExpiresAt: expiry})
						}
						return out, nil
					},
				)
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp struct {
					Surfaces []surface.Surface `json:"surfaces"`
				}
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if len(resp.Surfaces) != 2 || resp.Surfaces[1].Token != "t-guest-2" {
					t.Errorf("unexpected surfaces %+v", resp.Surfaces)
				}
			},
		},
		{
			name:   "issue with no guests",
			method: http.MethodPost,
			path:   "/api/v0/tenants/tenant-a/surfaces",
			body: func(*testing.T) (io.Reader, string) {
				return strings.NewReader(`{"guest_ids":[],"purpose":"rsvp"}`), "application/json"
			},
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "issue with unknown purpose",
			method: http.MethodPost,
			path:   "/api/v0/tenants/tenant-a/surfaces",
			body: func(*testing.T) (io.Reader, string) {
				return strings.NewReader(`{"guest_ids":["guest-1"],"purpose":"vip"}`), "application/json"
			},
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "issue for another tenant",
			method: http.MethodPost,
			path:   "/api/v0/tenants/tenant-b/surfaces",
			body: func(*testing.T) (io.Reader, string) {
				return strings.NewReader(`{"guest_ids":["guest-1"],"purpose":"check-in"}`), "application/json"
			},
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().IssueSurfaces(gomock.Any(), "staff-1", "tenant-b", gomock.Any()).Return(nil, ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:   "qr code",
			method: http.MethodGet,
			path:   "/api/v0/tenants/tenant-a/guests/guest-1/qr.png?purpose=rsvp&size=300",
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().RenderQR(gomock.Any(), "staff-1", "tenant-a", "guest-1", types.PurposeRSVP, 300).Return([]byte("\x89PNG"), nil)
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				if ct := w.Header().Get("Content-Type"); ct != "image/png" {
					t.Errorf("unexpected content type %q", ct)
				}
			},
		},
		{
			name:           "qr code with bad size",
			method:         http.MethodGet,
			path:           "/api/v0/tenants/tenant-a/guests/guest-1/qr.png?size=big",
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "scan decoded text",
			method: http.MethodPost,
			path:   "/api/v0/scans",
			body: func(*testing.T) (io.Reader, string) {
				return strings.NewReader(`{"token":"https://guests.example.com/qr/abc123?utm=print"}`), "application/json"
			},
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().Scan(gomock.Any(), "staff-1", "abc123", types.SourceCamera).Return(
					&access.Result{Outcome: types.OutcomeSuccess, Guest: &types.Guest{ID: "guest-1", Name: "Asha"}}, nil,
				)
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := new(ScanResponse)
				if err := json.NewDecoder(w.Body).Decode(resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if !resp.Granted || resp.Outcome != types.OutcomeSuccess || resp.Guest == nil {
					t.Errorf("unexpected response %+v", resp)
				}
			},
		},
		{
			name:   "scan with store unavailable",
			method: http.MethodPost,
			path:   "/api/v0/scans",
			body: func(*testing.T) (io.Reader, string) {
				return strings.NewReader(`{"token":"abc123","source":"link"}`), "application/json"
			},
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().Scan(gomock.Any(), "staff-1", "abc123", types.SourceLink).Return(&access.Result{Outcome: types.OutcomeTransientError}, nil)
			},
			expectedStatus: http.StatusServiceUnavailable,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				if w.Header().Get("Retry-After") == "" {
					t.Error("expected Retry-After header")
				}
			},
		},
		{
			name:   "scan uploaded photo",
			method: http.MethodPost,
			path:   "/api/v0/scans",
			body: func(t *testing.T) (io.Reader, string) {
				return qrUpload(t, "https://guests.example.com/qr/tok123")
			},
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().Scan(gomock.Any(), "staff-1", "tok123", types.SourceUpload).Return(&access.Result{Outcome: types.OutcomeExpired}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "scan photo without a code",
			method: http.MethodPost,
			path:   "/api/v0/scans",
			body: func(t *testing.T) (io.Reader, string) {
				return qrUpload(t, "")
			},
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:   "scan with empty token",
			method: http.MethodPost,
			path:   "/api/v0/scans",
			body: func(*testing.T) (io.Reader, string) {
				return strings.NewReader(`{"token":""}`), "application/json"
			},
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "list scans",
			method: http.MethodGet,
			path:   "/api/v0/tenants/tenant-a/guests/guest-1/scans?page=2&size=5",
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().ListScans(gomock.Any(), "staff-1", "tenant-a", "guest-1", int64(2), int64(5)).Return(
					[]*types.ScanEvent{{ID: "e1", GuestID: "guest-1", TenantID: "tenant-a", Purpose: types.PurposeCheckIn, Outcome: types.OutcomeDuplicate, Source: types.SourceCamera}}, nil,
				)
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := new(ScanEventsResponse)
				if err := json.NewDecoder(w.Body).Decode(resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if len(resp.Events) != 1 || resp.Events[0].Outcome != types.OutcomeDuplicate || resp.Page != 2 {
					t.Errorf("unexpected response %+v", resp)
				}
			},
		},
		{
			name:           "list scans with bad page",
			method:         http.MethodGet,
			path:           "/api/v0/tenants/tenant-a/guests/guest-1/scans?page=0",
			setupMocks:     func(*MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			tracer := tracing.NewNoopTracer()
			monitor := monitoring.NewNoopMonitor("test")
			logger := logging.NewNoopLogger()

			mockService := NewMockServiceInterface(ctrl)
			tt.setupMocks(mockService)

			authn := authentication.NewMiddleware(authentication.NewNoopVerifier(), tracer, monitor, logger)

			mux := chi.NewMux()
			NewAPI(mockService, authn, tracer, monitor, logger).RegisterEndpoints(mux)

			var body io.Reader
			contentType := ""
			if tt.body != nil {
				body, contentType = tt.body(t)
			}

			req := httptest.NewRequest(tt.method, tt.path, body)
			if contentType != "" {
				req.Header.Set("Content-Type", contentType)
			}
			if !tt.noAuth {
				req.Header.Set("Authorization", "Bearer staff-1")
			}

			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestAPI_HandlersStartSpans(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		span       string
		setupMocks func(*MockServiceInterface)
	}{
		{
			name:   "issue surfaces",
			method: http.MethodPost,
			path:   "/api/v0/tenants/tenant-a/surfaces",
			body:   `{"guest_ids":["guest-1"],"purpose":"check-in"}`,
			span:   "staff.API.IssueSurfaces",
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().IssueSurfaces(gomock.Any(), "staff-1", "tenant-a", gomock.Any()).Return(nil, nil)
			},
		},
		{
			name:   "qr code",
			method: http.MethodGet,
			path:   "/api/v0/tenants/tenant-a/guests/guest-1/qr.png",
			span:   "staff.API.QRCode",
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().RenderQR(gomock.Any(), "staff-1", "tenant-a", "guest-1", types.PurposeCheckIn, 0).Return([]byte("png"), nil)
			},
		},
		{
			name:   "scan",
			method: http.MethodPost,
			path:   "/api/v0/scans",
			body:   `{"token":"abc"}`,
			span:   "staff.API.Scan",
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().Scan(gomock.Any(), "staff-1", "abc", types.SourceCamera).Return(&access.Result{Outcome: types.OutcomeInvalid}, nil)
			},
		},
		{
			name:   "list scans",
			method: http.MethodGet,
			path:   "/api/v0/tenants/tenant-a/guests/guest-1/scans",
			span:   "staff.API.ListScans",
			setupMocks: func(svc *MockServiceInterface) {
				svc.EXPECT().ListScans(gomock.Any(), "staff-1", "tenant-a", "guest-1", int64(1), gomock.Any()).Return(nil, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			monitor := monitoring.NewNoopMonitor("test")
			logger := logging.NewNoopLogger()

			mockService := NewMockServiceInterface(ctrl)
			tt.setupMocks(mockService)

			mockTracer := NewMockTracingInterface(ctrl)
			mockTracer.EXPECT().Start(gomock.Any(), tt.span).DoAndReturn(
				func(ctx context.Context, _ string, _ ...trace.SpanStartOption) (context.Context, trace.Span) {
					return ctx, trace.SpanFromContext(ctx)
				},
			)

			authn := authentication.NewMiddleware(authentication.NewNoopVerifier(), tracing.NewNoopTracer(), monitor, logger)

			mux := chi.NewMux()
			NewAPI(mockService, authn, mockTracer, monitor, logger).RegisterEndpoints(mux)

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			req.Header.Set("Authorization", "Bearer staff-1")

			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}
