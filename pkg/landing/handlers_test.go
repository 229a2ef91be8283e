// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package landing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/storage"
	"github.com/canonical/guest-access-service/internal/token"
	"github.com/canonical/guest-access-service/internal/tracing"
	"github.com/canonical/guest-access-service/internal/types"
	"github.com/canonical/guest-access-service/pkg/access"
	"github.com/canonical/guest-access-service/pkg/checkin"
	"github.com/canonical/guest-access-service/pkg/selfservice"
)

var testKey = bytes.Repeat([]byte{9}, token.KeySize)

func newTestCodec(t *testing.T, now time.Time) *token.Codec {
	t.Helper()

	codec, err := token.NewCodec(testKey, nil, token.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return codec
}

func mint(t *testing.T, codec *token.Codec, purpose types.Purpose) string {
	t.Helper()

	raw, err := codec.Encode("guest-1", "tenant-a", purpose, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return raw
}

func TestAPI_Landing(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	guest := &types.Guest{ID: "guest-1", TenantID: "tenant-a", Name: "Asha", PartySize: 2, CheckInStatus: types.CheckedIn}

	tests := []struct {
		name           string
		method         string
		purpose        types.Purpose
		garbage        bool
		body           string
		setupMocks     func(*checkin.MockServiceInterface, *selfservice.MockServiceInterface)
		expectedStatus int
		expectedState  State
		validateResp   func(*testing.T, *http.Response, *Response)
	}{
		{
			name:    "check-in",
			method:  http.MethodGet,
			purpose: types.PurposeCheckIn,
			setupMocks: func(c *checkin.MockServiceInterface, _ *selfservice.MockServiceInterface) {
				c.EXPECT().CheckIn(gomock.Any(), gomock.Any(), types.SourceLink, gomock.Any()).Return(&access.Result{Outcome: types.OutcomeSuccess, Guest: guest})
			},
			expectedStatus: http.StatusOK,
			expectedState:  StateCheckedIn,
			validateResp: func(t *testing.T, _ *http.Response, body *Response) {
				if body.Guest == nil || body.Guest.Name != "Asha" {
					t.Errorf("expected guest summary, got %+v", body.Guest)
				}
			},
		},
		{
			name:    "repeat check-in",
			method:  http.MethodGet,
			purpose: types.PurposeCheckIn,
			setupMocks: func(c *checkin.MockServiceInterface, _ *selfservice.MockServiceInterface) {
				c.EXPECT().CheckIn(gomock.Any(), gomock.Any(), types.SourceLink, gomock.Any()).Return(&access.Result{Outcome: types.OutcomeDuplicate, Guest: guest})
			},
			expectedStatus: http.StatusOK,
			expectedState:  StateAlreadyCheckedIn,
		},
		{
			name:    "unreadable token goes through check-in",
			method:  http.MethodGet,
			garbage: true,
			setupMocks: func(c *checkin.MockServiceInterface, _ *selfservice.MockServiceInterface) {
				c.EXPECT().CheckIn(gomock.Any(), "not-a-token", types.SourceLink, gomock.Any()).Return(&access.Result{Outcome: types.OutcomeInvalid})
			},
			expectedStatus: http.StatusBadRequest,
			expectedState:  StateInvalid,
		},
		{
			name:    "guest not found",
			method:  http.MethodGet,
			purpose: types.PurposeCheckIn,
			setupMocks: func(c *checkin.MockServiceInterface, _ *selfservice.MockServiceInterface) {
				c.EXPECT().CheckIn(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(&access.Result{Outcome: types.OutcomeNotFound})
			},
			expectedStatus: http.StatusNotFound,
			expectedState:  StateUnrecognized,
		},
		{
			name:    "tenant mismatch looks like not found",
			method:  http.MethodGet,
			purpose: types.PurposeCheckIn,
			setupMocks: func(c *checkin.MockServiceInterface, _ *selfservice.MockServiceInterface) {
				c.EXPECT().CheckIn(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(&access.Result{Outcome: types.OutcomeTenantMismatch})
			},
			expectedStatus: http.StatusNotFound,
			expectedState:  StateUnrecognized,
			validateResp: func(t *testing.T, _ *http.Response, body *Response) {
				if body.Message != presentations[StateUnrecognized].message {
					t.Errorf("unexpected message %q", body.Message)
				}
			},
		},
		{
			name:    "store unavailable",
			method:  http.MethodGet,
			purpose: types.PurposeCheckIn,
			setupMocks: func(c *checkin.MockServiceInterface, _ *selfservice.MockServiceInterface) {
				c.EXPECT().CheckIn(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(&access.Result{Outcome: types.OutcomeTransientError})
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedState:  StateUnavailable,
			validateResp: func(t *testing.T, resp *http.Response, _ *Response) {
				if resp.Header.Get("Retry-After") == "" {
					t.Error("expected Retry-After header")
				}
			},
		},
		{
			name:    "rsvp form",
			method:  http.MethodGet,
			purpose: types.PurposeRSVP,
			setupMocks: func(_ *checkin.MockServiceInterface, s *selfservice.MockServiceInterface) {
				s.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(&access.Result{Outcome: types.OutcomeSuccess, Guest: guest})
			},
			expectedStatus: http.StatusOK,
			expectedState:  StateForm,
			validateResp: func(t *testing.T, _ *http.Response, body *Response) {
				if body.Form == nil || body.Form.PartySize != 2 {
					t.Errorf("expected pre-filled form, got %+v", body.Form)
				}
			},
		},
		{
			name:    "expired guest form",
			method:  http.MethodGet,
			purpose: types.PurposeGuestForm,
			setupMocks: func(_ *checkin.MockServiceInterface, s *selfservice.MockServiceInterface) {
				s.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(&access.Result{Outcome: types.OutcomeExpired})
			},
			expectedStatus: http.StatusGone,
			expectedState:  StateExpired,
			validateResp: func(t *testing.T, _ *http.Response, body *Response) {
				if body.Guest != nil || body.Form != nil {
					t.Error("expected no guest data for an expired token")
				}
			},
		},
		{
			name:    "submit",
			method:  http.MethodPost,
			purpose: types.PurposeRSVP,
			body:    `{"name":"Asha","partySize":2,"rsvpStatus":"declined"}`,
			setupMocks: func(_ *checkin.MockServiceInterface, s *selfservice.MockServiceInterface) {
				s.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ string, form *selfservice.Form, _ ...access.Option) (*access.Result, error) {
						if form.RSVPStatus != "declined" {
							return nil, fmt.Errorf("unexpected form %+v", form)
						}
						return &access.Result{Outcome: types.OutcomeSuccess, Guest: guest}, nil
					},
				)
			},
			expectedStatus: http.StatusOK,
			expectedState:  StateUpdated,
		},
		{
			name:           "malformed body",
			method:         http.MethodPost,
			purpose:        types.PurposeRSVP,
			body:           `{"name":`,
			setupMocks:     func(*checkin.MockServiceInterface, *selfservice.MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedState:  StateBadRequest,
		},
		{
			name:    "field of the wrong type",
			method:  http.MethodPost,
			purpose: types.PurposeRSVP,
			body:    `{"name":"Asha","partySize":"two"}`,
			setupMocks: func(_ *checkin.MockServiceInterface, s *selfservice.MockServiceInterface) {
				s.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(&access.Result{Outcome: types.OutcomeSuccess, Guest: guest})
				s.EXPECT().Check(gomock.Any()).Return(nil)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedState:  StateValidationFailed,
			validateResp: func(t *testing.T, _ *http.Response, body *Response) {
				if len(body.Errors) != 1 || body.Errors[0].Field != "partySize" {
					t.Errorf("unexpected errors %+v", body.Errors)
				}
			},
		},
		{
			name:    "field of the wrong type reported with every rule error",
			method:  http.MethodPost,
			purpose: types.PurposeRSVP,
			body:    `{"name":"","email":"not-an-email","rsvpStatus":"nope","partySize":"two"}`,
			setupMocks: func(_ *checkin.MockServiceInterface, s *selfservice.MockServiceInterface) {
				rules := selfservice.NewService(nil, nil, 0, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test"), logging.NewNoopLogger())

				s.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(&access.Result{Outcome: types.OutcomeSuccess, Guest: guest})
				s.EXPECT().Check(gomock.Any()).DoAndReturn(rules.Check)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedState:  StateValidationFailed,
			validateResp: func(t *testing.T, _ *http.Response, body *Response) {
				fields := make([]string, 0, len(body.Errors))
				for _, e := range body.Errors {
					fields = append(fields, e.Field)
				}

				if got := strings.Join(fields, ","); got != "name,email,partySize,rsvpStatus" {
					t.Errorf("unexpected error fields %s", got)
				}
			},
		},
		{
			name:    "field of the wrong type with an expired token",
			method:  http.MethodPost,
			purpose: types.PurposeRSVP,
			body:    `{"partySize":"two"}`,
			setupMocks: func(_ *checkin.MockServiceInterface, s *selfservice.MockServiceInterface) {
				s.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any()).Return(&access.Result{Outcome: types.OutcomeExpired})
			},
			expectedStatus: http.StatusGone,
			expectedState:  StateExpired,
		},
		{
			name:    "validation failed",
			method:  http.MethodPost,
			purpose: types.PurposeRSVP,
			body:    `{"name":"Asha","partySize":0}`,
			setupMocks: func(_ *checkin.MockServiceInterface, s *selfservice.MockServiceInterface) {
				s.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(
					&access.Result{Outcome: types.OutcomeSuccess, Guest: guest},
					&selfservice.ValidationError{Fields: []selfservice.FieldError{{Field: "partySize", Message: "must be at least 1"}}},
				)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedState:  StateValidationFailed,
			validateResp: func(t *testing.T, _ *http.Response, body *Response) {
				if len(body.Errors) != 1 || body.Errors[0].Field != "partySize" {
					t.Errorf("unexpected errors %+v", body.Errors)
				}
			},
		},
		{
			name:    "submit with a check-in token",
			method:  http.MethodPost,
			purpose: types.PurposeCheckIn,
			body:    `{"name":"Asha"}`,
			setupMocks: func(_ *checkin.MockServiceInterface, s *selfservice.MockServiceInterface) {
				s.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(
					&access.Result{Outcome: types.OutcomeInvalid, Err: access.ErrPurposeMismatch}, nil,
				)
			},
			expectedStatus: http.StatusBadRequest,
			expectedState:  StateInvalid,
		},
		{
			name:    "submit while store unavailable",
			method:  http.MethodPost,
			purpose: types.PurposeGuestForm,
			body:    `{"name":"Asha"}`,
			setupMocks: func(_ *checkin.MockServiceInterface, s *selfservice.MockServiceInterface) {
				s.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(
					&access.Result{Outcome: types.OutcomeTransientError, Err: fmt.Errorf("update: %w", storage.ErrTransient)}, nil,
				)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedState:  StateUnavailable,
		},
		{
			name:    "submit for a guest removed meanwhile",
			method:  http.MethodPost,
			purpose: types.PurposeGuestForm,
			body:    `{"name":"Asha"}`,
			setupMocks: func(_ *checkin.MockServiceInterface, s *selfservice.MockServiceInterface) {
				s.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(
					&access.Result{Outcome: types.OutcomeNotFound, Err: storage.ErrNotFound}, nil,
				)
			},
			expectedStatus: http.StatusNotFound,
			expectedState:  StateUnrecognized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockCheckin := checkin.NewMockServiceInterface(ctrl)
			mockSelfService := selfservice.NewMockServiceInterface(ctrl)
			tt.setupMocks(mockCheckin, mockSelfService)

			codec := newTestCodec(t, now)

			raw := "not-a-token"
			if !tt.garbage {
				raw = mint(t, codec, tt.purpose)
			}

			api := NewAPI(codec, mockCheckin, mockSelfService, nil, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test"), logging.NewNoopLogger())

			mux := chi.NewMux()
			api.RegisterEndpoints(mux)

			req := httptest.NewRequest(tt.method, "/qr/"+raw, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, resp.StatusCode)
			}

			body := new(Response)
			if err := json.NewDecoder(resp.Body).Decode(body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			if body.State != tt.expectedState {
				t.Errorf("expected state %q, got %q", tt.expectedState, body.State)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, resp, body)
			}
		})
	}
}

func TestAPI_PurposeOfExpiredToken(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	raw := mint(t, newTestCodec(t, now), types.PurposeRSVP)

	api := NewAPI(newTestCodec(t, now.Add(2*time.Hour)), nil, nil, nil, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test"), logging.NewNoopLogger())

	if got := api.purposeOf(raw); got != types.PurposeRSVP {
		t.Errorf("expected rsvp, got %q", got)
	}

	if got := api.purposeOf("%%%"); got != types.PurposeCheckIn {
		t.Errorf("expected check-in fallback, got %q", got)
	}
}

func TestStateOf(t *testing.T) {
	tests := []struct {
		outcome  types.ScanOutcome
		granted  State
		expected State
	}{
		{types.OutcomeSuccess, StateCheckedIn, StateCheckedIn},
		{types.OutcomeDuplicate, StateCheckedIn, StateAlreadyCheckedIn},
		{types.OutcomeSuccess, StateForm, StateForm},
		{types.OutcomeExpired, StateForm, StateExpired},
		{types.OutcomeInvalid, StateCheckedIn, StateInvalid},
		{types.OutcomeNotFound, StateUpdated, StateUnrecognized},
		{types.OutcomeTenantMismatch, StateUpdated, StateUnrecognized},
		{types.OutcomeTransientError, StateCheckedIn, StateUnavailable},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.outcome, tt.granted), func(t *testing.T) {
			if got := stateOf(&access.Result{Outcome: tt.outcome}, tt.granted); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestPresentations_CoverEveryState(t *testing.T) {
	for _, state := range []State{
		StateCheckedIn, StateAlreadyCheckedIn, StateForm, StateUpdated, StateExpired, StateInvalid,
		StateUnrecognized, StateUnavailable, StateValidationFailed, StateBadRequest, StateTooManyRequests,
	} {
		p, ok := presentations[state]
		if !ok || p.status == 0 || p.message == "" {
			t.Errorf("state %q has no presentation", state)
		}
	}
}
