// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package landing

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/storage/memory"
	"github.com/canonical/guest-access-service/internal/tracing"
	"github.com/canonical/guest-access-service/internal/types"
	"github.com/canonical/guest-access-service/pkg/access"
	"github.com/canonical/guest-access-service/pkg/checkin"
	"github.com/canonical/guest-access-service/pkg/selfservice"
)

type landingServer struct {
	mux   *chi.Mux
	store *memory.Storage
}

func newLandingServer(t *testing.T) *landingServer {
	t.Helper()

	tracer := tracing.NewNoopTracer()
	monitor := monitoring.NewNoopMonitor("test")
	logger := logging.NewNoopLogger()

	store := memory.NewStorage(tracer, monitor, logger)
	store.PutGuest(&types.Guest{ID: "guest-1", TenantID: "tenant-a", Name: "Asha", PartySize: 1})
	store.PutGuest(&types.Guest{ID: "guest-2", TenantID: "tenant-b", Name: "Ravi", PartySize: 1})

	codec := newTestCodec(t, time.Now())
	validator := access.NewValidator(codec, store, time.Second, tracer, monitor, logger)

	api := NewAPI(
		codec,
		checkin.NewService(validator, store, tracer, monitor, logger),
		selfservice.NewService(validator, store, time.Second, tracer, monitor, logger),
		nil,
		tracer, monitor, logger,
	)

	mux := chi.NewMux()
	api.RegisterEndpoints(mux)

	return &landingServer{mux: mux, store: store}
}

func (s *landingServer) do(t *testing.T, method, raw, body string) (int, *Response, string) {
	t.Helper()

	req := httptest.NewRequest(method, "/qr/"+raw, strings.NewReader(body))
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)

	data, _ := io.ReadAll(w.Result().Body)

	resp := new(Response)
	if err := json.Unmarshal(data, resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return w.Code, resp, string(data)
}

func TestLanding_CheckInTwice(t *testing.T) {
	s := newLandingServer(t)
	codec := newTestCodec(t, time.Now())

	raw := mint(t, codec, types.PurposeCheckIn)

	if code, resp, _ := s.do(t, http.MethodGet, raw, ""); code != http.StatusOK || resp.State != StateCheckedIn {
		t.Fatalf("first scan: got %d %q", code, resp.State)
	}

	if code, resp, _ := s.do(t, http.MethodGet, raw, ""); code != http.StatusOK || resp.State != StateAlreadyCheckedIn {
		t.Fatalf("second scan: got %d %q", code, resp.State)
	}

	events, err := s.store.ListScanEvents(context.Background(), "tenant-a", "guest-1", 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 scan events, got %d", len(events))
	}
}

func TestLanding_UnknownAndForeignGuestsLookAlike(t *testing.T) {
	s := newLandingServer(t)
	codec := newTestCodec(t, time.Now())

	// guest-2 lives in tenant-b
	foreign, err := codec.Encode("guest-2", "tenant-a", types.PurposeCheckIn, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missing, err := codec.Encode("guest-404", "tenant-a", types.PurposeCheckIn, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	foreignCode, _, foreignBody := s.do(t, http.MethodGet, foreign, "")
	missingCode, _, missingBody := s.do(t, http.MethodGet, missing, "")

	if foreignCode != http.StatusNotFound || missingCode != http.StatusNotFound {
		t.Fatalf("expected 404 for both, got %d and %d", foreignCode, missingCode)
	}

	if foreignBody != missingBody {
		t.Errorf("expected identical bodies, got %q and %q", foreignBody, missingBody)
	}

	g, err := s.store.GetGuestByID(context.Background(), "guest-2", "tenant-b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.CheckInStatus != types.NotCheckedIn {
		t.Error("foreign guest must not be checked in")
	}
}

func TestLanding_SubmitRSVP(t *testing.T) {
	s := newLandingServer(t)
	codec := newTestCodec(t, time.Now())

	raw := mint(t, codec, types.PurposeRSVP)

	code, resp, _ := s.do(t, http.MethodPost, raw, `{"name":"Asha","partySize":2,"rsvpStatus":"declined","guestId":"guest-2"}`)
	if code != http.StatusOK || resp.State != StateUpdated {
		t.Fatalf("got %d %q", code, resp.State)
	}

	g, err := s.store.GetGuestByID(context.Background(), "guest-1", "tenant-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.RSVPStatus != types.RSVPDeclined || g.PartySize != 2 {
		t.Errorf("unexpected guest %+v", g)
	}

	code, resp, _ = s.do(t, http.MethodPost, raw, `{"name":"Asha","partySize":0}`)
	if code != http.StatusUnprocessableEntity || len(resp.Errors) != 1 || resp.Errors[0].Field != "partySize" {
		t.Fatalf("got %d %+v", code, resp.Errors)
	}

	g, err = s.store.GetGuestByID(context.Background(), "guest-1", "tenant-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.PartySize != 2 {
		t.Errorf("rejected submission must not be written, party size is %d", g.PartySize)
	}
}
