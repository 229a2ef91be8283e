// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package staff

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/canonical/guest-access-service/internal/authorization"
	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/storage/memory"
	"github.com/canonical/guest-access-service/internal/token"
	"github.com/canonical/guest-access-service/internal/tracing"
	"github.com/canonical/guest-access-service/internal/types"
	"github.com/canonical/guest-access-service/pkg/access"
	"github.com/canonical/guest-access-service/pkg/checkin"
	"github.com/canonical/guest-access-service/pkg/surface"
)

//go:generate mockgen -build_flags=--mod=mod -package staff -destination ./mock_staff.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package staff -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

const baseURL = "https://guests.example.com"

type fixture struct {
	codec      *token.Codec
	store      *memory.Storage
	authorizer *MockAuthorizerInterface
	service    *Service
}

func newFixture(t *testing.T, ctrl *gomock.Controller) *fixture {
	t.Helper()

	tracer := tracing.NewNoopTracer()
	monitor := monitoring.NewNoopMonitor("test")
	logger := logging.NewNoopLogger()

	codec, err := token.NewCodec(bytes.Repeat([]byte{11}, token.KeySize), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store := memory.NewStorage(tracer, monitor, logger)
	store.PutGuest(&types.Guest{ID: "guest-1", TenantID: "tenant-a", Name: "Asha", PartySize: 1})
	store.PutGuest(&types.Guest{ID: "guest-2", TenantID: "tenant-b", Name: "Ravi", PartySize: 1})

	generator := surface.NewGenerator(codec, surface.Config{
		DefaultTTLs: map[types.Purpose]time.Duration{
			types.PurposeCheckIn:   72 * time.Hour,
			types.PurposeRSVP:      720 * time.Hour,
			types.PurposeGuestForm: 720 * time.Hour,
		},
		MaxTTL: 2160 * time.Hour,
	}, tracer, monitor, logger)

	validator := access.NewValidator(codec, store, time.Second, tracer, monitor, logger)
	checkinService := checkin.NewService(validator, store, tracer, monitor, logger)

	authorizer := NewMockAuthorizerInterface(ctrl)

	return &fixture{
		codec:      codec,
		store:      store,
		authorizer: authorizer,
		service:    NewService(generator, checkinService, codec, store, authorizer, baseURL, tracer, monitor, logger),
	}
}

func (f *fixture) allow(tenantID, relation string, allowed bool) *gomock.Call {
	return f.authorizer.EXPECT().CheckTenantAccess(gomock.Any(), tenantID, "staff-1", relation).Return(allowed, nil)
}

func TestService_IssueSurfaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)
	f.allow("tenant-a", authorization.CAN_ISSUE_PERMISSION, true)

	req := &IssueRequest{GuestIDs: []string{"guest-1", "guest-3", "guest-4"}, Purpose: types.PurposeRSVP, TTL: "48h"}

	surfaces, err := f.service.IssueSurfaces(context.Background(), "staff-1", "tenant-a", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(surfaces) != 3 {
		t.Fatalf("expected 3 surfaces, got %d", len(surfaces))
	}

	for i, s := range surfaces {
		if s.GuestID != req.GuestIDs[i] {
			t.Errorf("surface %d: expected guest %s, got %s", i, req.GuestIDs[i], s.GuestID)
		}

		if !strings.HasPrefix(s.URL, baseURL+"/qr/") {
			t.Errorf("surface %d: unexpected url %s", i, s.URL)
		}

		p, err := f.codec.Decode(s.Token)
		if err != nil {
			t.Fatalf("surface %d: unexpected error: %v", i, err)
		}

		if p.TenantID != "tenant-a" || p.Purpose != types.PurposeRSVP {
			t.Errorf("surface %d: unexpected payload %+v", i, p)
		}

		if got := p.ExpiresAt.Sub(p.IssuedAt); got != 48*time.Hour {
			t.Errorf("surface %d: expected a 48h window, got %s", i, got)
		}
	}
}

func TestService_IssueSurfacesRejected(t *testing.T) {
	tests := []struct {
		name        string
		allowed     bool
		req         *IssueRequest
		expectedErr error
	}{
		{
			name:        "not staff of the tenant",
			allowed:     false,
			req:         &IssueRequest{GuestIDs: []string{"guest-1"}, Purpose: types.PurposeCheckIn},
			expectedErr: ErrForbidden,
		},
		{
			name:        "ttl above the maximum",
			allowed:     true,
			req:         &IssueRequest{GuestIDs: []string{"guest-1"}, Purpose: types.PurposeCheckIn, TTL: "9000h"},
			expectedErr: ErrInvalidRequest,
		},
		{
			name:        "ttl not a duration",
			allowed:     true,
			req:         &IssueRequest{GuestIDs: []string{"guest-1"}, Purpose: types.PurposeCheckIn, TTL: "soon"},
			expectedErr: ErrInvalidRequest,
		},
		{
			name:        "negative ttl",
			allowed:     true,
			req:         &IssueRequest{GuestIDs: []string{"guest-1"}, Purpose: types.PurposeCheckIn, TTL: "-1h"},
			expectedErr: ErrInvalidRequest,
		},
		{
			name:        "unknown purpose",
			allowed:     true,
			req:         &IssueRequest{GuestIDs: []string{"guest-1"}, Purpose: "vip"},
			expectedErr: ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newFixture(t, ctrl)
			f.allow("tenant-a", authorization.CAN_ISSUE_PERMISSION, tt.allowed)

			surfaces, err := f.service.IssueSurfaces(context.Background(), "staff-1", "tenant-a", tt.req)
			if !errors.Is(err, tt.expectedErr) {
				t.Fatalf("expected %v, got %v", tt.expectedErr, err)
			}

			if surfaces != nil {
				t.Error("expected no surfaces")
			}
		})
	}
}

func TestService_AuthorizerError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)
	f.authorizer.EXPECT().CheckTenantAccess(gomock.Any(), "tenant-a", "staff-1", authorization.CAN_VIEW_PERMISSION).Return(false, errors.New("openfga down"))

	_, err := f.service.ListScans(context.Background(), "staff-1", "tenant-a", "guest-1", 1, 10)
	if err == nil || errors.Is(err, ErrForbidden) {
		t.Fatalf("expected the authorizer error, got %v", err)
	}
}

func TestService_RenderQR(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)
	f.allow("tenant-a", authorization.CAN_ISSUE_PERMISSION, true).Times(2)

	png, err := f.service.RenderQR(context.Background(), "staff-1", "tenant-a", "guest-1", types.PurposeCheckIn, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("expected a png")
	}

	if _, err := f.service.RenderQR(context.Background(), "staff-1", "tenant-a", "guest-1", types.PurposeCheckIn, 10); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for a tiny size, got %v", err)
	}
}

func TestService_Scan(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)
	ctx := context.Background()

	raw, err := f.codec.Encode("guest-1", "tenant-a", types.PurposeCheckIn, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.allow("tenant-a", authorization.CAN_SCAN_PERMISSION, true).Times(2)

	result, err := f.service.Scan(ctx, "staff-1", raw, types.SourceCamera)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Outcome != types.OutcomeSuccess {
		t.Fatalf("expected success, got %s", result.Outcome)
	}

	result, err = f.service.Scan(ctx, "staff-1", raw, types.SourceCamera)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Outcome != types.OutcomeDuplicate {
		t.Fatalf("expected duplicate, got %s", result.Outcome)
	}

	f.allow("tenant-a", authorization.CAN_VIEW_PERMISSION, true)

	events, err := f.service.ListScans(ctx, "staff-1", "tenant-a", "guest-1", 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 2 || events[0].Source != types.SourceCamera {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestService_ScanForeignTenant(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)
	ctx := context.Background()

	raw, err := f.codec.Encode("guest-2", "tenant-b", types.PurposeCheckIn, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.allow("tenant-b", authorization.CAN_SCAN_PERMISSION, false)

	if _, err := f.service.Scan(ctx, "staff-1", raw, types.SourceCamera); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	g, err := f.store.GetGuestByID(ctx, "guest-2", "tenant-b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.CheckInStatus != types.NotCheckedIn {
		t.Error("guest of another tenant must not be checked in")
	}
}

func TestService_ScanUnreadableToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t, ctrl)

	result, err := f.service.Scan(context.Background(), "staff-1", "garbage", types.SourceUpload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Outcome != types.OutcomeInvalid {
		t.Errorf("expected invalid, got %s", result.Outcome)
	}
}
