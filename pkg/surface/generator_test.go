// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package surface

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/token"
	"github.com/canonical/guest-access-service/internal/tracing"
	"github.com/canonical/guest-access-service/internal/types"
)

func newTestGenerator(t *testing.T) (*Generator, *token.Codec) {
	t.Helper()

	codec, err := token.NewCodec(bytes.Repeat([]byte{9}, token.KeySize), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := Config{
		DefaultTTLs: map[types.Purpose]time.Duration{
			types.PurposeCheckIn: 72 * time.Hour,
			types.PurposeRSVP:    720 * time.Hour,
		},
		MaxTTL: 2160 * time.Hour,
	}

	return NewGenerator(codec, cfg, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test"), logging.NewNoopLogger()), codec
}

func TestGenerator_Generate(t *testing.T) {
	g, codec := newTestGenerator(t)

	s, err := g.Generate("guest-1", "tenant-a", types.PurposeCheckIn, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.URL != "/qr/"+s.Token {
		t.Errorf("expected landing path for token, got %s", s.URL)
	}

	p, err := codec.Decode(s.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.GuestID != "guest-1" || p.TenantID != "tenant-a" || p.Purpose != types.PurposeCheckIn || !p.ExpiresAt.Equal(s.ExpiresAt) {
		t.Errorf("unexpected payload %+v", p)
	}

	again, _ := g.Generate("guest-1", "tenant-a", types.PurposeCheckIn, time.Hour)
	if again.Token == s.Token {
		t.Errorf("expected re-issue to mint a fresh token")
	}

	if _, err := g.Generate("", "tenant-a", types.PurposeCheckIn, time.Hour); err == nil {
		t.Errorf("expected error for empty guest id")
	}
}

func TestGenerator_GenerateBatch(t *testing.T) {
	g, codec := newTestGenerator(t)

	guestIDs := make([]string, 50)
	for i := range guestIDs {
		guestIDs[i] = fmt.Sprintf("guest-%02d", i)
	}

	surfaces, err := g.GenerateBatch(context.Background(), "tenant-a", guestIDs, types.PurposeRSVP, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(surfaces) != len(guestIDs) {
		t.Fatalf("expected %d surfaces, got %d", len(guestIDs), len(surfaces))
	}

	for i, s := range surfaces {
		p, err := codec.Decode(s.Token)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if s.GuestID != guestIDs[i] || p.GuestID != guestIDs[i] || p.TenantID != "tenant-a" {
			t.Errorf("surface %d: expected guest %s, got surface %s payload %s", i, guestIDs[i], s.GuestID, p.GuestID)
		}
	}
}

func TestGenerator_GenerateBatchFails(t *testing.T) {
	g, _ := newTestGenerator(t)

	_, err := g.GenerateBatch(context.Background(), "tenant-a", []string{"guest-1", "", "guest-3"}, types.PurposeRSVP, time.Hour)
	if err == nil {
		t.Errorf("expected error for empty guest id")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.GenerateBatch(ctx, "tenant-a", []string{"guest-1"}, types.PurposeRSVP, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGenerator_TTL(t *testing.T) {
	g, _ := newTestGenerator(t)

	testCases := []struct {
		name        string
		purpose     types.Purpose
		requested   time.Duration
		expected    time.Duration
		expectedErr bool
	}{
		{name: "default check-in", purpose: types.PurposeCheckIn, expected: 72 * time.Hour},
		{name: "explicit", purpose: types.PurposeCheckIn, requested: 24 * time.Hour, expected: 24 * time.Hour},
		{name: "no default", purpose: types.PurposeGuestForm, expectedErr: true},
		{name: "too long", purpose: types.PurposeRSVP, requested: 10000 * time.Hour, expectedErr: true},
		{name: "negative", purpose: types.PurposeRSVP, requested: -time.Hour, expectedErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ttl, err := g.TTL(tc.purpose, tc.requested)
			if tc.expectedErr {
				if err == nil {
					t.Errorf("expected error, got ttl %v", ttl)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if ttl != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, ttl)
			}
		})
	}
}

func TestQRCode(t *testing.T) {
	s := &Surface{Token: "abc", URL: "/qr/abc"}

	link, err := s.AbsoluteURL("https://guests.example.com/")
	if err != nil || link != "https://guests.example.com/qr/abc" {
		t.Errorf("unexpected absolute url %q, %v", link, err)
	}

	data, err := QRCode(s, "https://guests.example.com", 256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("expected a PNG, got %v", err)
	}

	if b := img.Bounds(); b.Dx() != 256 || b.Dy() != 256 {
		t.Errorf("expected 256x256 image, got %v", b)
	}

	if !strings.HasPrefix(string(data[:8]), "\x89PNG") {
		t.Errorf("missing PNG signature")
	}
}
