// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package access

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/storage"
	"github.com/canonical/guest-access-service/internal/storage/memory"
	"github.com/canonical/guest-access-service/internal/token"
	"github.com/canonical/guest-access-service/internal/tracing"
	"github.com/canonical/guest-access-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package access -destination ./mock_access.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package access -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

func testPayload(purpose types.Purpose) *token.Payload {
	now := time.Now().UTC()
	return &token.Payload{
		GuestID:   "guest-1",
		TenantID:  "tenant-a",
		Purpose:   purpose,
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func TestValidator_Validate(t *testing.T) {
	checkIn := testPayload(types.PurposeCheckIn)
	guest := &types.Guest{ID: "guest-1", TenantID: "tenant-a", Name: "Asha"}

	testCases := []struct {
		name            string
		opts            []Option
		setupMocks      func(*MockCodecInterface, *MockStorageInterface)
		expectedOutcome types.ScanOutcome
		expectedErr     error
		expectGuest     bool
		expectAuditIDs  bool
	}{
		{
			name: "success",
			setupMocks: func(codec *MockCodecInterface, store *MockStorageInterface) {
				codec.EXPECT().Decode("raw").Return(checkIn, nil)
				store.EXPECT().GetGuestByID(gomock.Any(), "guest-1", "tenant-a").Return(guest, nil)
			},
			expectedOutcome: types.OutcomeSuccess,
			expectGuest:     true,
			expectAuditIDs:  true,
		},
		{
			name: "malformed",
			setupMocks: func(codec *MockCodecInterface, store *MockStorageInterface) {
				codec.EXPECT().Decode("raw").Return(nil, token.ErrMalformedToken)
			},
			expectedOutcome: types.OutcomeInvalid,
			expectedErr:     token.ErrMalformedToken,
		},
		{
			name: "invalid signature",
			setupMocks: func(codec *MockCodecInterface, store *MockStorageInterface) {
				codec.EXPECT().Decode("raw").Return(nil, token.ErrInvalidSignature)
			},
			expectedOutcome: types.OutcomeInvalid,
			expectedErr:     token.ErrInvalidSignature,
		},
		{
			name: "expired",
			setupMocks: func(codec *MockCodecInterface, store *MockStorageInterface) {
				codec.EXPECT().Decode("raw").Return(nil, &token.ExpiredTokenError{Payload: checkIn})
			},
			expectedOutcome: types.OutcomeExpired,
			expectedErr:     token.ErrExpiredToken,
			expectAuditIDs:  true,
		},
		{
			name: "purpose not accepted",
			opts: []Option{WithPurposes(types.PurposeRSVP, types.PurposeGuestForm)},
			setupMocks: func(codec *MockCodecInterface, store *MockStorageInterface) {
				codec.EXPECT().Decode("raw").Return(checkIn, nil)
			},
			expectedOutcome: types.OutcomeInvalid,
			expectedErr:     ErrPurposeMismatch,
			expectAuditIDs:  true,
		},
		{
			name: "not found",
			setupMocks: func(codec *MockCodecInterface, store *MockStorageInterface) {
				codec.EXPECT().Decode("raw").Return(checkIn, nil)
				store.EXPECT().GetGuestByID(gomock.Any(), "guest-1", "tenant-a").Return(nil, storage.ErrNotFound)
			},
			expectedOutcome: types.OutcomeNotFound,
			expectedErr:     storage.ErrNotFound,
			expectAuditIDs:  true,
		},
		{
			name: "tenant mismatch reported by store",
			setupMocks: func(codec *MockCodecInterface, store *MockStorageInterface) {
				codec.EXPECT().Decode("raw").Return(checkIn, nil)
				store.EXPECT().GetGuestByID(gomock.Any(), "guest-1", "tenant-a").Return(nil, storage.ErrTenantMismatch)
			},
			expectedOutcome: types.OutcomeTenantMismatch,
			expectedErr:     storage.ErrTenantMismatch,
			expectAuditIDs:  true,
		},
		{
			name: "tenant mismatch missed by store",
			setupMocks: func(codec *MockCodecInterface, store *MockStorageInterface) {
				codec.EXPECT().Decode("raw").Return(checkIn, nil)
				store.EXPECT().GetGuestByID(gomock.Any(), "guest-1", "tenant-a").Return(&types.Guest{ID: "guest-1", TenantID: "tenant-b"}, nil)
			},
			expectedOutcome: types.OutcomeTenantMismatch,
			expectedErr:     storage.ErrTenantMismatch,
			expectAuditIDs:  true,
		},
		{
			name: "store unavailable",
			setupMocks: func(codec *MockCodecInterface, store *MockStorageInterface) {
				codec.EXPECT().Decode("raw").Return(checkIn, nil)
				store.EXPECT().GetGuestByID(gomock.Any(), "guest-1", "tenant-a").Return(nil, fmt.Errorf("get: %w", storage.ErrTransient))
			},
			expectedOutcome: types.OutcomeTransientError,
			expectedErr:     storage.ErrTransient,
			expectAuditIDs:  true,
		},
		{
			name: "unclassified store error",
			setupMocks: func(codec *MockCodecInterface, store *MockStorageInterface) {
				codec.EXPECT().Decode("raw").Return(checkIn, nil)
				store.EXPECT().GetGuestByID(gomock.Any(), "guest-1", "tenant-a").Return(nil, errors.New("boom"))
			},
			expectedOutcome: types.OutcomeTransientError,
			expectAuditIDs:  true,
		},
		{
			name: "effect refines to duplicate",
			opts: []Option{WithEffect(func(context.Context, *token.Payload, *types.Guest) (types.ScanOutcome, *types.Guest, error) {
				return types.OutcomeDuplicate, nil, nil
			})},
			setupMocks: func(codec *MockCodecInterface, store *MockStorageInterface) {
				codec.EXPECT().Decode("raw").Return(checkIn, nil)
				store.EXPECT().GetGuestByID(gomock.Any(), "guest-1", "tenant-a").Return(guest, nil)
			},
			expectedOutcome: types.OutcomeDuplicate,
			expectGuest:     true,
			expectAuditIDs:  true,
		},
		{
			name: "effect fails",
			opts: []Option{WithEffect(func(context.Context, *token.Payload, *types.Guest) (types.ScanOutcome, *types.Guest, error) {
				return "", nil, context.DeadlineExceeded
			})},
			setupMocks: func(codec *MockCodecInterface, store *MockStorageInterface) {
				codec.EXPECT().Decode("raw").Return(checkIn, nil)
				store.EXPECT().GetGuestByID(gomock.Any(), "guest-1", "tenant-a").Return(guest, nil)
			},
			expectedOutcome: types.OutcomeTransientError,
			expectedErr:     context.DeadlineExceeded,
			expectAuditIDs:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockCodec := NewMockCodecInterface(ctrl)
			mockStore := NewMockStorageInterface(ctrl)
			mockTracer := NewMockTracingInterface(ctrl)

			v := NewValidator(mockCodec, mockStore, time.Second, mockTracer, monitoring.NewNoopMonitor("test"), logging.NewNoopLogger())

			mockTracer.EXPECT().Start(gomock.Any(), "access.Validator.Validate").Return(context.Background(), trace.SpanFromContext(context.Background()))
			tc.setupMocks(mockCodec, mockStore)

			var recorded *types.ScanEvent
			mockStore.EXPECT().AppendScanEvent(gomock.Any(), gomock.Any()).Times(1).DoAndReturn(
				func(_ context.Context, e *types.ScanEvent) (*types.ScanEvent, error) {
					recorded = e
					return e, nil
				},
			)

			result := v.Validate(context.Background(), "raw", append(tc.opts, WithSource(types.SourceCamera))...)

			if result.Outcome != tc.expectedOutcome {
				t.Errorf("expected outcome %s, got %s", tc.expectedOutcome, result.Outcome)
			}

			if tc.expectedErr != nil && !errors.Is(result.Err, tc.expectedErr) {
				t.Errorf("expected error %v, got %v", tc.expectedErr, result.Err)
			}

			if tc.expectGuest != (result.Guest != nil) {
				t.Errorf("expected guest present %v, got %+v", tc.expectGuest, result.Guest)
			}

			if result.Granted() != tc.expectGuest {
				t.Errorf("expected granted %v", tc.expectGuest)
			}

			if recorded.Outcome != tc.expectedOutcome || recorded.Source != types.SourceCamera {
				t.Errorf("unexpected scan event %+v", recorded)
			}

			if tc.expectAuditIDs != (recorded.GuestID == "guest-1" && recorded.TenantID == "tenant-a") {
				t.Errorf("unexpected scan event attribution %+v", recorded)
			}
		})
	}
}

func TestValidator_AuditSurvivesCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCodec := NewMockCodecInterface(ctrl)
	mockStore := NewMockStorageInterface(ctrl)

	v := NewValidator(mockCodec, mockStore, time.Second, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test"), logging.NewNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mockCodec.EXPECT().Decode("raw").Return(testPayload(types.PurposeCheckIn), nil)
	mockStore.EXPECT().GetGuestByID(gomock.Any(), "guest-1", "tenant-a").DoAndReturn(
		func(ctx context.Context, _, _ string) (*types.Guest, error) {
			return nil, ctx.Err()
		},
	)
	mockStore.EXPECT().AppendScanEvent(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, e *types.ScanEvent) (*types.ScanEvent, error) {
			if ctx.Err() != nil {
				t.Errorf("audit append ran on a cancelled context: %v", ctx.Err())
			}
			return e, nil
		},
	)

	result := v.Validate(ctx, "raw")
	if result.Outcome != types.OutcomeTransientError {
		t.Errorf("expected %s, got %s", types.OutcomeTransientError, result.Outcome)
	}
}

func TestValidator_StoreTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCodec := NewMockCodecInterface(ctrl)
	mockStore := NewMockStorageInterface(ctrl)

	v := NewValidator(mockCodec, mockStore, 20*time.Millisecond, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test"), logging.NewNoopLogger())

	mockCodec.EXPECT().Decode("raw").Return(testPayload(types.PurposeRSVP), nil)
	mockStore.EXPECT().GetGuestByID(gomock.Any(), "guest-1", "tenant-a").DoAndReturn(
		func(ctx context.Context, _, _ string) (*types.Guest, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	)
	mockStore.EXPECT().AppendScanEvent(gomock.Any(), gomock.Any()).Return(nil, nil)

	start := time.Now()
	result := v.Validate(context.Background(), "raw")

	if result.Outcome != types.OutcomeTransientError {
		t.Errorf("expected %s, got %s", types.OutcomeTransientError, result.Outcome)
	}

	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("store timeout not enforced, took %v", elapsed)
	}
}

func TestValidator_AppendFailureKeepsOutcome(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCodec := NewMockCodecInterface(ctrl)
	mockStore := NewMockStorageInterface(ctrl)

	v := NewValidator(mockCodec, mockStore, time.Second, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test"), logging.NewNoopLogger())

	mockCodec.EXPECT().Decode("raw").Return(testPayload(types.PurposeRSVP), nil)
	mockStore.EXPECT().GetGuestByID(gomock.Any(), "guest-1", "tenant-a").Return(&types.Guest{ID: "guest-1", TenantID: "tenant-a"}, nil)
	mockStore.EXPECT().AppendScanEvent(gomock.Any(), gomock.Any()).Return(nil, storage.ErrTransient)

	if result := v.Validate(context.Background(), "raw"); result.Outcome != types.OutcomeSuccess {
		t.Errorf("expected %s, got %s", types.OutcomeSuccess, result.Outcome)
	}
}

func TestValidator_TenantIsolation(t *testing.T) {
	store := memory.NewStorage(tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test"), logging.NewNoopLogger())
	store.PutGuest(&types.Guest{ID: "guest-1", TenantID: "tenant-a", Name: "Asha"})
	store.PutGuest(&types.Guest{ID: "guest-2", TenantID: "tenant-b", Name: "Ravi"})

	codec, err := token.NewCodec(bytes.Repeat([]byte{7}, token.KeySize), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v := NewValidator(codec, store, time.Second, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test"), logging.NewNoopLogger())
	ctx := context.Background()

	testCases := []struct {
		name     string
		guestID  string
		tenantID string
		expected types.ScanOutcome
	}{
		{name: "own guest", guestID: "guest-1", tenantID: "tenant-a", expected: types.OutcomeSuccess},
		{name: "guest of another tenant", guestID: "guest-2", tenantID: "tenant-a", expected: types.OutcomeTenantMismatch},
		{name: "unknown guest", guestID: "guest-9", tenantID: "tenant-a", expected: types.OutcomeNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := codec.Encode(tc.guestID, tc.tenantID, types.PurposeRSVP, time.Hour)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			result := v.Validate(ctx, raw)
			if result.Outcome != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, result.Outcome)
			}

			if !result.Granted() && result.Guest != nil {
				t.Errorf("guest data leaked on %s: %+v", result.Outcome, result.Guest)
			}

			events, _ := store.ListScanEvents(ctx, tc.tenantID, tc.guestID, 1, 10)
			if len(events) != 1 || events[0].Outcome != tc.expected {
				t.Errorf("expected one %s event, got %+v", tc.expected, events)
			}
		})
	}
}
