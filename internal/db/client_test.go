// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

import (
	"context"
	"testing"
)

func TestOffset(t *testing.T) {
	testCases := []struct {
		page     int64
		size     uint64
		expected uint64
	}{
		{page: 0, size: 50, expected: 0},
		{page: -3, size: 50, expected: 0},
		{page: 1, size: 50, expected: 0},
		{page: 3, size: 50, expected: 100},
	}

	for _, tc := range testCases {
		if got := Offset(tc.page, tc.size); got != tc.expected {
			t.Errorf("Offset(%d, %d): expected %d, got %d", tc.page, tc.size, tc.expected, got)
		}
	}
}

func TestPageSize(t *testing.T) {
	testCases := []struct {
		size     int64
		expected uint64
	}{
		{size: 0, expected: defaultPageSize},
		{size: -1, expected: defaultPageSize},
		{size: 20, expected: 20},
		{size: 5000, expected: maxPageSize},
	}

	for _, tc := range testCases {
		if got := PageSize(tc.size); got != tc.expected {
			t.Errorf("PageSize(%d): expected %d, got %d", tc.size, tc.expected, got)
		}
	}
}

func TestTxFromContext(t *testing.T) {
	if tx := TxFromContext(context.Background()); tx != nil {
		t.Errorf("expected no transaction, got %v", tx)
	}
}

func TestNewDBClientRejectsInvalidDSN(t *testing.T) {
	if _, err := NewDBClient(Config{DSN: "postgres://%zz"}, nil, nil, nil); err == nil {
		t.Errorf("expected error for invalid DSN")
	}
}
