// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/canonical/guest-access-service/internal/db"
	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/tracing"
	"github.com/canonical/guest-access-service/internal/types"
)

var _ StorageInterface = (*Storage)(nil)

var guestColumns = []string{
	"id",
	"tenant_id",
	"name",
	"phone",
	"email",
	"party_size",
	"additional_guest_names",
	"arrival_datetime",
	"arrival_mode",
	"departure_datetime",
	"departure_mode",
	"relationship_to_family",
	"attending_events",
	"dietary_restrictions",
	"meal_preference",
	"rsvp_status",
	"check_in_status",
	"checked_in_at",
	"updated_at",
}

var scanEventColumns = []string{"id", "guest_id", "tenant_id", "purpose", "scanned_at", "outcome", "source"}

// GuardTenant is the tenant check every backend runs against the tenant id
// read from the record itself.
func GuardTenant(recordTenantID, tenantID string) error {
	if recordTenantID != tenantID {
		return ErrTenantMismatch
	}
	return nil
}

type Storage struct {
	db db.DBClientInterface

	logger  logging.LoggerInterface
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
}

func NewStorage(c db.DBClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Storage {
	s := new(Storage)

	s.db = c

	s.logger = logger
	s.tracer = tracer
	s.monitor = monitor

	return s
}

func (s *Storage) GetGuestByID(ctx context.Context, guestID, tenantID string) (*types.Guest, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetGuestByID")
	defer span.End()

	row := s.db.Statement(ctx).
		Select(guestColumns...).
		From("guests").
		Where(sq.Eq{"id": guestID}).
		QueryRowContext(ctx)

	g, err := scanGuest(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, wrapError(err, "failed to get guest")
	}

	if err := GuardTenant(g.TenantID, tenantID); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *Storage) SetCheckedInIfAbsent(ctx context.Context, guestID, tenantID string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "storage.SetCheckedInIfAbsent")
	defer span.End()

	if err := s.guard(ctx, guestID, tenantID); err != nil {
		return false, err
	}

	// the status predicate makes this a compare-and-set: of any number of
	// concurrent callers exactly one sees a row affected
	res, err := s.db.Statement(ctx).
		Update("guests").
		Set("check_in_status", types.CheckedIn).
		Set("checked_in_at", sq.Expr("now()")).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{
			"id":              guestID,
			"tenant_id":       tenantID,
			"check_in_status": types.NotCheckedIn,
		}).
		ExecContext(ctx)
	if err != nil {
		return false, wrapError(err, "failed to check in guest")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, wrapError(err, "failed to check rows affected")
	}

	return rows == 1, nil
}

func (s *Storage) UpdateGuestFields(ctx context.Context, guestID, tenantID string, fields *types.GuestFields) (*types.Guest, error) {
	ctx, span := s.tracer.Start(ctx, "storage.UpdateGuestFields")
	defer span.End()

	if err := s.guard(ctx, guestID, tenantID); err != nil {
		return nil, err
	}

	additional, err := json.Marshal(nonNil(fields.AdditionalGuestNames))
	if err != nil {
		return nil, fmt.Errorf("failed to encode additional guest names: %w", err)
	}

	events, err := json.Marshal(nonNil(fields.AttendingEvents))
	if err != nil {
		return nil, fmt.Errorf("failed to encode attending events: %w", err)
	}

	updateMap := map[string]interface{}{
		"name":                   fields.Name,
		"phone":                  fields.Phone,
		"email":                  fields.Email,
		"party_size":             fields.PartySize,
		"additional_guest_names": string(additional),
		"arrival_datetime":       fields.ArrivalDatetime,
		"arrival_mode":           fields.ArrivalMode,
		"departure_datetime":     fields.DepartureDatetime,
		"departure_mode":         fields.DepartureMode,
		"relationship_to_family": fields.RelationshipToFamily,
		"attending_events":       string(events),
		"dietary_restrictions":   fields.DietaryRestrictions,
		"meal_preference":        fields.MealPreference,
		"updated_at":             sq.Expr("now()"),
	}

	if fields.RSVPStatus != "" {
		updateMap["rsvp_status"] = fields.RSVPStatus
	}

	// a single statement, so the row holds either all new values or none
	row := s.db.Statement(ctx).
		Update("guests").
		SetMap(updateMap).
		Where(sq.Eq{"id": guestID, "tenant_id": tenantID}).
		Suffix("RETURNING "+strings.Join(guestColumns, ", ")).
		QueryRowContext(ctx)

	g, err := scanGuest(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, wrapError(err, "failed to update guest")
	}

	return g, nil
}

func (s *Storage) AppendScanEvent(ctx context.Context, event *types.ScanEvent) (*types.ScanEvent, error) {
	ctx, span := s.tracer.Start(ctx, "storage.AppendScanEvent")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate scan event ID: %w", err)
	}

	e := *event
	e.ID = id.String()
	if e.ScannedAt.IsZero() {
		e.ScannedAt = time.Now().UTC()
	}

	err = s.db.WithTx(ctx, func(ctx context.Context) error {
		// rejected scans may name guests that do not exist or belong elsewhere,
		// only accepted ones must match the stored record
		if e.Outcome == types.OutcomeSuccess || e.Outcome == types.OutcomeDuplicate {
			if err := s.guard(ctx, e.GuestID, e.TenantID); err != nil {
				return err
			}
		}

		_, err := s.db.Statement(ctx).
			Insert("scan_events").
			Columns(scanEventColumns...).
			Values(e.ID, e.GuestID, e.TenantID, e.Purpose, e.ScannedAt, e.Outcome, e.Source).
			ExecContext(ctx)
		if err != nil {
			if IsDuplicateKeyError(err) {
				return ErrDuplicateKey
			}
			return wrapError(err, "failed to insert scan event")
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return &e, nil
}

func (s *Storage) ListScanEvents(ctx context.Context, tenantID, guestID string, page, size int64) ([]*types.ScanEvent, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListScanEvents")
	defer span.End()

	pageSize := db.PageSize(size)

	rows, err := s.db.Statement(ctx).
		Select(scanEventColumns...).
		From("scan_events").
		Where(sq.Eq{"tenant_id": tenantID, "guest_id": guestID}).
		OrderBy("scanned_at DESC", "id DESC").
		Limit(pageSize).
		Offset(db.Offset(page, pageSize)).
		QueryContext(ctx)
	if err != nil {
		return nil, wrapError(err, "failed to list scan events")
	}
	defer rows.Close()

	events := make([]*types.ScanEvent, 0)
	for rows.Next() {
		var e types.ScanEvent
		if err := rows.Scan(&e.ID, &e.GuestID, &e.TenantID, &e.Purpose, &e.ScannedAt, &e.Outcome, &e.Source); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapError(err, "rows iteration error")
	}

	return events, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return wrapError(err, "database unreachable")
	}
	return nil
}

// guard reads the tenant the guest actually belongs to and compares it.
func (s *Storage) guard(ctx context.Context, guestID, tenantID string) error {
	var recordTenantID string

	err := s.db.Statement(ctx).
		Select("tenant_id").
		From("guests").
		Where(sq.Eq{"id": guestID}).
		QueryRowContext(ctx).
		Scan(&recordTenantID)
	if err != nil {
		if isNoRows(err) {
			return ErrNotFound
		}
		return wrapError(err, "failed to read guest tenant")
	}

	return GuardTenant(recordTenantID, tenantID)
}

func scanGuest(row sq.RowScanner) (*types.Guest, error) {
	var g types.Guest
	var additional, events []byte

	err := row.Scan(
		&g.ID,
		&g.TenantID,
		&g.Name,
		&g.Phone,
		&g.Email,
		&g.PartySize,
		&additional,
		&g.ArrivalDatetime,
		&g.ArrivalMode,
		&g.DepartureDatetime,
		&g.DepartureMode,
		&g.RelationshipToFamily,
		&events,
		&g.DietaryRestrictions,
		&g.MealPreference,
		&g.RSVPStatus,
		&g.CheckInStatus,
		&g.CheckedInAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(additional) > 0 {
		if err := json.Unmarshal(additional, &g.AdditionalGuestNames); err != nil {
			return nil, fmt.Errorf("failed to decode additional guest names: %w", err)
		}
	}

	if len(events) > 0 {
		if err := json.Unmarshal(events, &g.AttendingEvents); err != nil {
			return nil, fmt.Errorf("failed to decode attending events: %w", err)
		}
	}

	return &g, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
