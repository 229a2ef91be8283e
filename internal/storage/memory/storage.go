// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package memory is a process-local guest store for development and tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/canonical/guest-access-service/internal/db"
	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/storage"
	"github.com/canonical/guest-access-service/internal/tracing"
	"github.com/canonical/guest-access-service/internal/types"
)

var _ storage.StorageInterface = (*Storage)(nil)

type Storage struct {
	mu     sync.RWMutex
	guests map[string]*types.Guest
	events []*types.ScanEvent

	now func() time.Time

	logger  logging.LoggerInterface
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
}

func NewStorage(tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Storage {
	s := new(Storage)

	s.guests = make(map[string]*types.Guest)
	s.now = func() time.Time { return time.Now().UTC() }

	s.logger = logger
	s.tracer = tracer
	s.monitor = monitor

	return s
}

// PutGuest inserts or replaces a guest record.
func (s *Storage) PutGuest(g *types.Guest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := copyGuest(g)
	if c.CheckInStatus == "" {
		c.CheckInStatus = types.NotCheckedIn
	}
	if c.RSVPStatus == "" {
		c.RSVPStatus = types.RSVPPending
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = s.now()
	}

	s.guests[c.ID] = c
}

func (s *Storage) GetGuestByID(ctx context.Context, guestID, tenantID string) (*types.Guest, error) {
	_, span := s.tracer.Start(ctx, "memory.GetGuestByID")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	g, err := s.lookup(guestID, tenantID)
	if err != nil {
		return nil, err
	}

	return copyGuest(g), nil
}

func (s *Storage) SetCheckedInIfAbsent(ctx context.Context, guestID, tenantID string) (bool, error) {
	_, span := s.tracer.Start(ctx, "memory.SetCheckedInIfAbsent")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.lookup(guestID, tenantID)
	if err != nil {
		return false, err
	}

	if g.CheckInStatus == types.CheckedIn {
		return false, nil
	}

	now := s.now()
	g.CheckInStatus = types.CheckedIn
	g.CheckedInAt = &now
	g.UpdatedAt = now

	return true, nil
}

func (s *Storage) UpdateGuestFields(ctx context.Context, guestID, tenantID string, fields *types.GuestFields) (*types.Guest, error) {
	_, span := s.tracer.Start(ctx, "memory.UpdateGuestFields")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.lookup(guestID, tenantID)
	if err != nil {
		return nil, err
	}

	g.Name = fields.Name
	g.Phone = fields.Phone
	g.Email = fields.Email
	g.PartySize = fields.PartySize
	g.AdditionalGuestNames = slices.Clone(fields.AdditionalGuestNames)
	g.ArrivalDatetime = copyTime(fields.ArrivalDatetime)
	g.ArrivalMode = fields.ArrivalMode
	g.DepartureDatetime = copyTime(fields.DepartureDatetime)
	g.DepartureMode = fields.DepartureMode
	g.RelationshipToFamily = fields.RelationshipToFamily
	g.AttendingEvents = slices.Clone(fields.AttendingEvents)
	g.DietaryRestrictions = fields.DietaryRestrictions
	g.MealPreference = fields.MealPreference
	if fields.RSVPStatus != "" {
		g.RSVPStatus = fields.RSVPStatus
	}
	g.UpdatedAt = s.now()

	return copyGuest(g), nil
}

func (s *Storage) AppendScanEvent(ctx context.Context, event *types.ScanEvent) (*types.ScanEvent, error) {
	_, span := s.tracer.Start(ctx, "memory.AppendScanEvent")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate scan event ID: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if event.Outcome == types.OutcomeSuccess || event.Outcome == types.OutcomeDuplicate {
		if _, err := s.lookup(event.GuestID, event.TenantID); err != nil {
			return nil, err
		}
	}

	e := *event
	e.ID = id.String()
	if e.ScannedAt.IsZero() {
		e.ScannedAt = s.now()
	}

	s.events = append(s.events, &e)

	c := e
	return &c, nil
}

func (s *Storage) ListScanEvents(ctx context.Context, tenantID, guestID string, page, size int64) ([]*types.ScanEvent, error) {
	_, span := s.tracer.Start(ctx, "memory.ListScanEvents")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*types.ScanEvent, 0)
	for _, e := range s.events {
		if e.TenantID == tenantID && e.GuestID == guestID {
			c := *e
			matched = append(matched, &c)
		}
	}

	// newest first, ids are time ordered
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].ScannedAt.Equal(matched[j].ScannedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].ScannedAt.After(matched[j].ScannedAt)
	})

	pageSize := db.PageSize(size)
	offset := db.Offset(page, pageSize)
	if offset >= uint64(len(matched)) {
		return []*types.ScanEvent{}, nil
	}

	end := min(offset+pageSize, uint64(len(matched)))

	return matched[offset:end], nil
}

func (s *Storage) Ping(context.Context) error {
	return nil
}

// lookup must be called with the lock held.
func (s *Storage) lookup(guestID, tenantID string) (*types.Guest, error) {
	g, ok := s.guests[guestID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	if err := storage.GuardTenant(g.TenantID, tenantID); err != nil {
		return nil, err
	}

	return g, nil
}

func copyGuest(g *types.Guest) *types.Guest {
	c := *g
	c.AdditionalGuestNames = slices.Clone(g.AdditionalGuestNames)
	c.AttendingEvents = slices.Clone(g.AttendingEvents)
	c.ArrivalDatetime = copyTime(g.ArrivalDatetime)
	c.DepartureDatetime = copyTime(g.DepartureDatetime)
	c.CheckedInAt = copyTime(g.CheckedInAt)
	return &c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
