// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package staff

import (
	"errors"
	"time"

	"github.com/canonical/guest-access-service/internal/types"
	"github.com/canonical/guest-access-service/pkg/surface"
)

var (
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidRequest = errors.New("invalid request")
)

// IssueRequest asks for one surface per guest. An empty TTL means the
// purpose default.
type IssueRequest struct {
	GuestIDs []string      `json:"guest_ids" validate:"required,min=1,max=1000,dive,required,max=128"`
	Purpose  types.Purpose `json:"purpose" validate:"required,oneof=check-in rsvp guest-form"`
	TTL      string        `json:"ttl" validate:"omitempty"`
}

type IssueResponse struct {
	Surfaces []*surface.Surface `json:"surfaces"`
}

// ScanRequest is posted by a kiosk with the text it decoded, or by staff
// pasting a link.
type ScanRequest struct {
	Token  string           `json:"token" validate:"required,max=4096"`
	Source types.ScanSource `json:"source" validate:"omitempty,oneof=link camera upload"`
}

type ScanResponse struct {
	Outcome types.ScanOutcome   `json:"outcome"`
	Granted bool                `json:"granted"`
	Guest   *types.GuestSummary `json:"guest,omitempty"`
}

type ScanEventView struct {
	ID        string            `json:"id"`
	GuestID   string            `json:"guest_id"`
	Purpose   types.Purpose     `json:"purpose"`
	ScannedAt time.Time         `json:"scanned_at"`
	Outcome   types.ScanOutcome `json:"outcome"`
	Source    types.ScanSource  `json:"source"`
}

type ScanEventsResponse struct {
	Events []ScanEventView `json:"events"`
	Page   int64           `json:"page"`
	Size   int64           `json:"size"`
}

func newScanEventsResponse(events []*types.ScanEvent, page, size int64) *ScanEventsResponse {
	r := &ScanEventsResponse{Events: make([]ScanEventView, 0, len(events)), Page: page, Size: size}
	for _, e := range events {
		r.Events = append(r.Events, ScanEventView{
			ID:        e.ID,
			GuestID:   e.GuestID,
			Purpose:   e.Purpose,
			ScannedAt: e.ScannedAt,
			Outcome:   e.Outcome,
			Source:    e.Source,
		})
	}
	return r
}
