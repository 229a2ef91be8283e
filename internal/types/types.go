// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"time"
)

// Purpose scopes what a guest token may be used for.
type Purpose string

const (
	PurposeCheckIn   Purpose = "check-in"
	PurposeRSVP      Purpose = "rsvp"
	PurposeGuestForm Purpose = "guest-form"
)

func (p Purpose) Valid() bool {
	switch p {
	case PurposeCheckIn, PurposeRSVP, PurposeGuestForm:
		return true
	}
	return false
}

type CheckInStatus string

const (
	NotCheckedIn CheckInStatus = "not_checked_in"
	CheckedIn    CheckInStatus = "checked_in"
)

type RSVPStatus string

const (
	RSVPPending   RSVPStatus = "pending"
	RSVPConfirmed RSVPStatus = "confirmed"
	RSVPDeclined  RSVPStatus = "declined"
	RSVPMaybe     RSVPStatus = "maybe"
)

// ScanOutcome tags every validation attempt in the audit trail.
type ScanOutcome string

const (
	OutcomeSuccess        ScanOutcome = "success"
	OutcomeDuplicate      ScanOutcome = "duplicate"
	OutcomeExpired        ScanOutcome = "expired"
	OutcomeInvalid        ScanOutcome = "invalid"
	OutcomeNotFound       ScanOutcome = "not_found"
	OutcomeTenantMismatch ScanOutcome = "tenant_mismatch"
	OutcomeTransientError ScanOutcome = "transient_error"
)

// ScanSource is the surface a token arrived through.
type ScanSource string

const (
	SourceLink   ScanSource = "link"
	SourceCamera ScanSource = "camera"
	SourceUpload ScanSource = "upload"
)

type Guest struct {
	ID                   string        `db:"id"`
	TenantID             string        `db:"tenant_id"`
	Name                 string        `db:"name"`
	Phone                string        `db:"phone"`
	Email                string        `db:"email"`
	PartySize            int           `db:"party_size"`
	AdditionalGuestNames []string      `db:"additional_guest_names"`
	ArrivalDatetime      *time.Time    `db:"arrival_datetime"`
	ArrivalMode          string        `db:"arrival_mode"`
	DepartureDatetime    *time.Time    `db:"departure_datetime"`
	DepartureMode        string        `db:"departure_mode"`
	RelationshipToFamily string        `db:"relationship_to_family"`
	AttendingEvents      []string      `db:"attending_events"`
	DietaryRestrictions  string        `db:"dietary_restrictions"`
	MealPreference       string        `db:"meal_preference"`
	RSVPStatus           RSVPStatus    `db:"rsvp_status"`
	CheckInStatus        CheckInStatus `db:"check_in_status"`
	CheckedInAt          *time.Time    `db:"checked_in_at"`
	UpdatedAt            time.Time     `db:"updated_at"`
}

// GuestFields is the validated set of self-service fields written in one update.
// An empty RSVPStatus leaves the stored status untouched.
type GuestFields struct {
	Name                 string
	Phone                string
	Email                string
	PartySize            int
	AdditionalGuestNames []string
	ArrivalDatetime      *time.Time
	ArrivalMode          string
	DepartureDatetime    *time.Time
	DepartureMode        string
	RelationshipToFamily string
	AttendingEvents      []string
	DietaryRestrictions  string
	MealPreference       string
	RSVPStatus           RSVPStatus
}

type ScanEvent struct {
	ID        string      `db:"id"`
	GuestID   string      `db:"guest_id"`
	TenantID  string      `db:"tenant_id"`
	Purpose   Purpose     `db:"purpose"`
	ScannedAt time.Time   `db:"scanned_at"`
	Outcome   ScanOutcome `db:"outcome"`
	Source    ScanSource  `db:"source"`
}

// GuestSummary is the subset of a guest record shown back to its holder.
type GuestSummary struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	PartySize     int           `json:"party_size"`
	RSVPStatus    RSVPStatus    `json:"rsvp_status"`
	CheckInStatus CheckInStatus `json:"check_in_status"`
}

func (g *Guest) Summary() *GuestSummary {
	if g == nil {
		return nil
	}

	return &GuestSummary{
		ID:            g.ID,
		Name:          g.Name,
		PartySize:     g.PartySize,
		RSVPStatus:    g.RSVPStatus,
		CheckInStatus: g.CheckInStatus,
	}
}
