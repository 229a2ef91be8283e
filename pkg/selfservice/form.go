// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package selfservice

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/canonical/guest-access-service/internal/types"
)

const maxBodySize = 64 << 10

var ErrMalformedBody = errors.New("request body is not a JSON object")

// Form is what a guest may edit about themselves. There is deliberately no
// guest id: identity comes from the token alone.
type Form struct {
	Name                 string   `json:"name" validate:"required,max=200"`
	Phone                string   `json:"phone" validate:"omitempty,max=32"`
	Email                string   `json:"email" validate:"omitempty,email,max=254"`
	PartySize            int      `json:"partySize" validate:"min=1,max=50"`
	AdditionalGuestNames []string `json:"additionalGuestNames" validate:"max=49,dive,required,max=200"`
	ArrivalDatetime      string   `json:"arrivalDatetime" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	ArrivalMode          string   `json:"arrivalMode" validate:"max=100"`
	DepartureDatetime    string   `json:"departureDatetime" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	DepartureMode        string   `json:"departureMode" validate:"max=100"`
	RelationshipToFamily string   `json:"relationshipToFamily" validate:"max=200"`
	AttendingEvents      []string `json:"attendingEvents" validate:"max=50,dive,required,max=100"`
	DietaryRestrictions  string   `json:"dietaryRestrictions" validate:"max=500"`
	MealPreference       string   `json:"mealPreference" validate:"omitempty,oneof=vegetarian non_vegetarian vegan jain gluten_free no_preference"`
	RSVPStatus           string   `json:"rsvpStatus" validate:"omitempty,oneof=pending confirmed declined maybe"`
}

func (f *Form) targets() map[string]any {
	return map[string]any{
		"name":                 &f.Name,
		"phone":                &f.Phone,
		"email":                &f.Email,
		"partySize":            &f.PartySize,
		"additionalGuestNames": &f.AdditionalGuestNames,
		"arrivalDatetime":      &f.ArrivalDatetime,
		"arrivalMode":          &f.ArrivalMode,
		"departureDatetime":    &f.DepartureDatetime,
		"departureMode":        &f.DepartureMode,
		"relationshipToFamily": &f.RelationshipToFamily,
		"attendingEvents":      &f.AttendingEvents,
		"dietaryRestrictions":  &f.DietaryRestrictions,
		"mealPreference":       &f.MealPreference,
		"rsvpStatus":           &f.RSVPStatus,
	}
}

// DecodeForm reads a submission. Fields of the wrong JSON type are reported
// together as a *ValidationError; unknown keys, guestId included, are dropped.
// A missing or null partySize means 1.
func DecodeForm(r io.Reader) (*Form, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	if len(body) > maxBodySize {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedBody, maxBodySize)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, ErrMalformedBody
	}

	f := new(Form)
	f.PartySize = 1

	var fieldErrors []FieldError
	for _, name := range fieldOrder {
		value, ok := raw[name]
		if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			continue
		}

		if err := json.Unmarshal(value, f.targets()[name]); err != nil {
			fieldErrors = append(fieldErrors, FieldError{Field: name, Message: "has the wrong type"})
		}
	}

	if len(fieldErrors) > 0 {
		return f, &ValidationError{Fields: fieldErrors}
	}

	return f, nil
}

// FormFromGuest pre-fills the form with the stored record.
func FormFromGuest(g *types.Guest) *Form {
	f := &Form{
		Name:                 g.Name,
		Phone:                g.Phone,
		Email:                g.Email,
		PartySize:            g.PartySize,
		AdditionalGuestNames: g.AdditionalGuestNames,
		ArrivalMode:          g.ArrivalMode,
		DepartureMode:        g.DepartureMode,
		RelationshipToFamily: g.RelationshipToFamily,
		AttendingEvents:      g.AttendingEvents,
		DietaryRestrictions:  g.DietaryRestrictions,
		MealPreference:       g.MealPreference,
		RSVPStatus:           string(g.RSVPStatus),
	}

	if g.ArrivalDatetime != nil {
		f.ArrivalDatetime = g.ArrivalDatetime.Format(time.RFC3339)
	}

	if g.DepartureDatetime != nil {
		f.DepartureDatetime = g.DepartureDatetime.Format(time.RFC3339)
	}

	return f
}

// fields converts a form that already passed validation.
func (f *Form) fields() *types.GuestFields {
	return &types.GuestFields{
		Name:                 f.Name,
		Phone:                f.Phone,
		Email:                f.Email,
		PartySize:            f.PartySize,
		AdditionalGuestNames: f.AdditionalGuestNames,
		ArrivalDatetime:      parseTime(f.ArrivalDatetime),
		ArrivalMode:          f.ArrivalMode,
		DepartureDatetime:    parseTime(f.DepartureDatetime),
		DepartureMode:        f.DepartureMode,
		RelationshipToFamily: f.RelationshipToFamily,
		AttendingEvents:      f.AttendingEvents,
		DietaryRestrictions:  f.DietaryRestrictions,
		MealPreference:       f.MealPreference,
		RSVPStatus:           types.RSVPStatus(f.RSVPStatus),
	}
}

func parseTime(v string) *time.Time {
	if v == "" {
		return nil
	}

	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}

	t = t.UTC()
	return &t
}

var fieldOrder = []string{
	"name",
	"phone",
	"email",
	"partySize",
	"additionalGuestNames",
	"arrivalDatetime",
	"arrivalMode",
	"departureDatetime",
	"departureMode",
	"relationshipToFamily",
	"attendingEvents",
	"dietaryRestrictions",
	"mealPreference",
	"rsvpStatus",
}
