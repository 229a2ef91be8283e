// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package memory

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/canonical/guest-access-service/internal/types"
)

type seedGuest struct {
	ID                   string   `json:"id"`
	TenantID             string   `json:"tenant_id"`
	Name                 string   `json:"name"`
	Phone                string   `json:"phone"`
	Email                string   `json:"email"`
	PartySize            int      `json:"party_size"`
	AdditionalGuestNames []string `json:"additional_guest_names"`
	RelationshipToFamily string   `json:"relationship_to_family"`
	AttendingEvents      []string `json:"attending_events"`
	MealPreference       string   `json:"meal_preference"`
}

// LoadSeed puts every guest of a JSON array into the store and returns how
// many were loaded. Records need an id and a tenant_id.
func (s *Storage) LoadSeed(r io.Reader) (int, error) {
	var seed []seedGuest
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return 0, fmt.Errorf("failed to decode seed: %w", err)
	}

	for i, g := range seed {
		if g.ID == "" || g.TenantID == "" {
			return 0, fmt.Errorf("seed guest %d: id and tenant_id are required", i)
		}
	}

	for _, g := range seed {
		partySize := g.PartySize
		if partySize < 1 {
			partySize = 1
		}

		s.PutGuest(&types.Guest{
			ID:                   g.ID,
			TenantID:             g.TenantID,
			Name:                 g.Name,
			Phone:                g.Phone,
			Email:                g.Email,
			PartySize:            partySize,
			AdditionalGuestNames: g.AdditionalGuestNames,
			RelationshipToFamily: g.RelationshipToFamily,
			AttendingEvents:      g.AttendingEvents,
			MealPreference:       g.MealPreference,
		})
	}

	s.logger.Infof("loaded %d seed guests", len(seed))

	return len(seed), nil
}
