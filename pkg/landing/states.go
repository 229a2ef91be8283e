// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package landing

import (
	"net/http"

	"github.com/canonical/guest-access-service/internal/types"
	"github.com/canonical/guest-access-service/pkg/access"
	"github.com/canonical/guest-access-service/pkg/selfservice"
)

// State is what the landing page shows to the guest.
type State string

const (
	StateCheckedIn        State = "checked_in"
	StateAlreadyCheckedIn State = "already_checked_in"
	StateForm             State = "form"
	StateUpdated          State = "updated"
	StateExpired          State = "expired"
	StateInvalid          State = "invalid"
	StateUnrecognized     State = "unrecognized"
	StateUnavailable      State = "unavailable"
	StateValidationFailed State = "validation_failed"
	StateBadRequest       State = "bad_request"
	StateTooManyRequests  State = "too_many_requests"
)

const retryAfterSeconds = "5"

type presentation struct {
	status  int
	message string
}

// not_found and tenant_mismatch share a state so the page never tells a
// holder whether a guest or a tenant exists.
var presentations = map[State]presentation{
	StateCheckedIn:        {http.StatusOK, "Welcome! You are checked in."},
	StateAlreadyCheckedIn: {http.StatusOK, "You are already checked in."},
	StateForm:             {http.StatusOK, "Please review your details."},
	StateUpdated:          {http.StatusOK, "Thank you, your details have been saved."},
	StateExpired:          {http.StatusGone, "This code has expired. Please ask your host for a new one."},
	StateInvalid:          {http.StatusBadRequest, "This code is not valid here."},
	StateUnrecognized:     {http.StatusNotFound, "This code could not be recognized."},
	StateUnavailable:      {http.StatusServiceUnavailable, "We could not reach the guest list. Please try again in a moment."},
	StateValidationFailed: {http.StatusUnprocessableEntity, "Some details need your attention."},
	StateBadRequest:       {http.StatusBadRequest, "The submitted form could not be read."},
	StateTooManyRequests:  {http.StatusTooManyRequests, "Too many attempts. Please wait a moment."},
}

// Response is the body of every landing endpoint.
type Response struct {
	State   State                    `json:"state"`
	Message string                   `json:"message"`
	Guest   *types.GuestSummary      `json:"guest,omitempty"`
	Form    *selfservice.Form        `json:"form,omitempty"`
	Errors  []selfservice.FieldError `json:"errors,omitempty"`
}

func newResponse(state State) *Response {
	return &Response{State: state, Message: presentations[state].message}
}

// stateOf maps a validation outcome to a page state. granted is shown for a
// plain success.
func stateOf(result *access.Result, granted State) State {
	switch result.Outcome {
	case types.OutcomeSuccess:
		return granted
	case types.OutcomeDuplicate:
		if granted == StateCheckedIn {
			return StateAlreadyCheckedIn
		}
		return granted
	case types.OutcomeExpired:
		return StateExpired
	case types.OutcomeNotFound, types.OutcomeTenantMismatch:
		return StateUnrecognized
	case types.OutcomeTransientError:
		return StateUnavailable
	default:
		return StateInvalid
	}
}
