// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package access

import (
	"context"
	"slices"

	"github.com/canonical/guest-access-service/internal/token"
	"github.com/canonical/guest-access-service/internal/types"
)

// Effect runs once the guest has been resolved under the token's tenant. It
// may refine the outcome, success or duplicate, and return the updated guest.
type Effect func(ctx context.Context, payload *token.Payload, guest *types.Guest) (types.ScanOutcome, *types.Guest, error)

type Option func(*options)

type options struct {
	purposes   []types.Purpose
	effect     Effect
	source     types.ScanSource
	remoteAddr string
}

// WithPurposes restricts the surface to tokens minted for one of purposes.
func WithPurposes(purposes ...types.Purpose) Option {
	return func(o *options) {
		o.purposes = append(o.purposes, purposes...)
	}
}

func WithEffect(effect Effect) Option {
	return func(o *options) {
		o.effect = effect
	}
}

// WithSource tags the scan event with the surface the token arrived through.
func WithSource(source types.ScanSource) Option {
	return func(o *options) {
		o.source = source
	}
}

// WithRemoteAddr is used for security logging only.
func WithRemoteAddr(addr string) Option {
	return func(o *options) {
		o.remoteAddr = addr
	}
}

func newOptions(opts []Option) *options {
	o := &options{source: types.SourceLink}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) allows(p types.Purpose) bool {
	return len(o.purposes) == 0 || slices.Contains(o.purposes, p)
}
