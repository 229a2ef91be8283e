// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/openfga/go-sdk/client"
)

//go:embed schema/*.json
var schemas embed.FS

type AuthorizationModelProvider struct {
	version string
}

// GetModel reads the embedded model for the provider's version.
func (p *AuthorizationModelProvider) GetModel() (*client.ClientWriteAuthorizationModelRequest, error) {
	data, err := schemas.ReadFile("schema/" + p.version + ".json")
	if err != nil {
		return nil, fmt.Errorf("unknown authorization model version %q: %w", p.version, err)
	}

	model := new(client.ClientWriteAuthorizationModelRequest)
	if err := json.Unmarshal(data, model); err != nil {
		return nil, fmt.Errorf("failed to parse authorization model %q: %w", p.version, err)
	}

	return model, nil
}

func NewAuthorizationModelProvider(version string) *AuthorizationModelProvider {
	return &AuthorizationModelProvider{version: version}
}
