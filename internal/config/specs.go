// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	"time"
)

// EnvSpec is the basic environment configuration setup needed for the app to start
type EnvSpec struct {
	OtelGRPCEndpoint string `envconfig:"otel_grpc_endpoint"`
	OtelHTTPEndpoint string `envconfig:"otel_http_endpoint"`
	TracingEnabled   bool   `envconfig:"tracing_enabled" default:"true"`

	LogLevel string `envconfig:"log_level" default:"error"`
	Debug    bool   `envconfig:"debug" default:"false"`

	Port int `envconfig:"port" default:"8080"`

	AllowedOrigins []string `envconfig:"allowed_origins"`

	// PublicBaseURL is prefixed to landing paths when rendering QR codes.
	PublicBaseURL string `envconfig:"public_base_url" default:"http://localhost:8080"`

	StorageBackend string `envconfig:"storage_backend" default:"postgres"`
	// MemorySeedFile is a JSON array of guests loaded when StorageBackend is
	// memory. Without it the memory backend starts empty.
	MemorySeedFile string `envconfig:"memory_seed_file"`
	DSN            string `envconfig:"DSN"`

	DBMaxConns        int32         `envconfig:"db_max_conns" default:"25"`
	DBMinConns        int32         `envconfig:"db_min_conns" default:"2"`
	DBMaxConnLifetime time.Duration `envconfig:"db_max_conn_lifetime" default:"1h"`
	DBMaxConnIdleTime time.Duration `envconfig:"db_max_conn_idle_time" default:"30m"`

	// StoreTimeout bounds every call into the data layer made on behalf of a guest.
	StoreTimeout time.Duration `envconfig:"store_timeout" default:"3s"`

	TokenKey         string   `envconfig:"token_key" required:"true"`
	TokenRetiredKeys []string `envconfig:"token_retired_keys"`

	CheckInTokenTTL   time.Duration `envconfig:"checkin_token_ttl" default:"72h"`
	RSVPTokenTTL      time.Duration `envconfig:"rsvp_token_ttl" default:"720h"`
	GuestFormTokenTTL time.Duration `envconfig:"guest_form_token_ttl" default:"720h"`
	MaxTokenTTL       time.Duration `envconfig:"max_token_ttl" default:"2160h"`

	LandingRateLimit float64 `envconfig:"landing_rate_limit" default:"5"`
	LandingRateBurst int     `envconfig:"landing_rate_burst" default:"10"`

	AuthenticationEnabled bool     `envconfig:"authentication_enabled" default:"false"`
	OAuth2Issuer          string   `envconfig:"oauth2_issuer"`
	OAuth2JWKSURL         string   `envconfig:"oauth2_jwks_url"`
	AllowedSubjects       []string `envconfig:"allowed_subjects"`
	RequiredScope         string   `envconfig:"required_scope"`

	// KratosAdminURL enables inviting staff by email. Empty means members are
	// added by user id only.
	KratosAdminURL     string `envconfig:"kratos_admin_url"`
	InvitationLifetime string `envconfig:"invitation_lifetime" default:"24h"`

	AuthorizationEnabled bool   `envconfig:"authorization_enabled" default:"false"`
	OpenfgaApiScheme     string `envconfig:"openfga_api_scheme" default:""`
	OpenfgaApiHost       string `envconfig:"openfga_api_host"`
	OpenfgaApiToken      string `envconfig:"openfga_api_token"`
	OpenfgaStoreId       string `envconfig:"openfga_store_id"`
	OpenfgaModelId       string `envconfig:"openfga_authorization_model_id" default:""`
}
