// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/canonical/guest-access-service/internal/types"
	"github.com/canonical/guest-access-service/pkg/staff"
)

var (
	httpEndpoint string
	bearerToken  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&httpEndpoint, "http-endpoint", "http://localhost:8080", "HTTP server endpoint")
	rootCmd.PersistentFlags().StringVar(&bearerToken, "token", "", "Staff bearer token, see the token command")
}

// staffClient talks to the staff API of a running server.
type staffClient struct {
	endpoint string
	token    string
	c        *http.Client
}

func newStaffClient() *staffClient {
	endpoint := httpEndpoint
	if !strings.HasPrefix(endpoint, "http") {
		endpoint = "http://" + endpoint
	}

	return &staffClient{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		token:    bearerToken,
		c: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}
}

func (c *staffClient) IssueSurfaces(ctx context.Context, tenantID string, in *staff.IssueRequest) (*staff.IssueResponse, error) {
	out := new(staff.IssueResponse)
	path := fmt.Sprintf("/api/v0/tenants/%s/surfaces", url.PathEscape(tenantID))
	if err := c.do(ctx, http.MethodPost, path, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *staffClient) Scan(ctx context.Context, raw string, source types.ScanSource) (*staff.ScanResponse, error) {
	out := new(staff.ScanResponse)
	if err := c.do(ctx, http.MethodPost, "/api/v0/scans", &staff.ScanRequest{Token: raw, Source: source}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *staffClient) ListScans(ctx context.Context, tenantID, guestID string, page, size int64) (*staff.ScanEventsResponse, error) {
	out := new(staff.ScanEventsResponse)
	q := url.Values{}
	q.Set("page", strconv.FormatInt(page, 10))
	q.Set("size", strconv.FormatInt(size, 10))
	path := fmt.Sprintf("/api/v0/tenants/%s/guests/%s/scans?%s", url.PathEscape(tenantID), url.PathEscape(guestID), q.Encode())
	if err := c.do(ctx, http.MethodGet, path, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *staffClient) QRCode(ctx context.Context, tenantID, guestID string, purpose types.Purpose, size int) ([]byte, error) {
	q := url.Values{}
	q.Set("purpose", string(purpose))
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}
	path := fmt.Sprintf("/api/v0/tenants/%s/guests/%s/qr.png?%s", url.PathEscape(tenantID), url.PathEscape(guestID), q.Encode())

	resp, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func (c *staffClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// send returns the response only for statuses below 400, with the body left
// open. A 503 on a scan still carries the outcome, so it is passed through.
func (c *staffClient) send(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusServiceUnavailable {
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	return resp, nil
}
