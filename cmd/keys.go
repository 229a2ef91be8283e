// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/token"
	"github.com/canonical/guest-access-service/internal/tracing"
	"github.com/canonical/guest-access-service/internal/types"
	"github.com/canonical/guest-access-service/pkg/surface"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a token key for TOKEN_KEY",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := token.GenerateKey()
		if err != nil {
			return err
		}

		fmt.Println(key)
		return nil
	},
}

var mintCmd = &cobra.Command{
	Use:   "mint [tenant-id] [guest-id]",
	Short: "Mint a guest token offline with the configured key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		purpose, _ := cmd.Flags().GetString("purpose")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		baseURL, _ := cmd.Flags().GetString("base-url")
		qr, _ := cmd.Flags().GetString("qr")

		p := types.Purpose(purpose)
		if !p.Valid() {
			return fmt.Errorf("invalid purpose %q", purpose)
		}

		primary, err := token.ParseKey(key)
		if err != nil {
			return err
		}

		codec, err := token.NewCodec(primary, nil)
		if err != nil {
			return err
		}

		generator := surface.NewGenerator(
			codec,
			surface.Config{DefaultTTLs: map[types.Purpose]time.Duration{p: ttl}},
			tracing.NewNoopTracer(),
			monitoring.NewNoopMonitor("mint"),
			logging.NewNoopLogger(),
		)

		s, err := generator.Generate(args[1], args[0], p, ttl)
		if err != nil {
			return err
		}

		link, err := s.AbsoluteURL(baseURL)
		if err != nil {
			return fmt.Errorf("invalid base url: %w", err)
		}

		fmt.Printf("Token:   %s\nURL:     %s\nExpires: %s\n", s.Token, link, s.ExpiresAt.Format(time.RFC3339))

		if qr == "" {
			return nil
		}

		png, err := surface.QRCode(s, baseURL, 256)
		if err != nil {
			return err
		}

		return os.WriteFile(qr, png, 0o644)
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(mintCmd)

	mintCmd.Flags().String("key", os.Getenv("TOKEN_KEY"), "Base64 token key, defaults to $TOKEN_KEY")
	mintCmd.Flags().String("purpose", string(types.PurposeCheckIn), "Token purpose: check-in, rsvp or guest-form")
	mintCmd.Flags().Duration("ttl", 72*time.Hour, "Token lifetime")
	mintCmd.Flags().String("base-url", "http://localhost:8080", "Public base URL of the landing page")
	mintCmd.Flags().String("qr", "", "Also write the QR code PNG to this file")
}
