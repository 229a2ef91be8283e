// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/canonical/guest-access-service/internal/types"
	"github.com/canonical/guest-access-service/pkg/staff"
)

var surfacesCmd = &cobra.Command{
	Use:   "surfaces",
	Short: "Issue guest links and QR codes",
}

var issueSurfacesCmd = &cobra.Command{
	Use:   "issue [tenant-id] [guest-id...]",
	Short: "Issue one link per guest",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		purpose, _ := cmd.Flags().GetString("purpose")
		ttl, _ := cmd.Flags().GetString("ttl")

		resp, err := newStaffClient().IssueSurfaces(cmd.Context(), args[0], &staff.IssueRequest{
			GuestIDs: args[1:],
			Purpose:  types.Purpose(purpose),
			TTL:      ttl,
		})
		if err != nil {
			return fmt.Errorf("failed to issue surfaces: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "GUEST_ID\tPURPOSE\tEXPIRES_AT\tURL")
		for _, s := range resp.Surfaces {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.GuestID, s.Purpose, s.ExpiresAt.Format(time.RFC3339), s.URL)
		}
		return w.Flush()
	},
}

var qrSurfaceCmd = &cobra.Command{
	Use:   "qr [tenant-id] [guest-id]",
	Short: "Download a guest's QR code as PNG",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		purpose, _ := cmd.Flags().GetString("purpose")
		size, _ := cmd.Flags().GetInt("size")
		output, _ := cmd.Flags().GetString("output")

		png, err := newStaffClient().QRCode(cmd.Context(), args[0], args[1], types.Purpose(purpose), size)
		if err != nil {
			return fmt.Errorf("failed to render qr code: %w", err)
		}

		if output == "" {
			output = args[1] + ".png"
		}

		if err := os.WriteFile(output, png, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}

		fmt.Printf("QR code written to %s\n", output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(surfacesCmd)
	surfacesCmd.AddCommand(issueSurfacesCmd)
	surfacesCmd.AddCommand(qrSurfaceCmd)

	issueSurfacesCmd.Flags().String("purpose", string(types.PurposeCheckIn), "Token purpose: check-in, rsvp or guest-form")
	issueSurfacesCmd.Flags().String("ttl", "", "Token lifetime, e.g. 72h. Empty uses the server default")

	qrSurfaceCmd.Flags().String("purpose", string(types.PurposeCheckIn), "Token purpose: check-in, rsvp or guest-form")
	qrSurfaceCmd.Flags().Int("size", 0, "Image side in pixels")
	qrSurfaceCmd.Flags().StringP("output", "o", "", "Output file, defaults to <guest-id>.png")
}
