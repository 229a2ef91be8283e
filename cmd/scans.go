// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/tracing"
	"github.com/canonical/guest-access-service/internal/types"
	"github.com/canonical/guest-access-service/pkg/scan"
)

var scansCmd = &cobra.Command{
	Use:   "scans",
	Short: "Scan guest codes and review the scan log",
}

var listScansCmd = &cobra.Command{
	Use:   "list [tenant-id] [guest-id]",
	Short: "List scan events for a guest, newest first",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt64("page")
		size, _ := cmd.Flags().GetInt64("size")

		resp, err := newStaffClient().ListScans(cmd.Context(), args[0], args[1], page, size)
		if err != nil {
			return fmt.Errorf("failed to list scans: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tPURPOSE\tOUTCOME\tSOURCE\tSCANNED_AT")
		for _, e := range resp.Events {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Purpose, e.Outcome, e.Source, e.ScannedAt.Format(time.RFC3339))
		}
		return w.Flush()
	},
}

var sendScanCmd = &cobra.Command{
	Use:   "send [token-or-link]",
	Short: "Check a guest in with a token or landing link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newStaffClient().Scan(cmd.Context(), scan.TokenFromText(args[0]), types.SourceLink)
		if err != nil {
			return fmt.Errorf("failed to scan: %w", err)
		}

		printScan(resp.Outcome, resp.Granted, resp.Guest)
		return nil
	},
}

var watchScansCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Read QR codes from camera frames dropped in a directory and check guests in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		settle, _ := cmd.Flags().GetDuration("settle")
		logLevel, _ := cmd.Flags().GetString("log-level")

		logger := logging.NewLogger(logLevel)
		defer logger.Sync()

		source, err := scan.NewDirSource(args[0], settle, logger)
		if err != nil {
			return err
		}

		capture := scan.NewCapture(source, scan.NewQRDecoder(), interval, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("scanner"), logger)
		defer capture.Stop()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		results, err := capture.Start(ctx)
		if err != nil {
			return err
		}

		client := newStaffClient()
		fmt.Printf("Watching %s for codes, press Ctrl+C to stop\n", args[0])

		for r := range results {
			resp, err := client.Scan(ctx, r.Token, types.SourceCamera)
			if err != nil {
				logger.Errorf("failed to submit scan: %v", err)
			} else {
				printScan(resp.Outcome, resp.Granted, resp.Guest)
			}
			capture.Ack()
		}

		return nil
	},
}

func printScan(outcome types.ScanOutcome, granted bool, guest *types.GuestSummary) {
	if guest != nil {
		fmt.Printf("%s: %s (party of %d)\n", outcome, guest.Name, guest.PartySize)
		return
	}

	if granted {
		fmt.Printf("%s\n", outcome)
		return
	}

	fmt.Printf("%s: entry not granted\n", outcome)
}

func init() {
	rootCmd.AddCommand(scansCmd)
	scansCmd.AddCommand(listScansCmd)
	scansCmd.AddCommand(sendScanCmd)
	scansCmd.AddCommand(watchScansCmd)

	listScansCmd.Flags().Int64("page", 1, "Page number")
	listScansCmd.Flags().Int64("size", 50, "Page size")

	watchScansCmd.Flags().Duration("interval", 200*time.Millisecond, "Frame polling interval")
	watchScansCmd.Flags().Duration("settle", 250*time.Millisecond, "How long a frame file must be unchanged before it is read")
	watchScansCmd.Flags().String("log-level", "info", "Log level")
}
