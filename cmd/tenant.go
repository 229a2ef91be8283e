// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canonical/guest-access-service/internal/authorization"
	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/openfga"
	"github.com/canonical/guest-access-service/internal/tracing"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Manage who may act for a tenant",
}

var assignOwnerCmd = &cobra.Command{
	Use:   "assign-owner [tenant-id] [user-id]",
	Short: "Make a user owner of a tenant directly in openfga",
	Long:  `Bootstraps the first owner of a tenant. Later members are added by owners through the API.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		apiUrl, _ := cmd.Flags().GetString("fga-api-url")
		apiToken, _ := cmd.Flags().GetString("fga-api-token")
		storeId, _ := cmd.Flags().GetString("fga-store-id")
		modelId, _ := cmd.Flags().GetString("fga-model-id")

		scheme, host, err := parseURL(apiUrl)
		if err != nil {
			return fmt.Errorf("failed to parse url: %w", err)
		}

		logger := logging.NewNoopLogger()
		tracer := tracing.NewNoopTracer()
		monitor := monitoring.NewNoopMonitor("")

		authorizer := authorization.NewAuthorizer(
			openfga.NewClient(openfga.NewConfig(scheme, host, storeId, apiToken, modelId, false, tracer, monitor, logger)),
			tracer,
			monitor,
			logger,
		)

		if err := authorizer.AssignTenantOwner(cmd.Context(), args[0], args[1]); err != nil {
			return fmt.Errorf("failed to assign owner: %w", err)
		}

		fmt.Printf("User %s is now owner of tenant %s\n", args[1], args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tenantCmd)
	tenantCmd.AddCommand(assignOwnerCmd)

	assignOwnerCmd.Flags().String("fga-api-url", "", "The openfga API URL")
	assignOwnerCmd.Flags().String("fga-api-token", "", "The openfga API token")
	assignOwnerCmd.Flags().String("fga-store-id", "", "The openfga store id")
	assignOwnerCmd.Flags().String("fga-model-id", "", "The openfga authorization model id")
	_ = assignOwnerCmd.MarkFlagRequired("fga-api-url")
	_ = assignOwnerCmd.MarkFlagRequired("fga-api-token")
	_ = assignOwnerCmd.MarkFlagRequired("fga-store-id")
}
