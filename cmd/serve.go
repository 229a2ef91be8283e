// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/canonical/guest-access-service/internal/authorization"
	"github.com/canonical/guest-access-service/internal/config"
	"github.com/canonical/guest-access-service/internal/db"
	"github.com/canonical/guest-access-service/internal/kratos"
	"github.com/canonical/guest-access-service/internal/logging"
	"github.com/canonical/guest-access-service/internal/monitoring"
	"github.com/canonical/guest-access-service/internal/monitoring/prometheus"
	"github.com/canonical/guest-access-service/internal/openfga"
	"github.com/canonical/guest-access-service/internal/storage"
	"github.com/canonical/guest-access-service/internal/storage/memory"
	"github.com/canonical/guest-access-service/internal/token"
	"github.com/canonical/guest-access-service/internal/tracing"
	"github.com/canonical/guest-access-service/internal/types"
	"github.com/canonical/guest-access-service/pkg/access"
	"github.com/canonical/guest-access-service/pkg/authentication"
	"github.com/canonical/guest-access-service/pkg/checkin"
	"github.com/canonical/guest-access-service/pkg/landing"
	"github.com/canonical/guest-access-service/pkg/selfservice"
	"github.com/canonical/guest-access-service/pkg/staff"
	"github.com/canonical/guest-access-service/pkg/surface"
	"github.com/canonical/guest-access-service/pkg/tenant"
	"github.com/canonical/guest-access-service/pkg/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve starts the web server",
	Long:  `Launch the web application, list of environment variables is available in the readme`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(); err != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	specs := new(config.EnvSpec)
	if err := envconfig.Process("", specs); err != nil {
		panic(fmt.Errorf("issues with environment sourcing: %s", err))
	}

	logger := logging.NewLogger(specs.LogLevel)
	defer logger.Sync()

	monitor := prometheus.NewMonitor("guest-access-service", logger)
	tracer := tracing.NewTracer(tracing.NewConfig(specs.TracingEnabled, specs.OtelGRPCEndpoint, specs.OtelHTTPEndpoint, logger))

	s, closeStorage, err := newStorage(specs, tracer, monitor, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	primary, retired, err := token.ParseKeys(specs.TokenKey, specs.TokenRetiredKeys)
	if err != nil {
		return fmt.Errorf("invalid token keys: %v", err)
	}

	codec, err := token.NewCodec(primary, retired)
	if err != nil {
		return fmt.Errorf("failed to create token codec: %v", err)
	}

	generator := surface.NewGenerator(
		codec,
		surface.Config{
			DefaultTTLs: map[types.Purpose]time.Duration{
				types.PurposeCheckIn:   specs.CheckInTokenTTL,
				types.PurposeRSVP:      specs.RSVPTokenTTL,
				types.PurposeGuestForm: specs.GuestFormTokenTTL,
			},
			MaxTTL: specs.MaxTokenTTL,
		},
		tracer,
		monitor,
		logger,
	)

	validator := access.NewValidator(codec, s, specs.StoreTimeout, tracer, monitor, logger)
	checkinService := checkin.NewService(validator, s, tracer, monitor, logger)
	selfService := selfservice.NewService(validator, s, specs.StoreTimeout, tracer, monitor, logger)

	landingAPI := landing.NewAPI(
		codec,
		checkinService,
		selfService,
		landing.NewRateLimiter(specs.LandingRateLimit, specs.LandingRateBurst, logger),
		tracer,
		monitor,
		logger,
	)

	verifier, err := newVerifier(specs, tracer, monitor, logger)
	if err != nil {
		return err
	}

	authn := authentication.NewMiddleware(verifier, tracer, monitor, logger)
	authorizer := newAuthorizer(specs, tracer, monitor, logger)

	staffService := staff.NewService(
		generator,
		checkinService,
		codec,
		s,
		authorizer,
		specs.PublicBaseURL,
		tracer,
		monitor,
		logger,
	)
	staffAPI := staff.NewAPI(staffService, authn, tracer, monitor, logger)

	var kratosClient tenant.KratosClientInterface
	if specs.KratosAdminURL != "" {
		kratosClient = kratos.NewClient(specs.KratosAdminURL, tracer, monitor, logger)
	}

	tenantService := tenant.NewService(authorizer, kratosClient, specs.InvitationLifetime, tracer, monitor, logger)
	tenantHandler := tenant.NewHandler(tenantService, authn, tracer, monitor, logger)

	router := web.NewRouter(landingAPI, staffAPI, tenantHandler, s, specs.AllowedOrigins, tracer, monitor, logger)
	logger.Infof("Starting HTTP server on port %v", specs.Port)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%v", specs.Port),
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      router,
	}

	var serverError error
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Security().SystemStartup()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError = fmt.Errorf("server error: %w", err)
			c <- os.Interrupt
		}
	}()

	<-c

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Security().SystemShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		serverError = fmt.Errorf("server shutdown error: %w", err)
	}

	return serverError
}

func newStorage(specs *config.EnvSpec, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (storage.StorageInterface, func(), error) {
	switch specs.StorageBackend {
	case "memory":
		logger.Warn("Using in-memory storage, guest records will not survive a restart")
		store := memory.NewStorage(tracer, monitor, logger)
		if specs.MemorySeedFile == "" {
			logger.Warn("No MEMORY_SEED_FILE set, the in-memory store has no guests")
			return store, func() {}, nil
		}

		f, err := os.Open(specs.MemorySeedFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open seed file: %v", err)
		}
		defer f.Close()

		if _, err := store.LoadSeed(f); err != nil {
			return nil, nil, fmt.Errorf("failed to load seed file: %v", err)
		}
		return store, func() {}, nil
	case "postgres":
		dbConfig := db.Config{
			DSN:             specs.DSN,
			MaxConns:        specs.DBMaxConns,
			MinConns:        specs.DBMinConns,
			MaxConnLifetime: specs.DBMaxConnLifetime,
			MaxConnIdleTime: specs.DBMaxConnIdleTime,
			TracingEnabled:  specs.TracingEnabled,
		}
		dbClient, err := db.NewDBClient(dbConfig, tracer, monitor, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create database client: %v", err)
		}
		return storage.NewStorage(dbClient, tracer, monitor, logger), dbClient.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage backend %q", specs.StorageBackend)
}

func newVerifier(specs *config.EnvSpec, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (authentication.TokenVerifierInterface, error) {
	if !specs.AuthenticationEnabled {
		logger.Warn("Staff authentication is disabled, bearer tokens are taken as user ids")
		return authentication.NewNoopVerifier(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	verifier, err := authentication.NewJWTAuthenticator(
		ctx,
		specs.OAuth2Issuer,
		specs.OAuth2JWKSURL,
		specs.AllowedSubjects,
		specs.RequiredScope,
		tracer,
		monitor,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up staff authentication: %v", err)
	}

	return verifier, nil
}

func newAuthorizer(specs *config.EnvSpec, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *authorization.Authorizer {
	if !specs.AuthorizationEnabled {
		logger.Info("Using noop authorizer")
		return authorization.NewAuthorizer(
			openfga.NewNoopClient(tracer, monitor, logger),
			tracer,
			monitor,
			logger,
		)
	}

	ofga := openfga.NewClient(
		openfga.NewConfig(
			specs.OpenfgaApiScheme,
			specs.OpenfgaApiHost,
			specs.OpenfgaStoreId,
			specs.OpenfgaApiToken,
			specs.OpenfgaModelId,
			specs.Debug,
			tracer,
			monitor,
			logger,
		),
	)
	logger.Info("Authorization is enabled")

	return authorization.NewAuthorizer(ofga, tracer, monitor, logger)
}
