// @title           Papyrus Bookstore API
// @version         1.0
// @description     Bookstore catalog API with separate user and admin authentication scopes.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/papyrus/bookstore-api/internal/api"
	"github.com/papyrus/bookstore-api/internal/api/middleware"
	"github.com/papyrus/bookstore-api/internal/core/domain"
	"github.com/papyrus/bookstore-api/internal/core/service"
	"github.com/papyrus/bookstore-api/internal/infrastructure/config"
	"github.com/papyrus/bookstore-api/internal/infrastructure/queue"
	"github.com/papyrus/bookstore-api/internal/pkg/token"
	"github.com/papyrus/bookstore-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "bookstore-api: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "bookstore-api",
		Env:     cfg.Env,
	})

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Error().Err(err).Msg("store close failed")
		}
	}()

	sink, closeSink, err := newNotifier(cfg, log)
	if err != nil {
		return err
	}
	defer closeSink()

	// Shutdown drains queued notifications, so workers outlive ctx.
	dispatcher := queue.NewDispatcher(0, sink, logger.Component("notify"))
	dispatcher.Start(context.Background())
	defer dispatcher.Close()

	blobs, uploadDir, err := newBlobStore(ctx, cfg)
	if err != nil {
		return err
	}

	tokenCfg := token.Config{
		Secret:    []byte(cfg.Auth.JWTSecret),
		Algorithm: cfg.Auth.JWTAlgorithm,
		TTL:       cfg.Auth.AccessTokenTTL,
	}
	issuer, err := token.NewIssuer(tokenCfg)
	if err != nil {
		return fmt.Errorf("token issuer: %w", err)
	}
	verifier, err := token.NewVerifier(tokenCfg)
	if err != nil {
		return fmt.Errorf("token verifier: %w", err)
	}

	ledger := service.NewRevocationLedger(st.revocations, logger.Component("revocation"), st.ledgerOpts...)
	creds := service.NewCredentialStore(st.users, st.admins, cfg.Auth.BcryptCost)
	resolver := service.NewPrincipalResolver(st.users, st.admins)

	authSvc := service.NewAuthService(creds, st.users, issuer, ledger, dispatcher, blobs, cfg.AppURL, logger.Component("auth"))
	adminSvc := service.NewAdminAuthService(creds, issuer, ledger, logger.Component("admin-auth"))
	catalogSvc := service.NewCatalogService(st.books, st.authors, st.genres, blobs, logger.Component("catalog"))

	if cfg.Seed.AdminEmail != "" {
		if err := adminSvc.SeedAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, cfg.Seed.AdminName); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	e, err := api.NewRouter(api.Deps{
		Logger:             log,
		AuthService:        authSvc,
		AdminAuthService:   adminSvc,
		Catalog:            catalogSvc,
		UserAuthenticator:  middleware.NewAuthenticator(domain.KindUser, ledger, verifier, resolver, log),
		AdminAuthenticator: middleware.NewAuthenticator(domain.KindAdmin, ledger, verifier, resolver, log),
		Readiness:          st.readiness,
		UploadDir:          uploadDir,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.Store.Driver).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info().Msg("shutdown complete")
	return nil
}
