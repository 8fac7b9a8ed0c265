// clubmockd serves the emulated student-clubs API over HTTP so a frontend
// can run against it without a live backend.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"clubmock/config"
	"clubmock/internal/adapters/auth"
	delivery "clubmock/internal/delivery/http"
	"clubmock/internal/domain"
	"clubmock/internal/mockapi"
	"clubmock/internal/storage"
	"clubmock/internal/store"
)

func main() {
	logger := config.NewLogger()
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	kv, err := storage.Open(cfg.StoreEngine, cfg.DataDir)
	if err != nil {
		return err
	}
	defer kv.Close()

	var passwords domain.PasswordVerifier
	switch cfg.PasswordScheme {
	case "bcrypt":
		passwords = auth.NewBcryptHasher(bcrypt.DefaultCost)
	default:
		passwords = auth.NewPlainVerifier()
	}

	var tokens domain.TokenCodec
	switch cfg.TokenScheme {
	case "jwt":
		tokens = auth.NewJWTCodec(cfg.JWTSecret, cfg.TokenExpiry)
	default:
		tokens = auth.NewDemoCodec()
		if cfg.Environment == "production" {
			logger.Warn("demo token scheme is unsigned and has no expiry; set TOKEN_SCHEME=jwt outside development")
		}
	}

	st := store.New(kv, logger)
	st.Load()
	if cfg.Seed {
		if err := st.SeedIfEmpty(passwords.Hash); err != nil {
			return err
		}
	}

	api := mockapi.New(st, tokens, passwords, logger, mockapi.Options{
		ReadLatency:  cfg.ReadLatency,
		WriteLatency: cfg.WriteLatency,
	})

	handler := delivery.NewRouter(api, logger, cfg.CORSOrigins)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "engine", cfg.StoreEngine, "tokens", cfg.TokenScheme)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
