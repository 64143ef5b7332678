package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"bankai/backend/internal/automation"
	"bankai/backend/internal/config"
	"bankai/backend/internal/httpapi"
	"bankai/backend/internal/service"
	"bankai/backend/internal/store/backend"
)

func main() {
	var configPath string
	flagSet := pflag.NewFlagSet("bankai-server", pflag.ExitOnError)
	flagSet.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to a YAML config file (env vars override it)")
	_ = flagSet.Parse(os.Args[1:])

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if err := validateSecurityConfig(cfg); err != nil {
		log.Fatalf("invalid security configuration: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	blobs, closeStore, err := backend.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("%v; refusing to start", err)
	}

	svc := service.New(blobs, automation.NewEngine())
	if err := seed(ctx, svc, cfg); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	auth := httpapi.NewAuthManager(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute, svc)
	api := httpapi.New(svc, auth, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("ledger backend listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	if err := closeStore(); err != nil {
		log.Printf("close error: %v", err)
	}

	log.Println("server stopped")
}

// seed writes demo data when enabled (always for the in-memory backend) and
// creates the first owner account when a password for it is configured.
func seed(ctx context.Context, svc *service.Service, cfg config.Config) error {
	if cfg.SeedDemoData || cfg.Backend() == "memory" {
		if _, err := svc.SeedDemo(ctx); err != nil {
			return err
		}
	}
	if cfg.SeedOwnerPassword == "" {
		return nil
	}
	created, err := svc.EnsureOwner(ctx, cfg.SeedOwnerName, cfg.SeedOwnerPassword)
	if err != nil {
		return err
	}
	if created {
		log.Printf("owner account %q created", cfg.SeedOwnerName)
	}
	return nil
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	if cfg.SeedOwnerPassword != "" && len(cfg.SeedOwnerPassword) < 8 {
		return fmt.Errorf("SEED_OWNER_PASSWORD must be at least 8 characters")
	}
	return nil
}
