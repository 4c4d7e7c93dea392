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

	"agencydash/backend/internal/autopilot"
	"agencydash/backend/internal/cart"
	"agencydash/backend/internal/config"
	"agencydash/backend/internal/httpapi"
	"agencydash/backend/internal/kvstore"
	"agencydash/backend/internal/service"
	"agencydash/backend/internal/settings"
	"agencydash/backend/internal/store"
	"agencydash/backend/internal/store/memory"
	pgstore "agencydash/backend/internal/store/postgres"
	"agencydash/backend/internal/taskagent"
	"agencydash/backend/internal/webhook"
)

func main() {
	cfg := config.Load()
	if err := validateSecurityConfig(cfg); err != nil {
		log.Fatalf("invalid security configuration: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo store.Repository
	closers := make([]func() error, 0, 2)

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres unavailable (%v) and DATABASE_URL is set; refusing to start with in-memory fallback", err)
		} else {
			repo = pg
			closers = append(closers, pg.Close)
			log.Println("repository: postgres")
		}
	} else {
		repo = memory.NewSeeded()
		log.Println("repository: in-memory")
	}

	kv := pickKVStore(ctx, cfg, &closers)

	integrations := settings.NewIntegration(kv)
	automation := settings.NewAutomation(kv)
	autopilotCfg := settings.NewAutopilot(kv)
	callLog := settings.NewCallLog(kv)
	cartStore := cart.New(kv)
	taskStore := taskagent.New(kv)

	sender := webhook.NewSender(time.Duration(cfg.WebhookTimeoutSeconds)*time.Second, callLog)

	svc := service.New(repo, cartStore, taskStore, integrations, automation, autopilotCfg, callLog, sender)
	auth := httpapi.NewAuthManager(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute, repo)
	api := httpapi.New(svc, auth, cfg.AllowedOrigin)

	scheduler := autopilot.NewScheduler(autopilotCfg, func(ctx context.Context) error {
		_, err := svc.GenerateAutopilotSummary(ctx)
		return err
	}, time.Duration(cfg.SummaryCheckIntervalSeconds)*time.Second)
	scheduler.Start(context.Background())
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("agency dashboard backend listening on %s", cfg.Address())
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

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("server stopped")
}

// pickKVStore selects the settings backend: redis when reachable, otherwise a
// file store when DATA_DIR is set, otherwise plain memory.
func pickKVStore(ctx context.Context, cfg config.Config, closers *[]func() error) kvstore.Store {
	if cfg.RedisAddr != "" {
		redisKV := kvstore.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisKV.Ping(ctx); err != nil {
			log.Printf("redis unavailable (%v), falling back", err)
		} else {
			*closers = append(*closers, redisKV.Close)
			log.Println("settings store: redis")
			return redisKV
		}
	}
	if cfg.DataDir != "" {
		fileKV, err := kvstore.NewFile(cfg.DataDir)
		if err != nil {
			log.Printf("file store unavailable (%v), falling back to memory", err)
		} else {
			log.Println("settings store: file")
			return fileKV
		}
	}
	log.Println("settings store: memory")
	return kvstore.NewMemory()
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	return nil
}
