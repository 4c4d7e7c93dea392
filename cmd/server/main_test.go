package main

import (
	"context"
	"testing"

	"agencydash/backend/internal/config"
)

func TestValidateSecurityConfigRejectsWeakValues(t *testing.T) {
	err := validateSecurityConfig(config.Config{AuthSecret: "short"})
	if err == nil {
		t.Fatalf("expected weak security config to be rejected")
	}
}

func TestValidateSecurityConfigAcceptsStrongValues(t *testing.T) {
	err := validateSecurityConfig(config.Config{AuthSecret: "0123456789abcdef0123456789abcdef"})
	if err != nil {
		t.Fatalf("expected strong config to pass, got %v", err)
	}
}

func TestPickKVStoreFallsBackToFileThenMemory(t *testing.T) {
	closers := make([]func() error, 0)

	fileStore := pickKVStore(context.Background(), config.Config{DataDir: t.TempDir()}, &closers)
	if fileStore == nil {
		t.Fatalf("expected file-backed store")
	}

	memStore := pickKVStore(context.Background(), config.Config{}, &closers)
	if memStore == nil {
		t.Fatalf("expected memory store")
	}
	if len(closers) != 0 {
		t.Fatalf("file and memory stores must not register closers, got %d", len(closers))
	}
}
