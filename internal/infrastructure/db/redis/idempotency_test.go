package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// Integration-style test: runs only if TEST_REDIS_ADDR is set.
func TestIdempotencyStoreIntegration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping integration test")
	}

	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: addr})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	store := NewIdempotencyStore(client, time.Minute)
	owner := uuid.NewString()

	id, err := store.Lookup(ctx, owner, "k1")
	if err != nil || id != "" {
		t.Fatalf("expected miss, got %q, %v", id, err)
	}

	if err := store.Remember(ctx, owner, "k1", "task-1"); err != nil {
		t.Fatalf("remember: %v", err)
	}
	// a second Remember must not overwrite the first task
	if err := store.Remember(ctx, owner, "k1", "task-2"); err != nil {
		t.Fatalf("remember again: %v", err)
	}

	id, err = store.Lookup(ctx, owner, "k1")
	if err != nil || id != "task-1" {
		t.Fatalf("expected task-1, got %q, %v", id, err)
	}

	if id, _ := store.Lookup(ctx, uuid.NewString(), "k1"); id != "" {
		t.Fatalf("key leaked across owners: %q", id)
	}
}

func TestConfigEnabled(t *testing.T) {
	if (Config{}).Enabled() {
		t.Fatalf("empty address must disable redis")
	}
	if !(Config{Addr: "localhost:6379"}).Enabled() {
		t.Fatalf("address must enable redis")
	}
}
