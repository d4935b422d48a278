package main

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/shyaka/todo-backend/internal/infrastructure/config"
)

func TestRun_ReturnsStartupError(t *testing.T) {
	cfg := &config.Config{
		Port: "0",
		Mongo: config.MongoConfig{
			URI:      "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200&connectTimeoutMS=200",
			Database: "todo_test",
		},
		JWTSecret: "test-secret",
	}

	err := run(context.Background(), cfg, zerolog.Nop())
	if err == nil {
		t.Fatalf("expected an error for an unreachable MongoDB")
	}
	if !strings.Contains(err.Error(), "connect to MongoDB") {
		t.Fatalf("unexpected error: %v", err)
	}
}
