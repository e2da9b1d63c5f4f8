package db

import (
	"context"
	"os"
	"testing"
)

func TestOpen_EmptyURL(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Error("expected an error for an empty database URL")
	}
}

func TestOpen_Integration(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	pool, err := Open(context.Background(), url)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer pool.Close()

	if err := pool.PingContext(context.Background()); err != nil {
		t.Errorf("ping: %v", err)
	}
}
