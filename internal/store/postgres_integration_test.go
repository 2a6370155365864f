//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
)

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	suite.Run(t, &StoreSuite{open: func(t *testing.T) Store {
		ctx := context.Background()
		st, err := NewPostgresStore(ctx, url)
		if err != nil {
			t.Fatalf("connect: %v", err)
		}
		if _, err := st.pool.Exec(ctx, `TRUNCATE persons RESTART IDENTITY`); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return st
	}})
}
