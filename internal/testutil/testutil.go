// Package testutil provides shared test helpers for setting up databases
// and note services.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/starford/laguz/internal/noteservice"
	"github.com/starford/laguz/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "laguz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestService creates an initialized note service over a temporary database.
func TestService(t *testing.T, opts ...noteservice.ServiceOption) *noteservice.Service {
	t.Helper()
	svc := noteservice.NewService(TestDB(t), opts...)
	if err := svc.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	return svc
}
