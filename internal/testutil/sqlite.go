// Package testutil provides helpers shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/uptrace/bun"

	"github.com/duynhne/contact-service/config"
	database "github.com/duynhne/contact-service/internal/core"
	"github.com/duynhne/contact-service/internal/core/domain"
	"github.com/duynhne/contact-service/internal/core/repository/bunsql"
)

// NewSQLiteDB opens a private in-memory SQLite database that is closed when the test ends.
func NewSQLiteDB(t testing.TB) *bun.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	}
	db, err := database.OpenBun(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// NewContactRepository returns a contact repository over a fresh in-memory database.
func NewContactRepository(t testing.TB) *bunsql.ContactRepository {
	t.Helper()

	repo := bunsql.NewContactRepository(NewSQLiteDB(t))
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return repo
}

// SeedContacts inserts n contacts named "Contact 1".."Contact n" and returns them with their identities.
func SeedContacts(t testing.TB, repo domain.ContactRepository, n int) []*domain.Contact {
	t.Helper()

	contacts := make([]*domain.Contact, 0, n)
	for i := 1; i <= n; i++ {
		c := &domain.Contact{
			Name:  fmt.Sprintf("Contact %d", i),
			Email: fmt.Sprintf("contact%d@sesame.net", i),
			Phone: fmt.Sprintf("555555%04d", i),
		}
		if err := repo.Add(context.Background(), c); err != nil {
			t.Fatalf("seed contact %d: %v", i, err)
		}
		contacts = append(contacts, c)
	}
	return contacts
}
