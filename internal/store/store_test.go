// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"wedsite/internal/database"
	"wedsite/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "wedsite")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "wedsite")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Reset goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testPartner creates a throwaway partner account. Everything that
// references it is removed on cleanup.
func testPartner(t *testing.T, db *sql.DB) *models.User {
	t.Helper()
	email := "partner-" + uuid.NewString()[:8] + "@store-test.local"
	u, err := NewUserStore(db).Create(email, "pass", "Test Partner", nil, models.RolePartner)
	if err != nil {
		t.Fatalf("create partner: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM media WHERE owner_id = $1", u.ID)
		db.Exec("DELETE FROM client_requests WHERE partner_id = $1", u.ID)
		db.Exec("DELETE FROM weddings WHERE partner_id = $1", u.ID)
		db.Exec("DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

func testDocument(bride, groom string) models.WeddingDocument {
	return models.WeddingDocument{
		Couple:   models.Couple{BrideName: bride, GroomName: groom},
		Schedule: []models.ScheduleItem{{ID: "a", Time: "16:00", Event: "Ceremony"}},
		Gallery:  []models.GalleryImage{},
	}
}
