// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// DefaultAdminEmail is the account Seed creates on an empty database.
const DefaultAdminEmail = "admin@wedsite.local"

// starterCards populate the invitation card catalog on first run.
var starterCards = []struct {
	name        string
	description string
	priceCents  int
}{
	{"Classic Ivory", "Cream card stock with gold foil lettering.", 350},
	{"Botanical", "Watercolour greenery on textured paper.", 420},
	{"Modern Minimal", "Clean black type on bright white.", 300},
}

// Seed populates an empty database with a default admin account and a
// starter card catalog. It is a no-op once any user exists.
func Seed(db *sql.DB, adminPassword string) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, 'admin')
	`, DefaultAdminEmail, string(hash), "Admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	for _, c := range starterCards {
		_, err = tx.Exec(`
			INSERT INTO invitation_cards (name, description, price_cents)
			VALUES ($1, $2, $3)
		`, c.name, c.description, c.priceCents)
		if err != nil {
			return fmt.Errorf("seed insert card: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with default admin user", "email", DefaultAdminEmail)
	return nil
}
