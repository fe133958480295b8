// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"testing"
)

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Other packages may be running against the same database, so the
	// tables are not cleared first; Seed only acts on an empty one.
	if err := Seed(db, "admin"); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db, "admin"); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var admins int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE role = 'admin'").Scan(&admins); err != nil {
		t.Fatalf("count admin users: %v", err)
	}
	if admins < 1 {
		t.Errorf("expected at least 1 admin user, got %d", admins)
	}

	var seeded int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE email = $1", DefaultAdminEmail).Scan(&seeded); err != nil {
		t.Fatalf("count seeded admin: %v", err)
	}
	if seeded > 1 {
		t.Errorf("seed created %d default admins", seeded)
	}
}
