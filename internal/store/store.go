// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all wedsite entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import "errors"

var (
	// ErrNotFound is returned by the document and request stores when the
	// row does not exist. The account, catalog, and media finders return
	// (nil, nil) instead.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned by WeddingStore.Update when the stored
	// version no longer matches the caller's base version.
	ErrConflict = errors.New("version conflict")

	// ErrDuplicate is returned when a unique column (email, slug) is taken.
	ErrDuplicate = errors.New("already exists")
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
