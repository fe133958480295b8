// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"wedsite/internal/models"
)

// WeddingStore persists wedding documents. Every write is versioned:
// Update only succeeds against the version the caller read.
type WeddingStore struct {
	db *sql.DB
}

// NewWeddingStore creates a new WeddingStore with the given database connection.
func NewWeddingStore(db *sql.DB) *WeddingStore {
	return &WeddingStore{db: db}
}

const weddingColumns = `id, partner_id, slug, version, data, created_at, updated_at`

func scanWedding(row rowScanner) (*models.Wedding, error) {
	var (
		w   models.Wedding
		raw []byte
	)
	if err := row.Scan(&w.ID, &w.PartnerID, &w.Slug, &w.Version, &raw, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &w.Document); err != nil {
		return nil, fmt.Errorf("decode wedding %s: %w", w.ID, err)
	}
	return &w, nil
}

// Fetch retrieves a wedding by id.
func (s *WeddingStore) Fetch(ctx context.Context, id uuid.UUID) (*models.Wedding, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+weddingColumns+` FROM weddings WHERE id = $1`, id)
	w, err := scanWedding(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch wedding: %w", err)
	}
	return w, nil
}

// FindBySlug retrieves a wedding by its public slug.
func (s *WeddingStore) FindBySlug(ctx context.Context, slug string) (*models.Wedding, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+weddingColumns+` FROM weddings WHERE slug = $1`, slug)
	w, err := scanWedding(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find wedding by slug: %w", err)
	}
	return w, nil
}

// ListByPartner returns the weddings a partner manages, newest first.
func (s *WeddingStore) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]models.Wedding, error) {
	return s.list(ctx, `WHERE partner_id = $1`, partnerID)
}

// ListAll returns every wedding, newest first.
func (s *WeddingStore) ListAll(ctx context.Context) ([]models.Wedding, error) {
	return s.list(ctx, ``)
}

func (s *WeddingStore) list(ctx context.Context, where string, args ...any) ([]models.Wedding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+weddingColumns+`
		FROM weddings `+where+`
		ORDER BY created_at DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list weddings: %w", err)
	}
	defer rows.Close()

	var out []models.Wedding
	for rows.Next() {
		w, err := scanWedding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wedding: %w", err)
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

// SlugTaken reports whether a slug is already used by a wedding.
func (s *WeddingStore) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM weddings WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// Update writes the complete document of w if the stored version still
// equals w.Version, and returns the fresh record with the bumped version.
// A stale version yields ErrConflict; a missing row ErrNotFound.
func (s *WeddingStore) Update(ctx context.Context, w *models.Wedding) (*models.Wedding, error) {
	if err := w.Document.Validate(); err != nil {
		return nil, fmt.Errorf("update wedding: %w", err)
	}
	raw, err := json.Marshal(w.Document)
	if err != nil {
		return nil, fmt.Errorf("encode wedding: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE weddings
		SET data = $1, template_id = $2, version = version + 1, updated_at = NOW()
		WHERE id = $3 AND version = $4
		RETURNING `+weddingColumns,
		raw, w.Document.TemplateID, w.ID, w.Version,
	)
	fresh, err := scanWedding(row)
	if errors.Is(err, sql.ErrNoRows) {
		if _, ferr := s.Fetch(ctx, w.ID); errors.Is(ferr, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("update wedding: %w", err)
	}
	return fresh, nil
}

// insertWedding creates a wedding row inside tx.
func insertWedding(ctx context.Context, tx *sql.Tx, w *models.Wedding) (*models.Wedding, error) {
	if err := w.Document.Validate(); err != nil {
		return nil, fmt.Errorf("create wedding: %w", err)
	}
	raw, err := json.Marshal(w.Document)
	if err != nil {
		return nil, fmt.Errorf("encode wedding: %w", err)
	}
	row := tx.QueryRowContext(ctx, `
		INSERT INTO weddings (partner_id, slug, template_id, data)
		VALUES ($1, $2, $3, $4)
		RETURNING `+weddingColumns,
		w.PartnerID, w.Slug, w.Document.TemplateID, raw,
	)
	created, err := scanWedding(row)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("create wedding: slug %q: %w", w.Slug, ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("create wedding: %w", err)
	}
	return created, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
