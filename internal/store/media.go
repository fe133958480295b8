// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"wedsite/internal/models"
)

// MediaStore handles all media-related database operations.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

// mediaColumns lists the columns selected in media queries.
const mediaColumns = `id, owner_id, wedding_id, original_name, content_type, size_bytes,
	s3_key, url, created_at`

// scanMedia scans a media row from the result set.
func scanMedia(scanner rowScanner) (*models.Media, error) {
	var m models.Media
	err := scanner.Scan(
		&m.ID, &m.OwnerID, &m.WeddingID, &m.OriginalName, &m.ContentType, &m.SizeBytes,
		&m.S3Key, &m.URL, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new media record and returns it with the generated ID.
func (s *MediaStore) Create(m *models.Media) (*models.Media, error) {
	created, err := scanMedia(s.db.QueryRow(`
		INSERT INTO media (owner_id, wedding_id, original_name, content_type, size_bytes, s3_key, url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+mediaColumns,
		m.OwnerID, m.WeddingID, m.OriginalName, m.ContentType, m.SizeBytes, m.S3Key, m.URL,
	))
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return created, nil
}

// FindByID retrieves a single media record by its UUID. Returns nil if not found.
func (s *MediaStore) FindByID(id uuid.UUID) (*models.Media, error) {
	m, err := scanMedia(s.db.QueryRow(`SELECT `+mediaColumns+` FROM media WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media by id: %w", err)
	}
	return m, nil
}

// ListByOwner returns an owner's uploads, newest first, with pagination.
func (s *MediaStore) ListByOwner(ownerID uuid.UUID, limit, offset int) ([]models.Media, error) {
	rows, err := s.db.Query(`
		SELECT `+mediaColumns+`
		FROM media
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var items []models.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// Delete removes a media record owned by ownerID and returns it so the
// caller can remove the stored object. Returns nil if no such row exists.
func (s *MediaStore) Delete(id, ownerID uuid.UUID) (*models.Media, error) {
	m, err := scanMedia(s.db.QueryRow(`
		DELETE FROM media WHERE id = $1 AND owner_id = $2
		RETURNING `+mediaColumns, id, ownerID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete media: %w", err)
	}
	return m, nil
}

// CountByOwner returns how many uploads an owner has.
func (s *MediaStore) CountByOwner(ownerID uuid.UUID) (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM media WHERE owner_id = $1`, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count media: %w", err)
	}
	return count, nil
}
