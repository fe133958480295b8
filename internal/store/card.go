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

// CardStore handles the invitation card catalog.
type CardStore struct {
	db *sql.DB
}

// NewCardStore creates a new CardStore with the given database connection.
func NewCardStore(db *sql.DB) *CardStore {
	return &CardStore{db: db}
}

const cardColumns = `id, name, description, image_url, price_cents, active, created_at`

func scanCard(row rowScanner) (*models.InvitationCard, error) {
	var c models.InvitationCard
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.PriceCents, &c.Active, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns catalog cards by name. With activeOnly, hidden cards are
// skipped.
func (s *CardStore) List(activeOnly bool) ([]models.InvitationCard, error) {
	rows, err := s.db.Query(`
		SELECT `+cardColumns+`
		FROM invitation_cards
		WHERE active OR NOT $1
		ORDER BY name ASC
	`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []models.InvitationCard
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}

// FindByID retrieves a card by id. Returns nil if not found.
func (s *CardStore) FindByID(id uuid.UUID) (*models.InvitationCard, error) {
	c, err := scanCard(s.db.QueryRow(`SELECT `+cardColumns+` FROM invitation_cards WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find card: %w", err)
	}
	return c, nil
}

// Create inserts a card and returns it with the generated id.
func (s *CardStore) Create(c *models.InvitationCard) (*models.InvitationCard, error) {
	created, err := scanCard(s.db.QueryRow(`
		INSERT INTO invitation_cards (name, description, image_url, price_cents, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+cardColumns,
		c.Name, c.Description, c.ImageURL, c.PriceCents, c.Active,
	))
	if err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}
	return created, nil
}

// Update overwrites the editable fields of a card. Returns nil if the card
// does not exist.
func (s *CardStore) Update(c *models.InvitationCard) (*models.InvitationCard, error) {
	updated, err := scanCard(s.db.QueryRow(`
		UPDATE invitation_cards
		SET name = $1, description = $2, image_url = $3, price_cents = $4, active = $5
		WHERE id = $6
		RETURNING `+cardColumns,
		c.Name, c.Description, c.ImageURL, c.PriceCents, c.Active, c.ID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update card: %w", err)
	}
	return updated, nil
}

// Delete removes a card from the catalog.
func (s *CardStore) Delete(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM invitation_cards WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	return nil
}
