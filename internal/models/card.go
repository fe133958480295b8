// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InvitationCard is one design in the public invitation card catalog.
type InvitationCard struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	PriceCents  int       `json:"price_cents"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Price formats PriceCents as a decimal amount, e.g. "12.50".
func (c *InvitationCard) Price() string {
	return fmt.Sprintf("%d.%02d", c.PriceCents/100, c.PriceCents%100)
}
