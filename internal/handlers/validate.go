// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"wedsite/internal/models"
)

// Validation limits for portal forms.
const (
	maxNameLen        = 100
	maxEmailLen       = 254
	maxPhoneLen       = 40
	maxCardNameLen    = 200
	maxCardDescLen    = 2_000
	minPasswordLen    = 10
	maxCardPriceCents = 1_000_000
)

// intakeRequest is the body of a partner's client intake.
type intakeRequest struct {
	BrideName  string `json:"bride_name"`
	GroomName  string `json:"groom_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	TemplateID string `json:"template_id"`
}

// normalize trims every field and lower-cases the email.
func (in *intakeRequest) normalize() {
	in.BrideName = strings.TrimSpace(in.BrideName)
	in.GroomName = strings.TrimSpace(in.GroomName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.TemplateID = strings.TrimSpace(in.TemplateID)
}

// validateIntake checks intake inputs and returns the first error found.
func validateIntake(in *intakeRequest) string {
	if in.BrideName == "" || in.GroomName == "" {
		return "Bride and groom names are required."
	}
	if utf8.RuneCountInString(in.BrideName) > maxNameLen || utf8.RuneCountInString(in.GroomName) > maxNameLen {
		return "Names are too long (max 100 characters)."
	}
	if msg := validateEmail(in.Email); msg != "" {
		return msg
	}
	if utf8.RuneCountInString(in.Phone) > maxPhoneLen {
		return "Phone number is too long (max 40 characters)."
	}
	if _, err := models.ParseTemplateKey(in.TemplateID); err != nil {
		return "Unknown template."
	}
	return ""
}

// validateEmail checks that s is a bare address of sane length.
func validateEmail(s string) string {
	if s == "" {
		return "Email is required."
	}
	if len(s) > maxEmailLen {
		return "Email is too long."
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "Email is not valid."
	}
	return ""
}

// validatePartner checks the admin's new-partner form.
func validatePartner(email, displayName, password string) string {
	if msg := validateEmail(email); msg != "" {
		return msg
	}
	name := strings.TrimSpace(displayName)
	if name == "" {
		return "Display name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Display name is too long (max 100 characters)."
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Password must be at least 10 characters."
	}
	return ""
}

// validateCard checks an invitation card form.
func validateCard(c *models.InvitationCard) string {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return "Card name is required."
	}
	if utf8.RuneCountInString(name) > maxCardNameLen {
		return "Card name is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(c.Description) > maxCardDescLen {
		return "Description is too long (max 2,000 characters)."
	}
	if c.PriceCents < 0 || c.PriceCents > maxCardPriceCents {
		return "Price is out of range."
	}
	return ""
}
