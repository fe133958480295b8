// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the approval state of a partner-submitted client.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"

	// RequestStatusRejected is never stored: rejecting deletes the request.
	// Listings report it for weddings left without one.
	RequestStatusRejected RequestStatus = "rejected"
)

// ClientRequest is the pending-approval row a partner creates when it
// takes on a new couple. Approving it provisions the couple's account;
// deleting it never touches the wedding document.
type ClientRequest struct {
	ID           uuid.UUID     `json:"id"`
	PartnerID    uuid.UUID     `json:"partner_id"`
	WeddingID    uuid.UUID     `json:"wedding_id"`
	BrideName    string        `json:"bride_name"`
	GroomName    string        `json:"groom_name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	TemplateID   TemplateKey   `json:"template_id"`
	Status       RequestStatus `json:"status"`
	CoupleUserID *uuid.UUID    `json:"couple_user_id,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	DecidedAt    *time.Time    `json:"decided_at,omitempty"`
}

// IsPending returns true while the request awaits an admin decision.
func (r *ClientRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}
