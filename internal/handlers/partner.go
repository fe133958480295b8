// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"wedsite/internal/middleware"
	"wedsite/internal/models"
	"wedsite/internal/slug"
	"wedsite/internal/store"
)

// maxSlugAttempts bounds the numbered suffixes tried for a couple's slug
// before falling back to a random one.
const maxSlugAttempts = 20

type intakeStore interface {
	Intake(ctx context.Context, w *models.Wedding, r *models.ClientRequest) (*models.Wedding, *models.ClientRequest, error)
	ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]models.ClientRequest, error)
}

type partnerWeddings interface {
	ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]models.Wedding, error)
	SlugTaken(ctx context.Context, slug string) (bool, error)
}

// Partner groups the vendor portal endpoints: client intake and the
// partner's client list.
type Partner struct {
	weddings   partnerWeddings
	requests   intakeStore
	weddingURL func(slug string) string
}

// NewPartner creates a new Partner handler group. weddingURL builds the
// public address of a site from its slug.
func NewPartner(weddings partnerWeddings, requests intakeStore, weddingURL func(string) string) *Partner {
	return &Partner{
		weddings:   weddings,
		requests:   requests,
		weddingURL: weddingURL,
	}
}

// clientView is one row of the partner's client list.
type clientView struct {
	WeddingID   uuid.UUID            `json:"wedding_id"`
	RequestID   *uuid.UUID           `json:"request_id,omitempty"`
	DisplayName string               `json:"display_name"`
	Slug        string               `json:"slug"`
	URL         string               `json:"url"`
	Template    models.TemplateKey   `json:"template_id"`
	Status      models.RequestStatus `json:"status"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// Intake registers a new couple: it creates their wedding document and a
// pending request for an admin to approve.
func (p *Partner) Intake(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var in intakeRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.normalize()
	if msg := validateIntake(&in); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	key, _ := models.ParseTemplateKey(in.TemplateID)

	ctx := r.Context()
	base := slug.ForCouple(in.BrideName, in.GroomName)
	siteSlug, err := p.uniqueSlug(ctx, base)
	if err != nil {
		slog.Error("slug lookup failed", "error", err, "base", base)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	req := &models.ClientRequest{
		PartnerID:  sess.UserID,
		BrideName:  in.BrideName,
		GroomName:  in.GroomName,
		Email:      in.Email,
		Phone:      in.Phone,
		TemplateID: key,
	}
	wedding := &models.Wedding{
		PartnerID: sess.UserID,
		Slug:      siteSlug,
		Document:  models.NewDocument(in.BrideName, in.GroomName, in.Email, in.Phone, key),
	}

	created, createdReq, err := p.requests.Intake(ctx, wedding, req)
	if errors.Is(err, store.ErrDuplicate) {
		// Lost a race for the slug; one retry with a random suffix.
		wedding.Slug = randomSlug(base)
		created, createdReq, err = p.requests.Intake(ctx, wedding, req)
	}
	if err != nil {
		writeDomainError(w, r, "client intake", err)
		return
	}

	slog.Info("client registered",
		"partner_id", sess.UserID,
		"wedding_id", created.ID,
		"slug", created.Slug,
	)
	writeJSON(w, http.StatusCreated, p.view(created, createdReq))
}

// Clients lists the partner's weddings with their approval status.
func (p *Partner) Clients(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	ctx := r.Context()

	weddings, err := p.weddings.ListByPartner(ctx, sess.UserID)
	if err != nil {
		writeDomainError(w, r, "list weddings", err)
		return
	}
	requests, err := p.requests.ListByPartner(ctx, sess.UserID)
	if err != nil {
		writeDomainError(w, r, "list client requests", err)
		return
	}

	byWedding := make(map[uuid.UUID]*models.ClientRequest, len(requests))
	for i := range requests {
		byWedding[requests[i].WeddingID] = &requests[i]
	}

	out := make([]clientView, 0, len(weddings))
	for i := range weddings {
		out = append(out, p.view(&weddings[i], byWedding[weddings[i].ID]))
	}
	writeJSON(w, http.StatusOK, out)
}

// view builds a clientView. A wedding without a request had it rejected.
func (p *Partner) view(wd *models.Wedding, req *models.ClientRequest) clientView {
	v := clientView{
		WeddingID:   wd.ID,
		DisplayName: wd.DisplayName(),
		Slug:        wd.Slug,
		URL:         p.weddingURL(wd.Slug),
		Template:    wd.Document.Template(),
		Status:      models.RequestStatusRejected,
		UpdatedAt:   wd.UpdatedAt,
	}
	if req != nil {
		id := req.ID
		v.RequestID = &id
		v.Status = req.Status
	}
	return v
}

// uniqueSlug returns base, or base-2, base-3 and so on, whichever is free.
func (p *Partner) uniqueSlug(ctx context.Context, base string) (string, error) {
	for i := 1; i <= maxSlugAttempts; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		taken, err := p.weddings.SlugTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return randomSlug(base), nil
}

func randomSlug(base string) string {
	return base + "-" + uuid.NewString()[:8]
}
