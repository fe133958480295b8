// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"wedsite/internal/cache"
	"wedsite/internal/models"
)

// tempPasswordBytes is the entropy of generated couple passwords.
const tempPasswordBytes = 12

type requestQueue interface {
	ListPending(ctx context.Context) ([]models.ClientRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.ClientRequest, error)
	Approve(ctx context.Context, id uuid.UUID, account *models.User) (*models.ClientRequest, *models.User, error)
	Reject(ctx context.Context, id uuid.UUID) error
}

type accountStore interface {
	ListByRole(role models.Role) ([]models.User, error)
	FindByID(id uuid.UUID) (*models.User, error)
	Create(email, password, displayName string, phone *string, role models.Role) (*models.User, error)
	SetDisabled(userID uuid.UUID, disabled bool) error
}

type cardCatalog interface {
	List(activeOnly bool) ([]models.InvitationCard, error)
	FindByID(id uuid.UUID) (*models.InvitationCard, error)
	Create(c *models.InvitationCard) (*models.InvitationCard, error)
	Update(c *models.InvitationCard) (*models.InvitationCard, error)
	Delete(id uuid.UUID) error
}

type sessionRevoker interface {
	DestroyUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, key string)
}

// Admin groups the staff portal: the approval queue, partner accounts,
// and the invitation card catalog.
type Admin struct {
	requests  requestQueue
	users     accountStore
	cards     cardCatalog
	sessions  sessionRevoker
	pageCache cacheInvalidator
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(requests requestQueue, users accountStore, cards cardCatalog, sessions sessionRevoker, pageCache cacheInvalidator) *Admin {
	return &Admin{
		requests:  requests,
		users:     users,
		cards:     cards,
		sessions:  sessions,
		pageCache: pageCache,
	}
}

// approvalResponse carries the provisioned account. The temporary password
// is shown once to the admin, who hands it to the couple.
type approvalResponse struct {
	Request           *models.ClientRequest `json:"request"`
	Account           *models.User          `json:"account"`
	TemporaryPassword string                `json:"temporary_password"`
}

type partnerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
}

type cardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	PriceCents  int    `json:"price_cents"`
	Active      bool   `json:"active"`
}

func (c *cardRequest) card() *models.InvitationCard {
	return &models.InvitationCard{
		Name:        strings.TrimSpace(c.Name),
		Description: strings.TrimSpace(c.Description),
		ImageURL:    strings.TrimSpace(c.ImageURL),
		PriceCents:  c.PriceCents,
		Active:      c.Active,
	}
}

// --- Couple requests ---

// Requests lists the requests awaiting a decision, oldest first.
func (a *Admin) Requests(w http.ResponseWriter, r *http.Request) {
	pending, err := a.requests.ListPending(r.Context())
	if err != nil {
		writeDomainError(w, r, "list pending requests", err)
		return
	}
	if pending == nil {
		pending = []models.ClientRequest{}
	}
	writeJSON(w, http.StatusOK, pending)
}

// ApproveRequest provisions the couple's account and marks the request
// approved.
func (a *Admin) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "request not found")
		return
	}
	ctx := r.Context()

	req, err := a.requests.FindByID(ctx, id)
	if err != nil {
		writeDomainError(w, r, "find request", err)
		return
	}
	if !req.IsPending() {
		writeError(w, http.StatusConflict, "request already decided")
		return
	}

	password, err := temporaryPassword()
	if err != nil {
		slog.Error("generate password failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("hash password failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var phone *string
	if req.Phone != "" {
		phone = &req.Phone
	}
	approved, account, err := a.requests.Approve(ctx, id, &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		DisplayName:  req.BrideName + " & " + req.GroomName,
		Phone:        phone,
	})
	if err != nil {
		writeDomainError(w, r, "approve request", err)
		return
	}

	slog.Info("couple approved", "request_id", id, "wedding_id", approved.WeddingID, "user_id", account.ID)
	writeJSON(w, http.StatusOK, approvalResponse{
		Request:           approved,
		Account:           account,
		TemporaryPassword: password,
	})
}

// RejectRequest deletes a pending request. The wedding document stays.
func (a *Admin) RejectRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "request not found")
		return
	}
	if err := a.requests.Reject(r.Context(), id); err != nil {
		writeDomainError(w, r, "reject request", err)
		return
	}
	slog.Info("couple request rejected", "request_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// --- Partners ---

// Partners lists the partner accounts.
func (a *Admin) Partners(w http.ResponseWriter, r *http.Request) {
	partners, err := a.users.ListByRole(models.RolePartner)
	if err != nil {
		writeDomainError(w, r, "list partners", err)
		return
	}
	if partners == nil {
		partners = []models.User{}
	}
	writeJSON(w, http.StatusOK, partners)
}

// CreatePartner registers a vendor account.
func (a *Admin) CreatePartner(w http.ResponseWriter, r *http.Request) {
	var in partnerRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if msg := validatePartner(in.Email, in.DisplayName, in.Password); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	var phone *string
	if p := strings.TrimSpace(in.Phone); p != "" {
		phone = &p
	}
	user, err := a.users.Create(in.Email, in.Password, strings.TrimSpace(in.DisplayName), phone, models.RolePartner)
	if err != nil {
		writeDomainError(w, r, "create partner", err)
		return
	}

	slog.Info("partner created", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, user)
}

// DisablePartner blocks sign-in and revokes every live session.
func (a *Admin) DisablePartner(w http.ResponseWriter, r *http.Request) {
	a.setPartnerDisabled(w, r, true)
}

// EnablePartner lifts a block.
func (a *Admin) EnablePartner(w http.ResponseWriter, r *http.Request) {
	a.setPartnerDisabled(w, r, false)
}

func (a *Admin) setPartnerDisabled(w http.ResponseWriter, r *http.Request, disabled bool) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "partner not found")
		return
	}

	user, err := a.users.FindByID(id)
	if err != nil {
		writeDomainError(w, r, "find partner", err)
		return
	}
	if user == nil || user.Role != models.RolePartner {
		writeError(w, http.StatusNotFound, "partner not found")
		return
	}

	if err := a.users.SetDisabled(id, disabled); err != nil {
		writeDomainError(w, r, "update partner", err)
		return
	}

	if disabled {
		n, err := a.sessions.DestroyUser(r.Context(), id)
		if err != nil {
			// The account is blocked; live sessions still expire on their own.
			slog.Error("revoke partner sessions failed", "error", err, "user_id", id)
		}
		slog.Info("partner disabled", "user_id", id, "sessions_revoked", n)
	} else {
		slog.Info("partner enabled", "user_id", id)
	}

	user.Disabled = disabled
	writeJSON(w, http.StatusOK, user)
}

// --- Invitation cards ---

// Cards lists the whole catalog, inactive cards included.
func (a *Admin) Cards(w http.ResponseWriter, r *http.Request) {
	cards, err := a.cards.List(false)
	if err != nil {
		writeDomainError(w, r, "list cards", err)
		return
	}
	if cards == nil {
		cards = []models.InvitationCard{}
	}
	writeJSON(w, http.StatusOK, cards)
}

// CreateCard adds a card to the catalog.
func (a *Admin) CreateCard(w http.ResponseWriter, r *http.Request) {
	var in cardRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	card := in.card()
	if msg := validateCard(card); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	created, err := a.cards.Create(card)
	if err != nil {
		writeDomainError(w, r, "create card", err)
		return
	}
	a.pageCache.Invalidate(r.Context(), cache.CatalogKey)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateCard overwrites a card.
func (a *Admin) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "card not found")
		return
	}
	var in cardRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	card := in.card()
	card.ID = id
	if msg := validateCard(card); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	updated, err := a.cards.Update(card)
	if err != nil {
		writeDomainError(w, r, "update card", err)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "card not found")
		return
	}
	a.pageCache.Invalidate(r.Context(), cache.CatalogKey)
	writeJSON(w, http.StatusOK, updated)
}

// DeleteCard removes a card.
func (a *Admin) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "card not found")
		return
	}
	existing, err := a.cards.FindByID(id)
	if err != nil {
		writeDomainError(w, r, "find card", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "card not found")
		return
	}
	if err := a.cards.Delete(id); err != nil {
		writeDomainError(w, r, "delete card", err)
		return
	}
	a.pageCache.Invalidate(r.Context(), cache.CatalogKey)
	w.WriteHeader(http.StatusNoContent)
}

// temporaryPassword returns a random URL-safe password.
func temporaryPassword() (string, error) {
	b := make([]byte, tempPasswordBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
