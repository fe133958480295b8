// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"wedsite/internal/editor"
	"wedsite/internal/engine"
	"wedsite/internal/middleware"
	"wedsite/internal/models"
	"wedsite/internal/session"
	"wedsite/internal/store"
)

// qrSize is the edge length in pixels of wedding QR codes.
const qrSize = 512

type weddingFetcher interface {
	Fetch(ctx context.Context, id uuid.UUID) (*models.Wedding, error)
}

type weddingReader interface {
	weddingFetcher
	ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]models.Wedding, error)
	ListAll(ctx context.Context) ([]models.Wedding, error)
}

type coupleFinder interface {
	FindByCouple(ctx context.Context, userID uuid.UUID) (*models.ClientRequest, error)
}

// Editor exposes editor sessions to the partner and couple portals. Every
// session belongs to the user who opened it.
type Editor struct {
	registry   *editor.Registry
	weddings   weddingReader
	guard      weddingGuard
	engine     *engine.Engine
	weddingURL func(slug string) string
}

// NewEditor creates a new Editor handler group.
func NewEditor(registry *editor.Registry, weddings weddingReader, couples coupleFinder, eng *engine.Engine, weddingURL func(string) string) *Editor {
	return &Editor{
		registry:   registry,
		weddings:   weddings,
		guard:      weddingGuard{weddings: weddings, couples: couples},
		engine:     eng,
		weddingURL: weddingURL,
	}
}

// weddingSummary is one entry of the user's editable weddings.
type weddingSummary struct {
	ID          uuid.UUID          `json:"id"`
	DisplayName string             `json:"display_name"`
	Slug        string             `json:"slug"`
	URL         string             `json:"url"`
	Template    models.TemplateKey `json:"template_id"`
	Version     int                `json:"version"`
}

type fieldRequest struct {
	Section string `json:"section"`
	Field   string `json:"field"`
	Value   any    `json:"value"`
}

type itemFieldRequest struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

type templateRequest struct {
	Key string `json:"key"`
}

type saveResponse struct {
	Saved bool         `json:"saved"`
	State editor.State `json:"state"`
}

// Weddings lists the weddings the signed-in user may edit: every wedding
// for an admin, a partner's clients, or the couple's own site.
func (e *Editor) Weddings(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	ctx := r.Context()

	var weddings []models.Wedding
	switch sess.Role {
	case models.RoleAdmin:
		list, err := e.weddings.ListAll(ctx)
		if err != nil {
			writeDomainError(w, r, "list weddings", err)
			return
		}
		weddings = list
	case models.RolePartner:
		list, err := e.weddings.ListByPartner(ctx, sess.UserID)
		if err != nil {
			writeDomainError(w, r, "list weddings", err)
			return
		}
		weddings = list
	case models.RoleCouple:
		req, err := e.guard.couples.FindByCouple(ctx, sess.UserID)
		if errors.Is(err, store.ErrNotFound) {
			break
		}
		if err != nil {
			writeDomainError(w, r, "find couple wedding", err)
			return
		}
		wd, err := e.weddings.Fetch(ctx, req.WeddingID)
		if err != nil {
			writeDomainError(w, r, "fetch wedding", err)
			return
		}
		weddings = append(weddings, *wd)
	}

	out := make([]weddingSummary, 0, len(weddings))
	for _, wd := range weddings {
		out = append(out, weddingSummary{
			ID:          wd.ID,
			DisplayName: wd.DisplayName(),
			Slug:        wd.Slug,
			URL:         e.weddingURL(wd.Slug),
			Template:    wd.Document.Template(),
			Version:     wd.Version,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Open starts (or resumes) the user's editor session on a wedding.
func (e *Editor) Open(w http.ResponseWriter, r *http.Request) {
	wd, ok := e.accessibleWedding(w, r)
	if !ok {
		return
	}
	sess := middleware.SessionFromCtx(r.Context())

	s, err := e.registry.Open(r.Context(), wd.ID, sess.UserID)
	if err != nil {
		writeDomainError(w, r, "open editor", err)
		return
	}
	writeJSON(w, http.StatusCreated, s.State())
}

// QRCode renders a PNG QR code of the wedding's public address, for
// printing on invitation cards.
func (e *Editor) QRCode(w http.ResponseWriter, r *http.Request) {
	wd, ok := e.accessibleWedding(w, r)
	if !ok {
		return
	}

	png, err := qrcode.Encode(e.weddingURL(wd.Slug), qrcode.Medium, qrSize)
	if err != nil {
		slog.Error("qr code generation failed", "error", err, "wedding_id", wd.ID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `inline; filename="`+wd.Slug+`-qr.png"`)
	w.Write(png)
}

// State returns the session snapshot.
func (e *Editor) State(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.State())
}

// SetField stages one edit without saving.
func (e *Editor) SetField(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	var in fieldRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.RecordChange(in.Section, in.Field, in.Value); err != nil {
		writeDomainError(w, r, "stage edit", err)
		return
	}
	writeJSON(w, http.StatusOK, s.State())
}

// CommitField stages one edit and writes its section immediately.
func (e *Editor) CommitField(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	var in fieldRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.FastCommit(r.Context(), in.Section, in.Field, in.Value); err != nil {
		writeDomainError(w, r, "commit edit", err)
		return
	}
	writeJSON(w, http.StatusOK, s.State())
}

// AddItem appends an item to a list section and writes the list.
func (e *Editor) AddItem(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	var item map[string]any
	if err := decodeJSON(w, r, &item); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := s.AddItem(r.Context(), chi.URLParam(r, "section"), item)
	if err != nil {
		writeDomainError(w, r, "add list item", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// UpdateItem changes one field of a list item and writes the list.
func (e *Editor) UpdateItem(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	var in itemFieldRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	err := s.UpdateItem(r.Context(), chi.URLParam(r, "section"), chi.URLParam(r, "itemID"), in.Field, in.Value)
	if err != nil {
		writeDomainError(w, r, "update list item", err)
		return
	}
	writeJSON(w, http.StatusOK, s.State())
}

// RemoveItem deletes a list item and writes the list.
func (e *Editor) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	if err := s.RemoveItem(r.Context(), chi.URLParam(r, "section"), chi.URLParam(r, "itemID")); err != nil {
		writeDomainError(w, r, "remove list item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PreviewTemplate switches the rendered template without staging it.
func (e *Editor) PreviewTemplate(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	var in templateRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.PreviewTemplate(in.Key); err != nil {
		writeDomainError(w, r, "preview template", err)
		return
	}
	writeJSON(w, http.StatusOK, s.State())
}

// CommitTemplate stages the previewed template for the next save.
func (e *Editor) CommitTemplate(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	if err := s.CommitTemplate(); err != nil {
		writeDomainError(w, r, "commit template", err)
		return
	}
	writeJSON(w, http.StatusOK, s.State())
}

// Save writes every staged change as one update.
func (e *Editor) Save(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	saved, err := s.Save(r.Context())
	if err != nil {
		writeDomainError(w, r, "save wedding", err)
		return
	}
	writeJSON(w, http.StatusOK, saveResponse{Saved: saved, State: s.State()})
}

// Reload refetches the committed document, keeping staged edits.
func (e *Editor) Reload(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	if err := s.Reload(r.Context()); err != nil {
		writeDomainError(w, r, "reload wedding", err)
		return
	}
	writeJSON(w, http.StatusOK, s.State())
}

// Discard drops staged edits and the template preview.
func (e *Editor) Discard(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	s.Discard()
	writeJSON(w, http.StatusOK, s.State())
}

// Preview renders the effective document with the selected template.
func (e *Editor) Preview(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	doc, key, err := s.Effective()
	if err != nil {
		writeDomainError(w, r, "build preview", err)
		return
	}
	page, err := e.engine.Render(doc, key, engine.RenderOptions{Preview: true})
	if err != nil {
		slog.Error("render preview failed", "error", err, "session", s.ID(), "template", key)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeHTML(w, http.StatusOK, page)
}

// Notifications drains the session's pending toasts.
func (e *Editor) Notifications(w http.ResponseWriter, r *http.Request) {
	s, ok := e.session(w, r)
	if !ok {
		return
	}
	n := s.Notifications()
	if n == nil {
		n = []editor.Notification{}
	}
	writeJSON(w, http.StatusOK, n)
}

// Close ends the session, dropping anything still staged.
func (e *Editor) Close(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := uuidParam(r, "sessionID")
	if !ok {
		writeError(w, http.StatusNotFound, editor.ErrSessionNotFound.Error())
		return
	}
	if err := e.registry.Close(id, sess.UserID); err != nil {
		writeDomainError(w, r, "close editor", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// session resolves the {sessionID} parameter to the caller's session.
func (e *Editor) session(w http.ResponseWriter, r *http.Request) (*editor.Session, bool) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := uuidParam(r, "sessionID")
	if !ok {
		writeError(w, http.StatusNotFound, editor.ErrSessionNotFound.Error())
		return nil, false
	}
	s, err := e.registry.Get(id, sess.UserID)
	if err != nil {
		writeDomainError(w, r, "find editor session", err)
		return nil, false
	}
	return s, true
}

// accessibleWedding loads the {id} wedding if the caller may edit it.
// Foreign weddings answer 404 so their existence is not disclosed.
func (e *Editor) accessibleWedding(w http.ResponseWriter, r *http.Request) (*models.Wedding, bool) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, store.ErrNotFound.Error())
		return nil, false
	}

	wd, err := e.weddings.Fetch(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "fetch wedding", err)
		return nil, false
	}

	allowed, err := e.guard.canEdit(r.Context(), sess, wd)
	if err != nil {
		writeDomainError(w, r, "check wedding access", err)
		return nil, false
	}
	if !allowed {
		writeError(w, http.StatusNotFound, store.ErrNotFound.Error())
		return nil, false
	}
	return wd, true
}

// weddingGuard decides which weddings a signed-in user may edit.
type weddingGuard struct {
	weddings weddingFetcher
	couples  coupleFinder
}

// canEditID is canEdit for a wedding known only by id. Unknown weddings
// are simply not editable.
func (g weddingGuard) canEditID(ctx context.Context, sess *session.Data, id uuid.UUID) (bool, error) {
	wd, err := g.weddings.Fetch(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return g.canEdit(ctx, sess, wd)
}

// canEdit reports whether the user may edit wd: admins always, partners
// for their own clients, couples for their own site.
func (g weddingGuard) canEdit(ctx context.Context, sess *session.Data, wd *models.Wedding) (bool, error) {
	switch sess.Role {
	case models.RoleAdmin:
		return true, nil
	case models.RolePartner:
		return wd.PartnerID == sess.UserID, nil
	case models.RoleCouple:
		req, err := g.couples.FindByCouple(ctx, sess.UserID)
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return req.WeddingID == wd.ID, nil
	default:
		return false, nil
	}
}
