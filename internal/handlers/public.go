// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wedsite/internal/cache"
	"wedsite/internal/engine"
	"wedsite/internal/models"
	"wedsite/internal/store"
)

type siteFinder interface {
	FindBySlug(ctx context.Context, slug string) (*models.Wedding, error)
}

type cardLister interface {
	List(activeOnly bool) ([]models.InvitationCard, error)
}

type pageStore interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, html []byte)
}

// Public groups handlers for the public wedding sites and catalog. It
// checks the Valkey page cache before invoking the template engine, and
// stores rendered results on miss.
type Public struct {
	engine    *engine.Engine
	weddings  siteFinder
	cards     cardLister
	pageCache pageStore
}

// NewPublic creates a new Public handler group.
func NewPublic(eng *engine.Engine, weddings siteFinder, cards cardLister, pageCache pageStore) *Public {
	return &Public{
		engine:    eng,
		weddings:  weddings,
		cards:     cards,
		pageCache: pageCache,
	}
}

// Wedding renders the saved document of a wedding site by its slug.
// Pending editor changes never reach this page.
func (p *Public) Wedding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")
	key := cache.WeddingKey(slug)

	if cached, ok := p.pageCache.Get(ctx, key); ok {
		writeHTML(w, http.StatusOK, cached)
		return
	}

	wedding, err := p.weddings.FindBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("find wedding by slug failed", "error", err, "slug", slug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rendered, err := p.engine.Render(&wedding.Document, wedding.Document.Template(), engine.RenderOptions{})
	if err != nil {
		slog.Error("render wedding failed", "error", err, "slug", slug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, key, rendered)
	writeHTML(w, http.StatusOK, rendered)
}

// Cards lists the active invitation cards.
func (p *Public) Cards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := p.pageCache.Get(ctx, cache.CatalogKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(cached)
		return
	}

	cards, err := p.cards.List(true)
	if err != nil {
		writeDomainError(w, r, "list cards", err)
		return
	}
	if cards == nil {
		cards = []models.InvitationCard{}
	}

	body, err := json.Marshal(cards)
	if err != nil {
		writeDomainError(w, r, "encode cards", err)
		return
	}
	p.pageCache.Set(ctx, cache.CatalogKey, body)

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// Templates lists the site templates a couple can choose from.
func (p *Public) Templates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, engine.Templates())
}
