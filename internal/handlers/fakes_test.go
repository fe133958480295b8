// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"wedsite/internal/models"
	"wedsite/internal/store"
)

// fakeWeddings is an in-memory wedding store. It also satisfies
// editor.DocumentStore.
type fakeWeddings struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*models.Wedding
	listErr error
}

func newFakeWeddings(ws ...*models.Wedding) *fakeWeddings {
	f := &fakeWeddings{byID: make(map[uuid.UUID]*models.Wedding)}
	for _, w := range ws {
		f.byID[w.ID] = w.Clone()
	}
	return f
}

func (f *fakeWeddings) put(w *models.Wedding) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[w.ID] = w.Clone()
}

func (f *fakeWeddings) Fetch(_ context.Context, id uuid.UUID) (*models.Wedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return w.Clone(), nil
}

func (f *fakeWeddings) Update(_ context.Context, w *models.Wedding) (*models.Wedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.byID[w.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if cur.Version != w.Version {
		return nil, store.ErrConflict
	}
	next := w.Clone()
	next.Version++
	next.UpdatedAt = time.Now()
	f.byID[w.ID] = next
	return next.Clone(), nil
}

func (f *fakeWeddings) FindBySlug(_ context.Context, slug string) (*models.Wedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.byID {
		if w.Slug == slug {
			return w.Clone(), nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeWeddings) ListByPartner(_ context.Context, partnerID uuid.UUID) ([]models.Wedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Wedding
	for _, w := range f.byID {
		if w.PartnerID == partnerID {
			out = append(out, *w.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (f *fakeWeddings) ListAll(_ context.Context) ([]models.Wedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Wedding, 0, len(f.byID))
	for _, w := range f.byID {
		out = append(out, *w.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (f *fakeWeddings) SlugTaken(ctx context.Context, slug string) (bool, error) {
	_, err := f.FindBySlug(ctx, slug)
	return err == nil, nil
}

// fakeRequests is an in-memory client request store. Intake writes the
// wedding into the linked fakeWeddings.
type fakeRequests struct {
	mu        sync.Mutex
	weddings  *fakeWeddings
	byID      map[uuid.UUID]*models.ClientRequest
	intakeErr []error
	accounts  []*models.User
}

func newFakeRequests(weddings *fakeWeddings) *fakeRequests {
	return &fakeRequests{weddings: weddings, byID: make(map[uuid.UUID]*models.ClientRequest)}
}

func (f *fakeRequests) put(r *models.ClientRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *r
	f.byID[r.ID] = &c
}

func (f *fakeRequests) Intake(ctx context.Context, w *models.Wedding, r *models.ClientRequest) (*models.Wedding, *models.ClientRequest, error) {
	f.mu.Lock()
	if len(f.intakeErr) > 0 {
		err := f.intakeErr[0]
		f.intakeErr = f.intakeErr[1:]
		f.mu.Unlock()
		return nil, nil, err
	}
	f.mu.Unlock()

	if taken, _ := f.weddings.SlugTaken(ctx, w.Slug); taken {
		return nil, nil, store.ErrDuplicate
	}
	now := time.Now()
	wd := w.Clone()
	wd.ID = uuid.New()
	wd.Version = 1
	wd.CreatedAt, wd.UpdatedAt = now, now
	f.weddings.put(wd)

	req := *r
	req.ID = uuid.New()
	req.WeddingID = wd.ID
	req.Status = models.RequestStatusPending
	req.CreatedAt = now
	f.put(&req)
	return wd, &req, nil
}

func (f *fakeRequests) FindByID(_ context.Context, id uuid.UUID) (*models.ClientRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c := *r
	return &c, nil
}

func (f *fakeRequests) FindByCouple(_ context.Context, userID uuid.UUID) (*models.ClientRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.byID {
		if r.CoupleUserID != nil && *r.CoupleUserID == userID {
			c := *r
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeRequests) list(keep func(*models.ClientRequest) bool) []models.ClientRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ClientRequest
	for _, r := range f.byID {
		if keep(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (f *fakeRequests) ListPending(context.Context) ([]models.ClientRequest, error) {
	return f.list(func(r *models.ClientRequest) bool { return r.IsPending() }), nil
}

func (f *fakeRequests) ListByPartner(_ context.Context, partnerID uuid.UUID) ([]models.ClientRequest, error) {
	return f.list(func(r *models.ClientRequest) bool { return r.PartnerID == partnerID }), nil
}

func (f *fakeRequests) Approve(_ context.Context, id uuid.UUID, account *models.User) (*models.ClientRequest, *models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok || !r.IsPending() {
		return nil, nil, store.ErrNotFound
	}
	u := *account
	u.ID = uuid.New()
	u.Role = models.RoleCouple
	f.accounts = append(f.accounts, &u)

	now := time.Now()
	r.Status = models.RequestStatusApproved
	r.CoupleUserID = &u.ID
	r.DecidedAt = &now
	c := *r
	return &c, &u, nil
}

func (f *fakeRequests) Reject(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok || !r.IsPending() {
		return store.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeUsers is an in-memory account store.
type fakeUsers struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{byID: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		c := *u
		f.byID[u.ID] = &c
	}
	return f
}

func (f *fakeUsers) ListByRole(role models.Role) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.byID {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (f *fakeUsers) FindByID(id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) Create(email, _, displayName string, phone *string, role models.Role) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return nil, store.ErrDuplicate
		}
	}
	u := &models.User{
		ID:          uuid.New(),
		Email:       email,
		DisplayName: displayName,
		Phone:       phone,
		Role:        role,
	}
	f.byID[u.ID] = u
	c := *u
	return &c, nil
}

func (f *fakeUsers) SetDisabled(id uuid.UUID, disabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		u.Disabled = disabled
	}
	return nil
}

// fakeCards is an in-memory card catalog.
type fakeCards struct {
	mu    sync.Mutex
	cards []models.InvitationCard
	calls int
}

func (f *fakeCards) List(activeOnly bool) ([]models.InvitationCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	var out []models.InvitationCard
	for _, c := range f.cards {
		if !activeOnly || c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCards) FindByID(id uuid.UUID) (*models.InvitationCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.cards {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCards) Create(c *models.InvitationCard) (*models.InvitationCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	created := *c
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	f.cards = append(f.cards, created)
	return &created, nil
}

func (f *fakeCards) Update(c *models.InvitationCard) (*models.InvitationCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cards {
		if f.cards[i].ID == c.ID {
			created := f.cards[i].CreatedAt
			f.cards[i] = *c
			f.cards[i].CreatedAt = created
			updated := f.cards[i]
			return &updated, nil
		}
	}
	return nil, nil
}

func (f *fakeCards) Delete(id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cards {
		if f.cards[i].ID == id {
			f.cards = append(f.cards[:i], f.cards[i+1:]...)
			break
		}
	}
	return nil
}

// fakePages records page cache traffic.
type fakePages struct {
	mu          sync.Mutex
	pages       map[string][]byte
	invalidated []string
}

func newFakePages() *fakePages {
	return &fakePages{pages: make(map[string][]byte)}
}

func (f *fakePages) Get(_ context.Context, key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.pages[key]
	return b, ok
}

func (f *fakePages) Set(_ context.Context, key string, html []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[key] = html
}

func (f *fakePages) Invalidate(_ context.Context, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pages, key)
	f.invalidated = append(f.invalidated, key)
}

// fakeRevoker counts revoked sessions per user.
type fakeRevoker struct {
	mu      sync.Mutex
	revoked []uuid.UUID
}

func (f *fakeRevoker) DestroyUser(_ context.Context, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = append(f.revoked, userID)
	return 1, nil
}

// fakeObjects is an in-memory object store.
type fakeObjects struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
	deleted   []string
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: make(map[string][]byte)}
}

func (f *fakeObjects) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = b
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeObjects) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

// fakeMedia is an in-memory media repository.
type fakeMedia struct {
	mu        sync.Mutex
	items     []models.Media
	createErr error
}

func (f *fakeMedia) Create(m *models.Media) (*models.Media, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	created := *m
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	f.items = append(f.items, created)
	return &created, nil
}

func (f *fakeMedia) ListByOwner(ownerID uuid.UUID, limit, offset int) ([]models.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Media
	for _, m := range f.items {
		if m.OwnerID == ownerID {
			out = append(out, m)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeMedia) Delete(id, ownerID uuid.UUID) (*models.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.items {
		if m.ID == id && m.OwnerID == ownerID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return &m, nil
		}
	}
	return nil, nil
}
