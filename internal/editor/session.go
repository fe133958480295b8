// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editor implements the partner-side wedding website editor: a
// session that stages edits over the committed document, previews template
// swaps, and writes everything through one guarded save path.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"wedsite/internal/models"
	"wedsite/internal/store"
)

// DefaultSaveTimeout bounds a single write to the document store.
const DefaultSaveTimeout = 15 * time.Second

// DocumentStore is the persistence service the editor reads from and
// writes to. Update must reject a document whose Version is stale.
type DocumentStore interface {
	Fetch(ctx context.Context, id uuid.UUID) (*models.Wedding, error)
	Update(ctx context.Context, w *models.Wedding) (*models.Wedding, error)
}

// Options configures a Session.
type Options struct {
	OwnerID     uuid.UUID
	SaveTimeout time.Duration
	// Notifier receives every notification in addition to the session's
	// own queue.
	Notifier Notifier
	// OnSaved is called with the fresh record after every successful write.
	OnSaved func(w *models.Wedding)
}

// Session is one user's editing session on one wedding document. All
// methods are safe for concurrent use; at most one write is in flight.
type Session struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	store       DocumentStore
	queue       *Queue
	notifier    Notifier
	saveTimeout time.Duration
	onSaved     func(w *models.Wedding)

	mu        sync.Mutex
	committed *models.Wedding
	overlay   *Overlay
	selected  models.TemplateKey
	saving    bool
	touched   time.Time
}

// Open loads the committed document and starts a session with an empty
// overlay and the committed template selected.
func Open(ctx context.Context, ds DocumentStore, weddingID uuid.UUID, opts Options) (*Session, error) {
	w, err := ds.Fetch(ctx, weddingID)
	if err != nil {
		return nil, fmt.Errorf("open editor: %w", err)
	}

	timeout := opts.SaveTimeout
	if timeout <= 0 {
		timeout = DefaultSaveTimeout
	}

	s := &Session{
		id:          uuid.New(),
		ownerID:     opts.OwnerID,
		store:       ds,
		queue:       NewQueue(0),
		saveTimeout: timeout,
		onSaved:     opts.OnSaved,
		committed:   w,
		overlay:     NewOverlay(),
		selected:    w.Document.Template(),
		touched:     time.Now(),
	}
	s.notifier = multiNotifier{s.queue, opts.Notifier}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// OwnerID returns the user the session belongs to.
func (s *Session) OwnerID() uuid.UUID { return s.ownerID }

// Notifications drains the session's pending notifications.
func (s *Session) Notifications() []Notification {
	return s.queue.Drain()
}

func (s *Session) weddingID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed.ID
}

// Committed returns a copy of the last committed record.
func (s *Session) Committed() *models.Wedding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed.Clone()
}

// RecordChange stages value under section.field without writing. For list
// and scalar sections field is ignored and value replaces the whole section.
func (s *Session) RecordChange(section, field string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	return s.overlay.Stage(section, field, value)
}

// Value returns the effective value of section.field: staged if present,
// committed otherwise.
func (s *Session) Value(section, field string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return EffectiveValue(&s.committed.Document, s.overlay, section, field)
}

// Effective returns the document as it would look after saving, together
// with the selected (possibly previewed) template. Used for live preview.
func (s *Session) Effective() (*models.WeddingDocument, models.TemplateKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := BuildSavePayload(&s.committed.Document, s.overlay)
	if err != nil {
		return nil, "", err
	}
	return doc, s.selected, nil
}

// FastCommit stages value and immediately writes a payload carrying only
// that section. Other staged sections stay staged.
func (s *Session) FastCommit(ctx context.Context, section, field string, value any) error {
	if err := s.RecordChange(section, field, value); err != nil {
		return err
	}
	_, err := s.commit(ctx, commitRequest{
		sections:  []models.Section{models.Section(section)},
		okTitle:   "Saved",
		failTitle: "Could not save changes",
	})
	return err
}

// PreviewTemplate selects key for rendering without touching the
// committed template_id.
func (s *Session) PreviewTemplate(key string) error {
	k, err := models.ParseTemplateKey(key)
	if err != nil || key == "" {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	s.selected = k
	return nil
}

// CommitTemplate stages the selected template as template_id so the next
// save writes it. It does not write by itself.
func (s *Session) CommitTemplate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	return s.overlay.SetScalar(string(models.SectionTemplateID), string(s.selected))
}

// Selected returns the template currently rendered: the previewed one if
// any, otherwise the committed one.
func (s *Session) Selected() models.TemplateKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// CanSave reports whether a save would write anything: something is
// staged or the selected template differs from the committed one.
func (s *Session) CanSave() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canSaveLocked()
}

func (s *Session) canSaveLocked() bool {
	return !s.overlay.Empty() || s.selected != s.committed.Document.Template()
}

// Save writes every staged section plus the selected template as one
// update. It reports whether a write happened: with nothing to save it
// returns (false, nil). On failure the staged edits are kept.
func (s *Session) Save(ctx context.Context) (bool, error) {
	return s.commit(ctx, commitRequest{
		all:       true,
		template:  true,
		okTitle:   "Changes saved",
		failTitle: "Could not save changes",
	})
}

// Reload refetches the committed document, keeping staged edits so they
// apply on top of the fresh version. Used after a conflict. It refuses to
// run while a save is in flight, since that save installs a fresh version
// itself.
func (s *Session) Reload(ctx context.Context) error {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return ErrSaveInProgress
	}
	id := s.committed.ID
	s.touched = time.Now()
	s.mu.Unlock()

	w, err := s.store.Fetch(ctx, id)
	if err != nil {
		return fmt.Errorf("reload document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A save that started and landed during the fetch is already newer.
	if w.Version < s.committed.Version {
		return nil
	}
	s.reconcileLocked(w, true)
	return nil
}

// Discard drops every staged edit and any template preview.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	s.overlay.Clear()
	s.selected = s.committed.Document.Template()
}

// LastActive returns when the session was last used.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// State is a point-in-time snapshot of the session for the portal.
type State struct {
	SessionID         uuid.UUID              `json:"session_id"`
	WeddingID         uuid.UUID              `json:"wedding_id"`
	Version           int                    `json:"version"`
	Committed         models.WeddingDocument `json:"committed"`
	Pending           map[string]any         `json:"pending"`
	SelectedTemplate  models.TemplateKey     `json:"selected_template"`
	CommittedTemplate models.TemplateKey     `json:"committed_template"`
	CanSave           bool                   `json:"can_save"`
	Saving            bool                   `json:"saving"`
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.committed.Clone()
	return State{
		SessionID:         s.id,
		WeddingID:         c.ID,
		Version:           c.Version,
		Committed:         c.Document,
		Pending:           s.overlay.Map(),
		SelectedTemplate:  s.selected,
		CommittedTemplate: c.Document.Template(),
		CanSave:           s.canSaveLocked(),
		Saving:            s.saving,
	}
}

// commitRequest describes one write through the save path.
type commitRequest struct {
	sections  []models.Section // staged sections to write when all is false
	all       bool             // write every staged section
	template  bool             // include the selected template
	okTitle   string
	failTitle string
}

type updateResult struct {
	w   *models.Wedding
	err error
}

// commit is the only code path that writes the document. It builds one
// payload under the lock, performs the write without holding it, and
// folds the result back in.
func (s *Session) commit(ctx context.Context, req commitRequest) (bool, error) {
	s.mu.Lock()
	s.touched = time.Now()
	if s.saving {
		s.mu.Unlock()
		s.notify(SeverityWarning, "Save already in progress", "Wait for the current save to finish.")
		return false, ErrSaveInProgress
	}

	sections := req.sections
	if req.all {
		sections = s.overlay.Sections()
	}
	staged := sections[:0:0]
	for _, sec := range sections {
		if s.overlay.Has(sec) {
			staged = append(staged, sec)
		}
	}
	withTemplate := req.template && s.selected != s.committed.Document.Template()
	if len(staged) == 0 && !withTemplate {
		s.mu.Unlock()
		return false, nil
	}

	doc, err := buildPayload(&s.committed.Document, s.overlay, staged)
	if err != nil {
		s.mu.Unlock()
		s.notify(SeverityError, req.failTitle, err.Error())
		return false, err
	}
	if withTemplate {
		doc.TemplateID = string(s.selected)
	}

	next := s.committed.Clone()
	next.Document = *doc
	revs := s.overlay.revisions(staged)
	s.saving = true
	s.mu.Unlock()

	saved, err := s.update(ctx, next)

	s.mu.Lock()
	s.saving = false
	if err != nil {
		s.mu.Unlock()
		slog.Warn("editor save failed",
			"session", s.id,
			"wedding", next.ID,
			"sections", len(staged),
			"error", err,
		)
		s.notify(SeverityError, req.failTitle, failureDescription(err))
		return false, err
	}

	s.overlay.release(revs)
	s.reconcileLocked(saved, req.template)
	onSaved := s.onSaved
	s.mu.Unlock()

	slog.Info("wedding saved", "session", s.id, "wedding", saved.ID, "version", saved.Version)
	s.notify(SeveritySuccess, req.okTitle, "")
	if onSaved != nil {
		onSaved(saved.Clone())
	}
	return true, nil
}

// update performs the store write bounded by the save timeout. If the
// store ignores cancellation, the session stops waiting anyway; a late
// write then surfaces as a version conflict on the next save. Only the
// session's own timer yields ErrSaveTimeout; a deadline or cancellation
// inherited from ctx is returned as is.
func (s *Session) update(ctx context.Context, next *models.Wedding) (*models.Wedding, error) {
	timedOut := fmt.Errorf("%w after %s", ErrSaveTimeout, s.saveTimeout)
	ctx, cancel := context.WithTimeoutCause(ctx, s.saveTimeout, timedOut)
	defer cancel()

	done := make(chan updateResult, 1)
	go func() {
		w, err := s.store.Update(ctx, next)
		done <- updateResult{w: w, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil && ctx.Err() != nil {
			return nil, context.Cause(ctx)
		}
		return r.w, r.err
	case <-ctx.Done():
		return nil, context.Cause(ctx)
	}
}

// reconcileLocked installs a fresh committed record. The selected
// template follows the committed one whenever it changed underneath the
// session or the caller asks for it explicitly.
func (s *Session) reconcileLocked(w *models.Wedding, force bool) {
	prev := s.committed.Document.Template()
	s.committed = w
	if force || w.Document.Template() != prev {
		s.selected = w.Document.Template()
	}
}

func (s *Session) notify(sev Severity, title, description string) {
	s.notifier.Notify(Notification{
		Title:       title,
		Description: description,
		Severity:    sev,
		At:          time.Now(),
	})
}

// failureDescription turns a persistence error into user-facing text.
// Every failure is retryable by saving again.
func failureDescription(err error) string {
	switch {
	case errors.Is(err, store.ErrConflict):
		return "The website was changed elsewhere. Reload to apply your staged changes on the latest version."
	case errors.Is(err, ErrSaveTimeout):
		return "The server took too long to answer. Your changes are still staged; try saving again."
	default:
		return "Your changes are still staged; try saving again."
	}
}
