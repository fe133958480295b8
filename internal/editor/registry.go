// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"wedsite/internal/models"
)

// DefaultIdleTimeout is how long an untouched session is kept.
const DefaultIdleTimeout = 2 * time.Hour

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	SaveTimeout time.Duration
	IdleTimeout time.Duration
	// SweepInterval defaults to a quarter of IdleTimeout.
	SweepInterval time.Duration
	Notifier      Notifier
	OnSaved       func(w *models.Wedding)
}

// Registry holds the live editor sessions of this process. Sessions idle
// for longer than the idle timeout are dropped together with their staged
// edits.
type Registry struct {
	store DocumentStore
	cfg   RegistryConfig

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewRegistry creates a registry and starts its idle sweeper. Call Stop
// to release it.
func NewRegistry(ds DocumentStore, cfg RegistryConfig) *Registry {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = cfg.IdleTimeout / 4
	}
	r := &Registry{
		store:    ds,
		cfg:      cfg,
		sessions: make(map[uuid.UUID]*Session),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go r.sweepLoop()
	return r
}

// Open returns the owner's session on the wedding, creating one if none
// is live. Concurrent opens by the same owner share one session.
func (r *Registry) Open(ctx context.Context, weddingID, ownerID uuid.UUID) (*Session, error) {
	r.mu.Lock()
	existing := r.findLocked(weddingID, ownerID)
	r.mu.Unlock()
	if existing != nil {
		return existing, nil
	}

	s, err := Open(ctx, r.store, weddingID, Options{
		OwnerID:     ownerID,
		SaveTimeout: r.cfg.SaveTimeout,
		Notifier:    r.cfg.Notifier,
		OnSaved:     r.cfg.OnSaved,
	})
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	// Another open may have won while the document was loading.
	if existing := r.findLocked(weddingID, ownerID); existing != nil {
		r.mu.Unlock()
		return existing, nil
	}
	r.sessions[s.id] = s
	r.mu.Unlock()
	slog.Info("editor session opened", "session", s.id, "wedding", weddingID, "owner", ownerID)
	return s, nil
}

func (r *Registry) findLocked(weddingID, ownerID uuid.UUID) *Session {
	for _, s := range r.sessions {
		if s.ownerID == ownerID && s.weddingID() == weddingID {
			return s
		}
	}
	return nil
}

// Get returns the session with the given id if it belongs to ownerID.
func (r *Registry) Get(id, ownerID uuid.UUID) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.ownerID != ownerID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close drops a session and its staged edits.
func (r *Registry) Close(id, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.ownerID != ownerID {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle since before now minus the idle timeout and
// returns how many were dropped.
func (r *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.cfg.IdleTimeout)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.LastActive().Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Stop halts the sweeper. It is safe to call more than once.
func (r *Registry) Stop() {
	r.once.Do(func() { close(r.stop) })
	<-r.done
}

func (r *Registry) sweepLoop() {
	defer close(r.done)
	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case now := <-ticker.C:
			if n := r.Sweep(now); n > 0 {
				slog.Info("expired editor sessions", "count", n)
			}
		}
	}
}
