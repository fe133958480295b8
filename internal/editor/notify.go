// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Severity classifies a user-facing notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is one toast shown to the editing user.
type Notification struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Severity    Severity  `json:"severity"`
	At          time.Time `json:"at"`
}

// Notifier is a fire-and-forget sink for notifications.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(n Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) { f(n) }

// defaultQueueSize bounds how many undrained notifications a queue keeps.
const defaultQueueSize = 50

// Queue buffers notifications until the portal drains them. When full,
// the oldest entry is dropped.
type Queue struct {
	mu    sync.Mutex
	items []Notification
	max   int
}

// NewQueue creates a queue holding at most max notifications (0 = default).
func NewQueue(max int) *Queue {
	if max <= 0 {
		max = defaultQueueSize
	}
	return &Queue{max: max}
}

// Notify appends n, dropping the oldest entry when the queue is full.
func (q *Queue) Notify(n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == q.max {
		q.items = q.items[1:]
	}
	q.items = append(q.items, n)
}

// Drain returns all queued notifications in arrival order and empties
// the queue.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify logs n at a level matching its severity.
func (l LogNotifier) Notify(n Notification) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	switch n.Severity {
	case SeverityWarning:
		level = slog.LevelWarn
	case SeverityError:
		level = slog.LevelError
	}
	logger.Log(context.Background(), level, "editor notification",
		"title", n.Title,
		"description", n.Description,
		"severity", n.Severity,
	)
}

// multiNotifier fans one notification out to several sinks.
type multiNotifier []Notifier

func (m multiNotifier) Notify(n Notification) {
	for _, nf := range m {
		if nf != nil {
			nf.Notify(n)
		}
	}
}
