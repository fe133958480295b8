// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// cache.go provides an in-memory cache for compiled site templates. Each
// template is parsed on first use and kept for the life of the process;
// the embedded sources cannot change at runtime.
package engine

import (
	"html/template"
	"log/slog"
	"sync"

	"wedsite/internal/models"
)

// templateCache is a concurrency-safe in-memory cache of compiled templates.
type templateCache struct {
	mu      sync.RWMutex
	entries map[models.TemplateKey]*template.Template
}

// newTemplateCache creates an empty template cache.
func newTemplateCache() *templateCache {
	return &templateCache{
		entries: make(map[models.TemplateKey]*template.Template),
	}
}

// get retrieves a compiled template from cache. Returns nil on miss.
func (c *templateCache) get(key models.TemplateKey) *template.Template {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[key]
}

// put stores a compiled template in the cache.
func (c *templateCache) put(key models.TemplateKey, tmpl *template.Template) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = tmpl
	slog.Debug("template cached", "key", key, "size", len(c.entries))
}

// len returns the number of compiled templates.
func (c *templateCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
