// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine renders wedding websites. Each template key maps to an
// embedded Go html/template layout that is compiled on first use and
// cached; unknown keys render a placeholder page instead of failing.
package engine

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"wedsite/internal/markdown"
	"wedsite/internal/models"
)

// GalleryView is one gallery image as templates see it.
type GalleryView struct {
	URL     string
	Caption string
}

// SiteData holds everything a layout can reference. Disabled sections are
// nil so layouts drop them with a plain {{with}}.
type SiteData struct {
	Title        string
	TemplateName string
	Preview      bool
	Couple       models.Couple
	Story        *models.Story
	StoryHTML    template.HTML
	Details      *models.WeddingDetails
	Schedule     []models.ScheduleItem
	Gallery      []GalleryView
	MoreInfo     *models.MoreInfo
	MoreInfoHTML template.HTML
	Contact      *models.Contact
	Jeweller     *models.Jeweller
	ColorScheme  string
	FontFamily   string
	Year         int
}

// Template is a resolved, compiled layout.
type Template struct {
	Info
	tmpl *template.Template
}

// Engine resolves template keys and renders documents with them.
type Engine struct {
	cache *templateCache
}

// New creates an engine with an empty compile cache.
func New() *Engine {
	return &Engine{cache: newTemplateCache()}
}

// Resolve returns the compiled template for key. ok is false for keys
// outside the registry; a template that fails to compile is reported as
// an error.
func (e *Engine) Resolve(key models.TemplateKey) (tmpl *Template, ok bool, err error) {
	reg, ok := registry[key]
	if !ok {
		return nil, false, nil
	}

	compiled := e.cache.get(key)
	if compiled == nil {
		compiled, err = reg.compile()
		if err != nil {
			return nil, true, err
		}
		e.cache.put(key, compiled)
	}
	return &Template{Info: reg.info, tmpl: compiled}, true, nil
}

// RenderOptions tweaks a single render.
type RenderOptions struct {
	// Preview marks the page as an unsaved editor preview.
	Preview bool
}

// Render renders doc with the template named by key. An unknown key
// renders the placeholder page.
func (e *Engine) Render(doc *models.WeddingDocument, key models.TemplateKey, opts RenderOptions) ([]byte, error) {
	data := BuildSiteData(doc)
	data.Preview = opts.Preview

	tmpl, ok, err := e.Resolve(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		slog.Warn("unknown template, rendering placeholder", "template", key)
		var buf bytes.Buffer
		if err := fallback.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("execute fallback: %w", err)
		}
		return buf.Bytes(), nil
	}

	data.TemplateName = tmpl.Name
	var buf bytes.Buffer
	if err := tmpl.tmpl.ExecuteTemplate(&buf, "page", data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", key, err)
	}
	return buf.Bytes(), nil
}

// BuildSiteData projects a document into template data, skipping
// disabled sections and rendering narrative Markdown.
func BuildSiteData(doc *models.WeddingDocument) SiteData {
	d := SiteData{
		Title:       siteTitle(doc.Couple),
		Couple:      doc.Couple,
		Schedule:    doc.Schedule,
		ColorScheme: doc.ColorScheme,
		FontFamily:  doc.FontFamily,
		Year:        time.Now().Year(),
	}
	if d.FontFamily == "" {
		d.FontFamily = "serif"
	}

	if !doc.Story.Disabled {
		story := doc.Story
		d.Story = &story
		d.StoryHTML = markdown.Render(story.Content)
	}
	if !doc.WeddingDetails.Disabled {
		details := doc.WeddingDetails
		d.Details = &details
	}
	if !doc.MoreInfo.Disabled {
		more := doc.MoreInfo
		d.MoreInfo = &more
		d.MoreInfoHTML = markdown.Render(more.Content)
	}
	if !doc.Contact.Disabled {
		contact := doc.Contact
		d.Contact = &contact
	}
	if !doc.Jeweller.Disabled {
		jeweller := doc.Jeweller
		d.Jeweller = &jeweller
	}

	for _, img := range doc.Gallery {
		v := GalleryView{URL: img.URL}
		if img.Caption != nil {
			v.Caption = *img.Caption
		}
		d.Gallery = append(d.Gallery, v)
	}
	return d
}

func siteTitle(c models.Couple) string {
	w := models.Wedding{Document: models.WeddingDocument{Couple: c}}
	if name := w.DisplayName(); name != "" {
		return name
	}
	return "Our wedding"
}
