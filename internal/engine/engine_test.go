// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"html/template"
	"strings"
	"sync"
	"testing"

	"wedsite/internal/models"
)

func testDocument() *models.WeddingDocument {
	caption := "First dance"
	return &models.WeddingDocument{
		Couple: models.Couple{
			BrideName:    "Ana",
			GroomName:    "Radu",
			WeddingQuote: "Two souls, one heart",
		},
		Story: models.Story{Title: "How we met", Content: "At the **sea**, in 2019."},
		WeddingDetails: models.WeddingDetails{
			Ceremony:    models.Event{Date: "2026-06-01", Time: "16:00", Venue: "St. Nicholas"},
			Reception:   models.Event{Date: "2026-06-01", Time: "19:00", Venue: "Lake House"},
			GoodToKnow1: "Parking on site",
		},
		Schedule: []models.ScheduleItem{
			{ID: "s1", Time: "16:00", Event: "Ceremony"},
			{ID: "s2", Time: "19:00", Event: "Dinner", Description: "Lake House terrace"},
		},
		Gallery: []models.GalleryImage{
			{ID: "g1", URL: "https://cdn.example.com/1.jpg", Caption: &caption},
		},
		MoreInfo:    models.MoreInfo{Title: "Dress code", Content: "Summer *chic*."},
		Contact:     models.Contact{Phone: "+40 700 000 000", Email: "hello@example.com"},
		Jeweller:    models.Jeweller{Title: "Rings by Aurum", Link: "https://aurum.example.com"},
		ColorScheme: "rose",
		FontFamily:  "Georgia",
	}
}

// --------------------------------------------------------------------------
// Registry
// --------------------------------------------------------------------------

func TestRegistryCoversEveryTemplateKey(t *testing.T) {
	if len(registry) != len(models.TemplateKeys) {
		t.Fatalf("registry has %d entries, models.TemplateKeys has %d", len(registry), len(models.TemplateKeys))
	}
	for _, k := range models.TemplateKeys {
		reg, ok := registry[k]
		if !ok {
			t.Errorf("key %q missing from registry", k)
			continue
		}
		if reg.info.Key != k {
			t.Errorf("registry[%q].info.Key = %q", k, reg.info.Key)
		}
		if reg.info.Name == "" {
			t.Errorf("registry[%q] has no display name", k)
		}
	}
}

func TestEveryTemplateCompilesAndRenders(t *testing.T) {
	eng := New()
	doc := testDocument()
	for _, k := range models.TemplateKeys {
		t.Run(string(k), func(t *testing.T) {
			out, err := eng.Render(doc, k, RenderOptions{})
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			html := string(out)
			for _, want := range []string{"Ana", "Radu", "How we met", "<strong>sea</strong>", "Lake House", "First dance"} {
				if !strings.Contains(html, want) {
					t.Errorf("output missing %q", want)
				}
			}
			if !strings.Contains(html, "model-"+strings.TrimPrefix(string(k), "model_")) {
				t.Errorf("output does not carry the %s body class", k)
			}
		})
	}
}

func TestTemplatesListing(t *testing.T) {
	infos := Templates()
	if len(infos) != len(models.TemplateKeys) {
		t.Fatalf("Templates() returned %d entries, want %d", len(infos), len(models.TemplateKeys))
	}
	for i, k := range models.TemplateKeys {
		if infos[i].Key != k {
			t.Errorf("Templates()[%d].Key = %q, want %q", i, infos[i].Key, k)
		}
	}
}

// --------------------------------------------------------------------------
// Resolve and render
// --------------------------------------------------------------------------

func TestResolveUnknownKey(t *testing.T) {
	eng := New()
	tmpl, ok, err := eng.Resolve("model_9")
	if ok || tmpl != nil || err != nil {
		t.Errorf("Resolve(model_9) = %v, %v, %v; want nil, false, nil", tmpl, ok, err)
	}
}

func TestRenderUnknownKeyShowsPlaceholder(t *testing.T) {
	out, err := New().Render(testDocument(), "model_9", RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), "Loading") {
		t.Errorf("placeholder page expected, got %q", out)
	}
}

func TestResolveCompilesOnce(t *testing.T) {
	eng := New()
	if eng.cache.len() != 0 {
		t.Fatal("new engine should start with an empty cache")
	}

	a, ok, err := eng.Resolve(models.TemplateModel2)
	if !ok || err != nil {
		t.Fatalf("Resolve: %v, %v", ok, err)
	}
	b, _, _ := eng.Resolve(models.TemplateModel2)
	if a.tmpl != b.tmpl {
		t.Error("second Resolve recompiled the template")
	}
	if eng.cache.len() != 1 {
		t.Errorf("cache holds %d templates, want 1", eng.cache.len())
	}
}

func TestRenderOmitsDisabledSections(t *testing.T) {
	doc := testDocument()
	doc.Story.Disabled = true
	doc.Jeweller.Disabled = true
	doc.Contact.Disabled = true

	out, err := New().Render(doc, models.TemplateModel1, RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := string(out)
	for _, gone := range []string{`id="story"`, `id="jeweller"`, `id="contact"`, "How we met", "Rings by Aurum"} {
		if strings.Contains(html, gone) {
			t.Errorf("disabled content %q rendered", gone)
		}
	}
	if !strings.Contains(html, `id="details"`) {
		t.Error("enabled details section missing")
	}
}

func TestRenderPreviewBanner(t *testing.T) {
	eng := New()
	doc := testDocument()

	out, err := eng.Render(doc, models.TemplateModel3, RenderOptions{Preview: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), "Preview: Minimal") {
		t.Error("preview banner missing")
	}

	out, err = eng.Render(doc, models.TemplateModel3, RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(string(out), "preview-banner\">") {
		t.Error("preview banner rendered for a public page")
	}
}

func TestRenderEscapesUserContent(t *testing.T) {
	doc := testDocument()
	doc.Couple.BrideName = `<script>alert("x")</script>`
	doc.Story.Content = `<img src=x onerror=alert(1)>`

	out, err := New().Render(doc, models.TemplateModel1, RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := string(out)
	if strings.Contains(html, "<script>alert") {
		t.Error("couple name was not escaped")
	}
	if strings.Contains(html, "onerror") {
		t.Error("raw HTML in the story was not stripped")
	}
}

// --------------------------------------------------------------------------
// BuildSiteData
// --------------------------------------------------------------------------

func TestBuildSiteData(t *testing.T) {
	doc := testDocument()
	doc.MoreInfo.Disabled = true
	doc.FontFamily = ""

	d := BuildSiteData(doc)
	if d.Title != "Ana & Radu" {
		t.Errorf("Title = %q", d.Title)
	}
	if d.MoreInfo != nil || d.MoreInfoHTML != "" {
		t.Error("disabled moreInfo should be nil")
	}
	if d.Story == nil || !strings.Contains(string(d.StoryHTML), "<strong>sea</strong>") {
		t.Errorf("story = %v / %q", d.Story, d.StoryHTML)
	}
	if d.FontFamily != "serif" {
		t.Errorf("FontFamily = %q, want serif fallback", d.FontFamily)
	}
	if len(d.Gallery) != 1 || d.Gallery[0].Caption != "First dance" {
		t.Errorf("Gallery = %+v", d.Gallery)
	}
}

func TestBuildSiteDataUntitled(t *testing.T) {
	d := BuildSiteData(&models.WeddingDocument{})
	if d.Title != "Our wedding" {
		t.Errorf("Title = %q, want Our wedding", d.Title)
	}
}

// --------------------------------------------------------------------------
// templateCache
// --------------------------------------------------------------------------

func TestTemplateCacheOperations(t *testing.T) {
	t.Run("new cache is empty", func(t *testing.T) {
		c := newTemplateCache()
		if got := c.get(models.TemplateModel1); got != nil {
			t.Error("expected nil for empty cache lookup")
		}
	})

	t.Run("put overwrites same key", func(t *testing.T) {
		c := newTemplateCache()
		tmplOld := template.Must(template.New("old").Parse("<p>old</p>"))
		tmplNew := template.Must(template.New("new").Parse("<p>new</p>"))

		c.put(models.TemplateModel1, tmplOld)
		c.put(models.TemplateModel1, tmplNew)

		if got := c.get(models.TemplateModel1); got != tmplNew {
			t.Error("expected the newer template to overwrite the old one")
		}
		if got := c.get(models.TemplateModel2); got != nil {
			t.Error("expected nil for a different key")
		}
	})
}

func TestRenderConcurrent(t *testing.T) {
	eng := New()
	doc := testDocument()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := models.TemplateKeys[i%len(models.TemplateKeys)]
			if _, err := eng.Render(doc, key, RenderOptions{}); err != nil {
				t.Errorf("Render(%s): %v", key, err)
			}
		}(i)
	}
	wg.Wait()
}
