// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"embed"
	"fmt"
	"html/template"

	"wedsite/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// factory compiles one site template.
type factory func() (*template.Template, error)

// Info describes a registered template for listings and the editor sidebar.
type Info struct {
	Key         models.TemplateKey `json:"key"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
}

type registration struct {
	info    Info
	compile factory
}

// registry maps every template key to its compiled layout. It must hold
// exactly the keys in models.TemplateKeys.
var registry = map[models.TemplateKey]registration{
	models.TemplateModel1: {
		info:    Info{Key: models.TemplateModel1, Name: "Classic", Description: "Full-width hero with the couple's portrait, sections in reading order."},
		compile: layout("model_1.html"),
	},
	models.TemplateModel2: {
		info:    Info{Key: models.TemplateModel2, Name: "Split", Description: "Names beside the portrait, event details first."},
		compile: layout("model_2.html"),
	},
	models.TemplateModel3: {
		info:    Info{Key: models.TemplateModel3, Name: "Minimal", Description: "Typographic header with in-page navigation."},
		compile: layout("model_3.html"),
	},
	models.TemplateModel4: {
		info:    Info{Key: models.TemplateModel4, Name: "Timeline", Description: "Invitation card header followed by the day's schedule."},
		compile: layout("model_4.html"),
	},
}

// eventView pairs an event with its heading for the shared "event" partial.
type eventView struct {
	Label string
	Event models.Event
}

var funcs = template.FuncMap{
	"event": func(label string, e models.Event) eventView {
		return eventView{Label: label, Event: e}
	},
}

// layout returns a factory parsing the shared partials plus one page file.
func layout(file string) factory {
	return func() (*template.Template, error) {
		t, err := template.New(file).Funcs(funcs).ParseFS(templateFS, "templates/partials.html", "templates/"+file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		return t, nil
	}
}

// fallback is rendered whenever a key has no registered template.
var fallback = template.Must(template.ParseFS(templateFS, "templates/fallback.html"))

// Templates lists the registered templates in display order.
func Templates() []Info {
	out := make([]Info, 0, len(models.TemplateKeys))
	for _, k := range models.TemplateKeys {
		if r, ok := registry[k]; ok {
			out = append(out, r.info)
		}
	}
	return out
}
