// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/mail"

	"wedsite/internal/models"
)

// sectionKind decides how a section's staged value folds into the
// committed document on save.
type sectionKind int

const (
	// kindGroup sections are keyed objects, shallow-merged field by field.
	kindGroup sectionKind = iota
	// kindList sections are arrays, replaced wholesale.
	kindList
	// kindScalar sections are single strings, replaced.
	kindScalar
)

type sectionSpec struct {
	kind   sectionKind
	fields map[string]bool // group fields, or list item fields (id excluded)
	probe  func() any      // zero value used to type-check staged values
}

func fieldSet(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

var schema = map[models.Section]sectionSpec{
	models.SectionCouple: {
		kind:   kindGroup,
		fields: fieldSet("brideName", "groomName", "weddingQuote", "image"),
		probe:  func() any { return &models.Couple{} },
	},
	models.SectionStory: {
		kind:   kindGroup,
		fields: fieldSet("title", "content", "image", "disabled"),
		probe:  func() any { return &models.Story{} },
	},
	models.SectionWeddingDetails: {
		kind:   kindGroup,
		fields: fieldSet("ceremony", "reception", "goodToKnow1", "goodToKnow2", "goodToKnow3", "disabled"),
		probe:  func() any { return &models.WeddingDetails{} },
	},
	models.SectionMoreInfo: {
		kind:   kindGroup,
		fields: fieldSet("title", "content", "disabled"),
		probe:  func() any { return &models.MoreInfo{} },
	},
	models.SectionContact: {
		kind:   kindGroup,
		fields: fieldSet("phone", "email", "address", "mapLink", "disabled"),
		probe:  func() any { return &models.Contact{} },
	},
	models.SectionJeweller: {
		kind:   kindGroup,
		fields: fieldSet("title", "description", "image", "link", "disabled"),
		probe:  func() any { return &models.Jeweller{} },
	},
	models.SectionSchedule: {
		kind:   kindList,
		fields: fieldSet("time", "event", "description"),
		probe:  func() any { return &[]models.ScheduleItem{} },
	},
	models.SectionGallery: {
		kind:   kindList,
		fields: fieldSet("url", "caption", "originalName"),
		probe:  func() any { return &[]models.GalleryImage{} },
	},
	models.SectionColorScheme: {kind: kindScalar, probe: func() any { return new(string) }},
	models.SectionFontFamily:  {kind: kindScalar, probe: func() any { return new(string) }},
	models.SectionTemplateID:  {kind: kindScalar, probe: func() any { return new(string) }},
}

// lookupSection resolves a raw section name against the schema.
func lookupSection(raw string) (models.Section, sectionSpec, error) {
	s := models.Section(raw)
	spec, ok := schema[s]
	if !ok {
		return "", sectionSpec{}, invalidf(raw, "", "unknown section")
	}
	return s, spec, nil
}

// normalize converts any JSON-representable value into the generic form
// produced by encoding/json (map[string]any, []any, string, float64, bool,
// nil), so overlay values and committed values compare and merge uniformly.
func normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// checkField type-checks one group field value by decoding it into the
// section's typed struct, then applies field-level rules.
func checkField(section models.Section, spec sectionSpec, field string, value any) error {
	raw, err := json.Marshal(map[string]any{field: value})
	if err != nil {
		return invalidf(string(section), field, "value is not serializable")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(spec.probe()); err != nil {
		return invalidf(string(section), field, "wrong value type")
	}

	if section == models.SectionContact && field == "email" {
		if s, _ := value.(string); s != "" {
			if _, err := mail.ParseAddress(s); err != nil {
				return invalidf(string(section), field, "malformed email address")
			}
		}
	}
	return nil
}

// checkList type-checks a whole list and enforces unique, non-empty ids.
func checkList(section models.Section, spec sectionSpec, items []any) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return invalidf(string(section), "", "value is not serializable")
	}
	if err := json.Unmarshal(raw, spec.probe()); err != nil {
		return invalidf(string(section), "", "wrong item type")
	}

	seen := make(map[string]bool, len(items))
	for _, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			return invalidf(string(section), "", "item is not an object")
		}
		id, _ := obj["id"].(string)
		if id == "" {
			return invalidf(string(section), "id", "item without id")
		}
		if seen[id] {
			return invalidf(string(section), "id", fmt.Sprintf("duplicate id %q", id))
		}
		seen[id] = true
	}
	return nil
}

// checkScalar type-checks a scalar section value.
func checkScalar(section models.Section, value any) error {
	s, ok := value.(string)
	if !ok {
		return invalidf(string(section), "", "value must be a string")
	}
	if section == models.SectionTemplateID {
		if _, err := models.ParseTemplateKey(s); err != nil {
			return fmt.Errorf("%w: %q", ErrUnknownTemplate, s)
		}
	}
	return nil
}
