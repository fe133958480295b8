// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// overlay.go implements the pending-change overlay: a sparse patch of
// staged edits keyed by section, consulted before the committed document
// and folded into it on save.
package editor

import (
	"encoding/json"
	"fmt"
	"sort"

	"wedsite/internal/models"
)

// entry is the staged state of one section. rev increases on every write
// so a save can tell whether the section changed while it was in flight.
type entry struct {
	kind  sectionKind
	value any // map[string]any for groups, []any for lists, string for scalars
	rev   uint64
}

// Overlay holds the staged, uncommitted edits of one editing session.
// A section appears only after an edit to it. Overlay is not safe for
// concurrent use; Session serializes access.
type Overlay struct {
	entries map[models.Section]*entry
	seq     uint64
}

// NewOverlay returns an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{entries: make(map[models.Section]*entry)}
}

// Set stages value under section.field for a keyed-group section. A later
// Set of the same pair overwrites it.
func (o *Overlay) Set(section, field string, value any) error {
	s, spec, err := lookupSection(section)
	if err != nil {
		return err
	}
	if spec.kind != kindGroup {
		return invalidf(section, field, "section is not a keyed group")
	}
	if !spec.fields[field] {
		return invalidf(section, field, "unknown field")
	}
	v, err := normalize(value)
	if err != nil {
		return invalidf(section, field, "value is not serializable")
	}
	if err := checkField(s, spec, field, v); err != nil {
		return err
	}

	e := o.entries[s]
	if e == nil {
		e = &entry{kind: kindGroup, value: map[string]any{}}
		o.entries[s] = e
	}
	e.value.(map[string]any)[field] = v
	o.touch(e)
	return nil
}

// SetList stages the complete contents of a list section. The staged list
// replaces the committed one wholesale on save, so it must include every
// item that should survive.
func (o *Overlay) SetList(section string, items any) error {
	s, spec, err := lookupSection(section)
	if err != nil {
		return err
	}
	if spec.kind != kindList {
		return invalidf(section, "", "section is not a list")
	}
	v, err := normalize(items)
	if err != nil {
		return invalidf(section, "", "value is not serializable")
	}
	list, ok := v.([]any)
	if !ok {
		if v != nil {
			return invalidf(section, "", "value must be an array")
		}
		list = []any{}
	}
	if err := checkList(s, spec, list); err != nil {
		return err
	}

	e := o.entries[s]
	if e == nil {
		e = &entry{kind: kindList}
		o.entries[s] = e
	}
	e.value = list
	o.touch(e)
	return nil
}

// SetScalar stages a scalar section (colorScheme, fontFamily, template_id).
func (o *Overlay) SetScalar(section string, value any) error {
	s, spec, err := lookupSection(section)
	if err != nil {
		return err
	}
	if spec.kind != kindScalar {
		return invalidf(section, "", "section is not a scalar")
	}
	if err := checkScalar(s, value); err != nil {
		return err
	}

	e := o.entries[s]
	if e == nil {
		e = &entry{kind: kindScalar}
		o.entries[s] = e
	}
	e.value = value
	o.touch(e)
	return nil
}

// Stage dispatches to Set, SetList, or SetScalar according to the kind of
// section. field is ignored for list and scalar sections.
func (o *Overlay) Stage(section, field string, value any) error {
	_, spec, err := lookupSection(section)
	if err != nil {
		return err
	}
	switch spec.kind {
	case kindList:
		return o.SetList(section, value)
	case kindScalar:
		return o.SetScalar(section, value)
	default:
		return o.Set(section, field, value)
	}
}

func (o *Overlay) touch(e *entry) {
	o.seq++
	e.rev = o.seq
}

// Get returns the staged value for section.field. For list and scalar
// sections field must be empty and the whole staged value is returned.
func (o *Overlay) Get(section models.Section, field string) (any, bool) {
	e := o.entries[section]
	if e == nil {
		return nil, false
	}
	if e.kind != kindGroup {
		if field != "" {
			return nil, false
		}
		return e.value, true
	}
	v, ok := e.value.(map[string]any)[field]
	return v, ok
}

// Has reports whether the section has any staged edit.
func (o *Overlay) Has(section models.Section) bool {
	_, ok := o.entries[section]
	return ok
}

// Empty reports whether nothing is staged.
func (o *Overlay) Empty() bool {
	return len(o.entries) == 0
}

// Sections returns the staged section names in sorted order.
func (o *Overlay) Sections() []models.Section {
	out := make([]models.Section, 0, len(o.entries))
	for s := range o.entries {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clear discards every staged edit.
func (o *Overlay) Clear() {
	o.entries = make(map[models.Section]*entry)
}

// Map returns a copy of the staged edits in wire form, keyed by section.
func (o *Overlay) Map() map[string]any {
	out := make(map[string]any, len(o.entries))
	for s, e := range o.entries {
		out[string(s)] = copyValue(e.value)
	}
	return out
}

// revisions records the current revision of each listed section. A save
// passes the result back to release once the write has landed.
func (o *Overlay) revisions(sections []models.Section) map[models.Section]uint64 {
	revs := make(map[models.Section]uint64, len(sections))
	for _, s := range sections {
		if e := o.entries[s]; e != nil {
			revs[s] = e.rev
		}
	}
	return revs
}

// release drops the sections a save carried, except those edited again
// after the save read them.
func (o *Overlay) release(revs map[models.Section]uint64) {
	for s, rev := range revs {
		if e := o.entries[s]; e != nil && e.rev == rev {
			delete(o.entries, s)
		}
	}
}

// BuildSavePayload folds the staged sections into a copy of committed and
// returns the complete document to persist. List sections replace the
// committed array wholesale; group sections are shallow-merged key by key;
// scalar sections replace. Sections not staged are carried over unchanged.
func BuildSavePayload(committed *models.WeddingDocument, o *Overlay) (*models.WeddingDocument, error) {
	return buildPayload(committed, o, o.Sections())
}

func buildPayload(committed *models.WeddingDocument, o *Overlay, sections []models.Section) (*models.WeddingDocument, error) {
	base, err := documentMap(committed)
	if err != nil {
		return nil, err
	}

	for _, s := range sections {
		e := o.entries[s]
		if e == nil {
			continue
		}
		switch e.kind {
		case kindGroup:
			group, _ := base[string(s)].(map[string]any)
			if group == nil {
				group = map[string]any{}
			}
			for k, v := range e.value.(map[string]any) {
				group[k] = copyValue(v)
			}
			base[string(s)] = group
		default:
			base[string(s)] = copyValue(e.value)
		}
	}

	raw, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	var doc models.WeddingDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}
	return &doc, nil
}

// EffectiveValue resolves section.field the way every renderer must: the
// staged value when present, otherwise the committed one. For list and
// scalar sections field is ignored.
func EffectiveValue(committed *models.WeddingDocument, o *Overlay, section, field string) (any, error) {
	s, spec, err := lookupSection(section)
	if err != nil {
		return nil, err
	}
	if spec.kind != kindGroup {
		field = ""
	} else if !spec.fields[field] {
		return nil, invalidf(section, field, "unknown field")
	}

	if v, ok := o.Get(s, field); ok {
		return copyValue(v), nil
	}

	base, err := documentMap(committed)
	if err != nil {
		return nil, err
	}
	v := base[section]
	if field == "" {
		return v, nil
	}
	group, _ := v.(map[string]any)
	return group[field], nil
}

// documentMap converts a typed document into its generic wire form.
func documentMap(doc *models.WeddingDocument) (map[string]any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return m, nil
}

// copyValue deep-copies a generic JSON value so callers never alias the
// overlay's internal state.
func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = copyValue(val)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = copyValue(val)
		}
		return s
	default:
		return v
	}
}
