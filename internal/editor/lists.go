// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wedsite/internal/models"
)

// AddItem appends item to a list section and commits that section. A fresh
// UUID is assigned when item has no id. Returns the id of the new item.
func (s *Session) AddItem(ctx context.Context, section string, item map[string]any) (string, error) {
	s.mu.Lock()
	list, spec, err := s.effectiveListLocked(section)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}

	next := make(map[string]any, len(item)+1)
	for k, v := range item {
		if k != "id" && !spec.fields[k] {
			s.mu.Unlock()
			return "", invalidf(section, k, "unknown field")
		}
		next[k] = v
	}
	id, _ := next["id"].(string)
	if id == "" {
		id = uuid.NewString()
		next["id"] = id
	}

	err = s.overlay.SetList(section, append(list, next))
	s.touched = time.Now()
	s.mu.Unlock()
	if err != nil {
		return "", err
	}

	_, err = s.commit(ctx, commitRequest{
		sections:  []models.Section{models.Section(section)},
		okTitle:   "Item added",
		failTitle: "Could not add item",
	})
	return id, err
}

// UpdateItem sets one field of the item with the given id and commits the
// list section.
func (s *Session) UpdateItem(ctx context.Context, section, id, field string, value any) error {
	s.mu.Lock()
	list, spec, err := s.effectiveListLocked(section)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !spec.fields[field] {
		s.mu.Unlock()
		return invalidf(section, field, "unknown field")
	}

	i := indexOf(list, id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s %q", ErrItemNotFound, section, id)
	}
	list[i].(map[string]any)[field] = value

	err = s.overlay.SetList(section, list)
	s.touched = time.Now()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	_, err = s.commit(ctx, commitRequest{
		sections:  []models.Section{models.Section(section)},
		okTitle:   "Item updated",
		failTitle: "Could not update item",
	})
	return err
}

// RemoveItem deletes the item with the given id and commits the list
// section. The user is notified of the outcome either way.
func (s *Session) RemoveItem(ctx context.Context, section, id string) error {
	s.mu.Lock()
	list, _, err := s.effectiveListLocked(section)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	i := indexOf(list, id)
	if i < 0 {
		s.mu.Unlock()
		s.notify(SeverityError, "Could not remove item", "The item no longer exists.")
		return fmt.Errorf("%w: %s %q", ErrItemNotFound, section, id)
	}
	list = append(list[:i], list[i+1:]...)

	err = s.overlay.SetList(section, list)
	s.touched = time.Now()
	s.mu.Unlock()
	if err != nil {
		s.notify(SeverityError, "Could not remove item", err.Error())
		return err
	}

	_, err = s.commit(ctx, commitRequest{
		sections:  []models.Section{models.Section(section)},
		okTitle:   "Item removed",
		failTitle: "Could not remove item",
	})
	return err
}

// effectiveListLocked returns a private copy of the effective contents of
// a list section. The caller holds s.mu.
func (s *Session) effectiveListLocked(section string) ([]any, sectionSpec, error) {
	_, spec, err := lookupSection(section)
	if err != nil {
		return nil, sectionSpec{}, err
	}
	if spec.kind != kindList {
		return nil, sectionSpec{}, invalidf(section, "", "section is not a list")
	}

	v, err := EffectiveValue(&s.committed.Document, s.overlay, section, "")
	if err != nil {
		return nil, sectionSpec{}, err
	}
	list, _ := copyValue(v).([]any)
	if list == nil {
		list = []any{}
	}
	return list, spec, nil
}

func indexOf(list []any, id string) int {
	for i, it := range list {
		if obj, ok := it.(map[string]any); ok && obj["id"] == id {
			return i
		}
	}
	return -1
}
