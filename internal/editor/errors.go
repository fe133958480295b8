// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"errors"
	"fmt"
)

var (
	// ErrSaveInProgress is returned when a save is requested while another
	// write for the same session is still in flight.
	ErrSaveInProgress = errors.New("save already in progress")

	// ErrSaveTimeout is returned when the store did not answer within the
	// session's save timeout. The staged changes are kept.
	ErrSaveTimeout = errors.New("save timed out")

	// ErrUnknownTemplate is returned for template keys outside the registry.
	ErrUnknownTemplate = errors.New("unknown template")

	// ErrItemNotFound is returned by list editors for an unknown item id.
	ErrItemNotFound = errors.New("item not found")

	// ErrSessionNotFound is returned by the registry for unknown, expired,
	// or foreign editor sessions.
	ErrSessionNotFound = errors.New("editor session not found")
)

// ValidationError reports a staged edit rejected before any network call.
type ValidationError struct {
	Section string
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid %s: %s", e.Section, e.Reason)
	}
	return fmt.Sprintf("invalid %s.%s: %s", e.Section, e.Field, e.Reason)
}

func invalidf(section, field, reason string) error {
	return &ValidationError{Section: section, Field: field, Reason: reason}
}
