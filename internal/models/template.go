// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "fmt"

// TemplateKey names one of the wedding website layouts. The set of keys is
// closed: TemplateKeys is the only list of valid values, shared by the
// rendering engine, the editor, and the template listing endpoint.
type TemplateKey string

const (
	TemplateModel1 TemplateKey = "model_1"
	TemplateModel2 TemplateKey = "model_2"
	TemplateModel3 TemplateKey = "model_3"
	TemplateModel4 TemplateKey = "model_4"
)

// DefaultTemplateKey is used when a document has no template_id.
const DefaultTemplateKey = TemplateModel1

// TemplateKeys lists every valid template key in display order.
var TemplateKeys = []TemplateKey{
	TemplateModel1,
	TemplateModel2,
	TemplateModel3,
	TemplateModel4,
}

// ParseTemplateKey validates a raw key. An empty string yields the default.
func ParseTemplateKey(raw string) (TemplateKey, error) {
	if raw == "" {
		return DefaultTemplateKey, nil
	}
	for _, k := range TemplateKeys {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown template %q", raw)
}
