package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ItemType identifies the kind of answer a template item expects.
type ItemType string

// Closed set of template item types.
const (
	ItemCheckbox     ItemType = "checkbox"
	ItemText         ItemType = "text"
	ItemTextarea     ItemType = "textarea"
	ItemDate         ItemType = "date"
	ItemNumber       ItemType = "number"
	ItemURL          ItemType = "url"
	ItemSelect       ItemType = "select"
	ItemObservations ItemType = "observations"
)

// legacyObservationsType is how older saves spelled the observations type.
const legacyObservationsType = "observacoes"

// Reserved identity of the observations item. Every template that carries an
// observations item uses exactly this id and prompt.
const (
	ObservationsItemID   = "system_notes_timestamp"
	ObservationsItemText = "Observations"
)

// ItemTypes lists every valid item type in editor order.
var ItemTypes = []ItemType{
	ItemCheckbox,
	ItemText,
	ItemTextarea,
	ItemDate,
	ItemNumber,
	ItemURL,
	ItemSelect,
	ItemObservations,
}

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	for _, known := range ItemTypes {
		if t == known {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts the legacy spelling of the observations type.
func (t *ItemType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == legacyObservationsType {
		s = string(ItemObservations)
	}
	*t = ItemType(s)
	return nil
}

// TemplateItem is a single prompt within a template checklist.
type TemplateItem struct {
	ID         string   `json:"id" yaml:"id"`
	Text       string   `json:"text" yaml:"text"`
	Type       ItemType `json:"type" yaml:"type"`
	IsRequired bool     `json:"isRequired" yaml:"required"`
	Options    []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// Template is a named, ordered checklist schema applied to clients.
// ID is the registry key and is not part of the persisted object.
type Template struct {
	ID        string         `json:"-" yaml:"-"`
	Name      string         `json:"name" yaml:"name"`
	Items     []TemplateItem `json:"items" yaml:"items"`
	IsDefault bool           `json:"isDefault" yaml:"-"`
}

// Item returns the item with the given id.
func (t *Template) Item(id string) (TemplateItem, bool) {
	for _, item := range t.Items {
		if item.ID == id {
			return item, true
		}
	}
	return TemplateItem{}, false
}

// RequiredItems returns the required items in template order.
func (t *Template) RequiredItems() []TemplateItem {
	var required []TemplateItem
	for _, item := range t.Items {
		if item.IsRequired {
			required = append(required, item)
		}
	}
	return required
}

// Clone returns a deep copy of the template.
func (t Template) Clone() Template {
	items := make([]TemplateItem, len(t.Items))
	for i, item := range t.Items {
		if item.Options != nil {
			item.Options = append([]string(nil), item.Options...)
		}
		items[i] = item
	}
	t.Items = items
	return t
}

// NormalizeItems enforces the item invariants of a template: at least one
// item, known types, unique ids, non-empty prompts, and at most one
// observations item bound to the reserved id and prompt. newID is called for
// items that arrive without an id.
func NormalizeItems(items []TemplateItem, newID func() string) ([]TemplateItem, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: a template needs at least one item", ErrInvalidTemplate)
	}

	out := make([]TemplateItem, 0, len(items))
	seen := make(map[string]bool, len(items))
	hasObservations := false

	for i, item := range items {
		if !item.Type.Valid() {
			return nil, fmt.Errorf("%w: item %d has unknown type %q", ErrInvalidTemplate, i+1, item.Type)
		}

		if item.Type == ItemObservations {
			if hasObservations {
				return nil, fmt.Errorf("%w: only one observations item is allowed", ErrInvalidTemplate)
			}
			hasObservations = true
			item.ID = ObservationsItemID
			item.Text = ObservationsItemText
		}

		item.Text = strings.TrimSpace(item.Text)
		if item.Text == "" {
			return nil, fmt.Errorf("%w: item %d has no text", ErrInvalidTemplate, i+1)
		}

		if item.ID == "" {
			item.ID = newID()
		}
		if item.ID == ObservationsItemID && item.Type != ItemObservations {
			return nil, fmt.Errorf("%w: item id %q is reserved", ErrInvalidTemplate, ObservationsItemID)
		}
		if seen[item.ID] {
			return nil, fmt.Errorf("%w: duplicate item id %q", ErrInvalidTemplate, item.ID)
		}
		seen[item.ID] = true

		if item.Type == ItemSelect {
			item.Options = cleanOptions(item.Options)
		} else {
			item.Options = nil
		}

		out = append(out, item)
	}

	return out, nil
}

// ParseOptions splits a comma separated option list, trimming blanks.
func ParseOptions(s string) []string {
	return cleanOptions(strings.Split(s, ","))
}

func cleanOptions(opts []string) []string {
	var out []string
	for _, o := range opts {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
