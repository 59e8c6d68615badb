// Package registry holds the set of checklist templates keyed by id.
package registry

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/nhle/clientdeck/internal/model"
)

// ReferenceCounter reports how many clients point at a template.
type ReferenceCounter interface {
	CountByTemplate(templateID string) int
}

// Registry is the in-memory template collection. List order is insertion
// order, which is stable for the lifetime of the registry.
type Registry struct {
	templates map[string]*model.Template
	order     []string

	newTemplateID func() string
	newItemID     func() string
}

// Option customises a Registry.
type Option func(*Registry)

// WithIDGenerators overrides how template and item ids are minted.
func WithIDGenerators(templateID, itemID func() string) Option {
	return func(r *Registry) {
		r.newTemplateID = templateID
		r.newItemID = itemID
	}
}

// New returns a registry seeded with templates, in the given order.
func New(templates []model.Template, opts ...Option) *Registry {
	r := &Registry{
		newTemplateID: func() string { return "custom-" + uuid.NewString() },
		newItemID:     func() string { return "item-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(r)
	}
	r.Replace(templates)
	return r
}

// Replace discards the current contents and loads templates in order.
func (r *Registry) Replace(templates []model.Template) {
	r.templates = make(map[string]*model.Template, len(templates))
	r.order = make([]string, 0, len(templates))
	for _, t := range templates {
		t = t.Clone()
		if _, exists := r.templates[t.ID]; !exists {
			r.order = append(r.order, t.ID)
		}
		r.templates[t.ID] = &t
	}
}

// Create stores a new non-default template under a fresh id.
func (r *Registry) Create(name string, items []model.TemplateItem) (model.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Template{}, fmt.Errorf("%w: name must not be empty", model.ErrInvalidTemplate)
	}
	normalized, err := model.NormalizeItems(items, r.newItemID)
	if err != nil {
		return model.Template{}, err
	}

	id := r.newTemplateID()
	for r.templates[id] != nil {
		id = r.newTemplateID()
	}

	t := &model.Template{ID: id, Name: name, Items: normalized}
	r.templates[id] = t
	r.order = append(r.order, id)
	return t.Clone(), nil
}

// Update replaces the name and items of an existing template, keeping its
// default flag.
func (r *Registry) Update(id, name string, items []model.TemplateItem) (model.Template, error) {
	existing, ok := r.templates[id]
	if !ok {
		return model.Template{}, &model.NotFoundError{Kind: "template", ID: id}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Template{}, fmt.Errorf("%w: name must not be empty", model.ErrInvalidTemplate)
	}
	normalized, err := model.NormalizeItems(items, r.newItemID)
	if err != nil {
		return model.Template{}, err
	}

	updated := &model.Template{ID: id, Name: name, Items: normalized, IsDefault: existing.IsDefault}
	r.templates[id] = updated
	return updated.Clone(), nil
}

// Delete removes a template that no client references and that is not a
// built-in default.
func (r *Registry) Delete(id string, refs ReferenceCounter) error {
	t, ok := r.templates[id]
	if !ok {
		return &model.NotFoundError{Kind: "template", ID: id}
	}
	if n := refs.CountByTemplate(id); n > 0 {
		return &model.InUseError{TemplateID: id, Count: n}
	}
	if t.IsDefault {
		return fmt.Errorf("%w: %s is a built-in template", model.ErrProtected, t.Name)
	}

	delete(r.templates, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
	return nil
}

// Get returns a copy of the template with the given id.
func (r *Registry) Get(id string) (*model.Template, bool) {
	t, ok := r.templates[id]
	if !ok {
		return nil, false
	}
	c := t.Clone()
	return &c, true
}

// List returns copies of all templates in registry order.
func (r *Registry) List() []model.Template {
	out := make([]model.Template, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.templates[id].Clone())
	}
	return out
}

// Len returns the number of templates.
func (r *Registry) Len() int {
	return len(r.order)
}
