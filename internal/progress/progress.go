// Package progress scores a client's answers against its template.
//
// Only required items count. A checkbox item is complete when its answer is
// a boolean true; any other item is complete when its answer, as text, is
// not blank.
package progress

import "github.com/nhle/clientdeck/internal/model"

// OrphanPolicy decides how validation treats a client whose template no
// longer resolves.
type OrphanPolicy int

const (
	// FailOpen reports an orphaned client as valid with nothing missing.
	FailOpen OrphanPolicy = iota
	// FailClosed reports an orphaned client as invalid.
	FailClosed
)

// DefaultOrphanPolicy is the policy applied by ValidateRequiredFields.
const DefaultOrphanPolicy = FailOpen

// Validation is the outcome of a required-field check.
type Validation struct {
	Valid   bool
	Missing []string
}

// Err returns a *model.ValidationError when v is not valid.
func (v Validation) Err() error {
	if v.Valid {
		return nil
	}
	return &model.ValidationError{Missing: v.Missing}
}

// ItemComplete reports whether item counts as answered for c.
func ItemComplete(c model.Client, item model.TemplateItem) bool {
	r, ok := c.Response(item.ID)
	if !ok {
		return false
	}
	if item.Type == model.ItemCheckbox {
		return r.Checked()
	}
	return !r.Empty()
}

// Calculate returns the rounded percentage of required items of t that c
// has completed. A template without required items scores 100; a missing
// template scores 0.
func Calculate(c model.Client, t *model.Template) int {
	if t == nil {
		return 0
	}

	required := t.RequiredItems()
	if len(required) == 0 {
		return 100
	}

	done := 0
	for _, item := range required {
		if ItemComplete(c, item) {
			done++
		}
	}

	// round(100*done/n), half up, in integer arithmetic
	n := len(required)
	return (200*done + n) / (2 * n)
}

// ValidateRequiredFields lists every incomplete required item of t, in
// template order, using DefaultOrphanPolicy when t is nil.
func ValidateRequiredFields(c model.Client, t *model.Template) Validation {
	return ValidateWithPolicy(c, t, DefaultOrphanPolicy)
}

// ValidateWithPolicy is ValidateRequiredFields with an explicit policy for
// orphaned clients.
func ValidateWithPolicy(c model.Client, t *model.Template, policy OrphanPolicy) Validation {
	if t == nil {
		return Validation{Valid: policy == FailOpen, Missing: []string{}}
	}

	missing := []string{}
	for _, item := range t.RequiredItems() {
		if !ItemComplete(c, item) {
			missing = append(missing, item.Text)
		}
	}
	return Validation{Valid: len(missing) == 0, Missing: missing}
}
