package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nhle/clientdeck/internal/model"
	"github.com/nhle/clientdeck/internal/store"
)

// ErrInjected is returned by a FlakyKV whose writes have been switched off.
var ErrInjected = errors.New("injected write failure")

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// FlakyKV wraps a KV and fails every write while FailWrites is set.
// Reads always pass through.
type FlakyKV struct {
	store.KV
	FailWrites bool
	Writes     int
}

// NewFlakyKV wraps a fresh in-memory test store.
func NewFlakyKV(t *testing.T) *FlakyKV {
	t.Helper()
	return &FlakyKV{KV: NewTestStore(t)}
}

func (f *FlakyKV) Set(ctx context.Context, key, value string) error {
	if f.FailWrites {
		return ErrInjected
	}
	f.Writes++
	return f.KV.Set(ctx, key, value)
}

func (f *FlakyKV) SetMany(ctx context.Context, entries map[string]string) error {
	if f.FailWrites {
		return ErrInjected
	}
	f.Writes++
	return f.KV.SetMany(ctx, entries)
}

// Close is a no-op; the wrapped store is closed by test cleanup.
func (f *FlakyKV) Close() error { return nil }

// Clock is a settable time source.
type Clock struct {
	T time.Time
}

// NewClock starts a clock at a fixed instant.
func NewClock() *Clock {
	return &Clock{T: time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)}
}

// Now returns the current reading.
func (c *Clock) Now() time.Time { return c.T }

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// ChecklistTemplate has two required checkboxes, one required text item,
// one optional select and an observations item.
func ChecklistTemplate() model.Template {
	return model.Template{
		ID:   "tpl-checklist",
		Name: "Checklist",
		Items: []model.TemplateItem{
			{ID: "signed", Text: "Contract signed?", Type: model.ItemCheckbox, IsRequired: true},
			{ID: "paid", Text: "First invoice paid?", Type: model.ItemCheckbox, IsRequired: true},
			{ID: "owner", Text: "Account owner", Type: model.ItemText, IsRequired: true},
			{ID: "plan", Text: "Plan", Type: model.ItemSelect, Options: []string{"basic", "pro"}},
			{ID: model.ObservationsItemID, Text: model.ObservationsItemText, Type: model.ItemObservations},
		},
	}
}

// OptionalTemplate has no required items.
func OptionalTemplate() model.Template {
	return model.Template{
		ID:   "tpl-optional",
		Name: "Optional",
		Items: []model.TemplateItem{
			{ID: "note", Text: "Anything else?", Type: model.ItemText},
		},
	}
}
