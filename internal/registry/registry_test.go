package registry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/clientdeck/internal/model"
)

type refCount map[string]int

func (r refCount) CountByTemplate(id string) int { return r[id] }

func counter(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newTestRegistry(templates ...model.Template) *Registry {
	return New(templates, WithIDGenerators(counter("tpl"), counter("item")))
}

func builtin() model.Template {
	return model.Template{
		ID:        "builtin",
		Name:      "Built-in",
		Items:     []model.TemplateItem{{ID: "a", Text: "A", Type: model.ItemCheckbox, IsRequired: true}},
		IsDefault: true,
	}
}

func TestCreate(t *testing.T) {
	r := newTestRegistry(builtin())

	tpl, err := r.Create("  Sales  ", []model.TemplateItem{
		{Text: "Called?", Type: model.ItemCheckbox, IsRequired: true},
		{Type: model.ItemObservations},
	})
	require.NoError(t, err)

	assert.Equal(t, "tpl-1", tpl.ID)
	assert.Equal(t, "Sales", tpl.Name)
	assert.False(t, tpl.IsDefault)
	assert.Equal(t, "item-1", tpl.Items[0].ID)
	assert.Equal(t, model.ObservationsItemID, tpl.Items[1].ID)

	ids := []string{}
	for _, x := range r.List() {
		ids = append(ids, x.ID)
	}
	assert.Equal(t, []string{"builtin", "tpl-1"}, ids)
}

func TestCreateSkipsTakenIDs(t *testing.T) {
	taken := model.Template{ID: "tpl-1", Name: "Taken", Items: []model.TemplateItem{{ID: "x", Text: "X", Type: model.ItemText}}}
	r := newTestRegistry(taken)

	tpl, err := r.Create("New", []model.TemplateItem{{Text: "Y", Type: model.ItemText}})
	require.NoError(t, err)
	assert.Equal(t, "tpl-2", tpl.ID)
	assert.Equal(t, 2, r.Len())
}

func TestCreateRejectsInvalid(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Create(" ", []model.TemplateItem{{Text: "Y", Type: model.ItemText}})
	assert.ErrorIs(t, err, model.ErrInvalidTemplate)

	_, err = r.Create("Empty", nil)
	assert.ErrorIs(t, err, model.ErrInvalidTemplate)
	assert.Zero(t, r.Len())
}

func TestUpdateKeepsDefaultFlag(t *testing.T) {
	r := newTestRegistry(builtin())

	tpl, err := r.Update("builtin", "Renamed", []model.TemplateItem{
		{ID: "a", Text: "A", Type: model.ItemCheckbox},
		{Text: "B", Type: model.ItemText, IsRequired: true},
	})
	require.NoError(t, err)
	assert.True(t, tpl.IsDefault)
	assert.Equal(t, "Renamed", tpl.Name)
	assert.Equal(t, "item-1", tpl.Items[1].ID)

	got, ok := r.Get("builtin")
	require.True(t, ok)
	assert.Len(t, got.Items, 2)

	_, err = r.Update("missing", "X", []model.TemplateItem{{Text: "Y", Type: model.ItemText}})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDelete(t *testing.T) {
	custom := model.Template{ID: "custom", Name: "Custom", Items: []model.TemplateItem{{ID: "x", Text: "X", Type: model.ItemText}}}

	t.Run("in use", func(t *testing.T) {
		r := newTestRegistry(custom)
		err := r.Delete("custom", refCount{"custom": 3})

		var inUse *model.InUseError
		require.ErrorAs(t, err, &inUse)
		assert.Equal(t, 3, inUse.Count)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("in use checked before protection", func(t *testing.T) {
		r := newTestRegistry(builtin())
		err := r.Delete("builtin", refCount{"builtin": 1})
		assert.ErrorIs(t, err, model.ErrInUse)
	})

	t.Run("protected", func(t *testing.T) {
		r := newTestRegistry(builtin())
		err := r.Delete("builtin", refCount{})
		assert.ErrorIs(t, err, model.ErrProtected)
	})

	t.Run("not found", func(t *testing.T) {
		r := newTestRegistry()
		err := r.Delete("nope", refCount{})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("removed", func(t *testing.T) {
		r := newTestRegistry(builtin(), custom)
		require.NoError(t, r.Delete("custom", refCount{}))
		_, ok := r.Get("custom")
		assert.False(t, ok)
		assert.Equal(t, 1, r.Len())
	})
}

func TestGetReturnsCopy(t *testing.T) {
	r := newTestRegistry(builtin())

	got, ok := r.Get("builtin")
	require.True(t, ok)
	got.Items[0].Text = "mutated"

	again, _ := r.Get("builtin")
	assert.Equal(t, "A", again.Items[0].Text)
}

func TestReplaceKeepsLastDuplicate(t *testing.T) {
	first := builtin()
	second := builtin()
	second.Name = "Second"

	r := newTestRegistry(first, second)
	assert.Equal(t, 1, r.Len())
	got, _ := r.Get("builtin")
	assert.Equal(t, "Second", got.Name)
}
