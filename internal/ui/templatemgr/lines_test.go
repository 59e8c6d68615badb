package templatemgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/clientdeck/internal/model"
)

func TestParseItemLines(t *testing.T) {
	items, err := ParseItemLines(`
*Contract signed?
text: Account owner
*select: Plan | basic, pro
  Note: prefix is not a type
observations:
`, nil)
	require.NoError(t, err)
	require.Len(t, items, 5)

	assert.Equal(t, model.TemplateItem{Text: "Contract signed?", Type: model.ItemCheckbox, IsRequired: true}, items[0])
	assert.Equal(t, model.TemplateItem{Text: "Account owner", Type: model.ItemText}, items[1])
	assert.Equal(t, model.TemplateItem{Text: "Plan", Type: model.ItemSelect, IsRequired: true, Options: []string{"basic", "pro"}}, items[2])
	assert.Equal(t, "Note: prefix is not a type", items[3].Text)
	assert.Equal(t, model.ItemCheckbox, items[3].Type)
	assert.Equal(t, model.ItemObservations, items[4].Type)
}

func TestParseItemLinesErrors(t *testing.T) {
	_, err := ParseItemLines("select: Plan", nil)
	assert.ErrorContains(t, err, "line 1")

	_, err = ParseItemLines("ok\ntext:   ", nil)
	assert.ErrorContains(t, err, "line 2: missing prompt")
}

func TestParseKeepsIDs(t *testing.T) {
	previous := []model.TemplateItem{
		{ID: "a", Text: "Same", Type: model.ItemCheckbox},
		{ID: "b", Text: "Same", Type: model.ItemCheckbox},
		{ID: "c", Text: "Owner", Type: model.ItemText},
	}

	items, err := ParseItemLines("Same\nSame\nSame\ntextarea: Owner", previous)
	require.NoError(t, err)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
	assert.Empty(t, items[2].ID)
	// a type change gets a new id
	assert.Empty(t, items[3].ID)
}

func TestFormatRoundTrip(t *testing.T) {
	items := []model.TemplateItem{
		{ID: "a", Text: "Signed?", Type: model.ItemCheckbox, IsRequired: true},
		{ID: "b", Text: "Plan", Type: model.ItemSelect, Options: []string{"basic", "pro"}},
		{ID: model.ObservationsItemID, Text: model.ObservationsItemText, Type: model.ItemObservations},
	}

	text := FormatItemLines(items)
	assert.Equal(t, "*checkbox: Signed?\nselect: Plan | basic, pro\nobservations: Observations", text)

	back, err := ParseItemLines(text, items)
	require.NoError(t, err)
	assert.Equal(t, items, back)
}
