package model

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
}

func TestNormalizeItems(t *testing.T) {
	items, err := NormalizeItems([]TemplateItem{
		{Text: "  Signed?  ", Type: ItemCheckbox, IsRequired: true, Options: []string{"x"}},
		{Text: "Plan", Type: ItemSelect, Options: []string{" a ", "", "b"}},
		{Type: ItemObservations, Text: "whatever", ID: "custom"},
	}, sequentialIDs())
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, "item-1", items[0].ID)
	assert.Equal(t, "Signed?", items[0].Text)
	assert.Nil(t, items[0].Options)
	assert.Equal(t, []string{"a", "b"}, items[1].Options)
	assert.Equal(t, ObservationsItemID, items[2].ID)
	assert.Equal(t, ObservationsItemText, items[2].Text)
}

func TestNormalizeItemsErrors(t *testing.T) {
	tests := []struct {
		name  string
		items []TemplateItem
	}{
		{name: "empty", items: nil},
		{name: "unknown type", items: []TemplateItem{{Text: "x", Type: "slider"}}},
		{name: "blank text", items: []TemplateItem{{Text: "  ", Type: ItemText}}},
		{name: "duplicate id", items: []TemplateItem{
			{ID: "a", Text: "x", Type: ItemText},
			{ID: "a", Text: "y", Type: ItemText},
		}},
		{name: "two observations", items: []TemplateItem{
			{Type: ItemObservations},
			{Type: ItemObservations},
		}},
		{name: "reserved id", items: []TemplateItem{{ID: ObservationsItemID, Text: "x", Type: ItemText}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeItems(tt.items, sequentialIDs())
			assert.ErrorIs(t, err, ErrInvalidTemplate)
		})
	}
}

func TestItemTypeLegacySpelling(t *testing.T) {
	var item TemplateItem
	require.NoError(t, json.Unmarshal([]byte(`{"id":"n","text":"Notes","type":"observacoes"}`), &item))
	assert.Equal(t, ItemObservations, item.Type)
	assert.False(t, item.IsRequired)
}

func TestTemplateClone(t *testing.T) {
	orig := Template{ID: "t", Name: "T", Items: []TemplateItem{{ID: "s", Type: ItemSelect, Options: []string{"a"}}}}
	c := orig.Clone()
	c.Items[0].Options[0] = "changed"
	c.Items[0].Text = "changed"

	assert.Equal(t, "a", orig.Items[0].Options[0])
	assert.Empty(t, orig.Items[0].Text)
}

func TestParseOptions(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, ParseOptions(" a ,, b c ,"))
	assert.Nil(t, ParseOptions(" , "))
}
