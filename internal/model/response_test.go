package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseJSON(t *testing.T) {
	out, err := json.Marshal(map[string]Response{
		"a": BoolResponse(true),
		"b": TextResponse("hello"),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":true,"b":"hello"}`, string(out))

	var in map[string]Response
	require.NoError(t, json.Unmarshal([]byte(`{"a":false,"b":"x","c":42,"d":null}`), &in))

	assert.Equal(t, ResponseBool, in["a"].Kind())
	assert.False(t, in["a"].Checked())
	assert.Equal(t, "x", in["b"].Text())
	assert.Equal(t, "42", in["c"].Text())
	assert.Equal(t, ResponseText, in["d"].Kind())
	assert.True(t, in["d"].Empty())
}

func TestResponseRejectsObjects(t *testing.T) {
	var r Response
	err := json.Unmarshal([]byte(`{"nested":true}`), &r)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestResponseEmpty(t *testing.T) {
	assert.True(t, BoolResponse(false).Empty())
	assert.False(t, BoolResponse(true).Empty())
	assert.True(t, TextResponse("   ").Empty())
	assert.False(t, TextResponse(" x ").Empty())
}

func TestNewResponse(t *testing.T) {
	tests := []struct {
		name    string
		item    TemplateItem
		value   any
		want    string
		wantErr bool
	}{
		{name: "checkbox", item: TemplateItem{Type: ItemCheckbox}, value: true, want: "true"},
		{name: "checkbox needs bool", item: TemplateItem{Type: ItemCheckbox}, value: "yes", wantErr: true},
		{name: "text keeps spacing", item: TemplateItem{Type: ItemText}, value: " hi ", want: " hi "},
		{name: "blank clears", item: TemplateItem{Type: ItemNumber}, value: "  ", want: "  "},
		{name: "number", item: TemplateItem{Type: ItemNumber}, value: "12.5", want: "12.5"},
		{name: "number from int", item: TemplateItem{Type: ItemNumber}, value: 7, want: "7"},
		{name: "bad number", item: TemplateItem{Type: ItemNumber}, value: "twelve", wantErr: true},
		{name: "date", item: TemplateItem{Type: ItemDate}, value: "2024-02-29", want: "2024-02-29"},
		{name: "bad date", item: TemplateItem{Type: ItemDate}, value: "29/02/2024", wantErr: true},
		{name: "url", item: TemplateItem{Type: ItemURL}, value: "https://example.com/a", want: "https://example.com/a"},
		{name: "bad url", item: TemplateItem{Type: ItemURL}, value: "not a url", wantErr: true},
		{name: "select option", item: TemplateItem{Type: ItemSelect, Options: []string{"a", "b"}}, value: "b", want: "b"},
		{name: "select unknown", item: TemplateItem{Type: ItemSelect, Options: []string{"a", "b"}}, value: "c", wantErr: true},
		{name: "text rejects bool", item: TemplateItem{Type: ItemText}, value: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewResponse(tt.item, tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Text())
		})
	}
}
