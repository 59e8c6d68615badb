package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]Status{
		"todo":        StatusTodo,
		"in_progress": StatusInProgress,
		"progress":    StatusInProgress,
		"in-progress": StatusInProgress,
		"done":        StatusDone,
	} {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseStatus("archived")
	assert.Error(t, err)
}

func TestTimestampJSON(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 1, 2, 3, 4, 5, 678_900_000, time.FixedZone("X", 3600)))

	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-02T02:04:05.678Z"`, string(out))

	var back Timestamp
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, back.Equal(ts.Time))
}

func TestTimestampBlankValues(t *testing.T) {
	for _, raw := range []string{`""`, `false`, `0`} {
		ts := NewTimestamp(time.Now())
		require.NoError(t, json.Unmarshal([]byte(raw), &ts), raw)
		assert.True(t, ts.IsZero(), raw)
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestClientLegacyJSON(t *testing.T) {
	raw := `{
		"id": 1700000000000,
		"name": "Acme",
		"template": "onboarding-amazon",
		"status": "progress",
		"responses": {"conta-amazon": true, "quantidade-produtos": "12"},
		"createdAt": "2023-11-14T22:13:20.000Z",
		"completedAt": null
	}`

	var c Client
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	assert.Equal(t, int64(1700000000000), c.ID)
	assert.Equal(t, StatusInProgress, c.Status)
	assert.True(t, c.Responses["conta-amazon"].Checked())
	assert.Equal(t, "12", c.Responses["quantidade-produtos"].Text())
	assert.Nil(t, c.CompletedAt)
	assert.Nil(t, c.ObservationLastEdited)
}

func TestClientRoundTrip(t *testing.T) {
	c := Client{
		ID:          42,
		Name:        "Acme",
		Template:    "t",
		Status:      StatusDone,
		Responses:   map[string]Response{"a": BoolResponse(true)},
		CreatedAt:   NewTimestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		CompletedAt: NewTimestampPtr(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
	}

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"completedAt":"2024-01-02T00:00:00.000Z"`)
	assert.Contains(t, string(out), `"observationLastEdited":null`)

	var back Client
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, c.Status, back.Status)
	require.NotNil(t, back.CompletedAt)
	assert.True(t, back.CompletedAt.Equal(c.CompletedAt.Time))
}

func TestClientClone(t *testing.T) {
	c := Client{Responses: map[string]Response{"a": BoolResponse(true)}, CompletedAt: NewTimestampPtr(time.Now())}
	cp := c.Clone()
	cp.Responses["a"] = BoolResponse(false)
	cp.CompletedAt.Time = time.Time{}

	assert.True(t, c.Responses["a"].Checked())
	assert.False(t, c.CompletedAt.IsZero())

	empty := Client{}.Clone()
	assert.NotNil(t, empty.Responses)
}

func TestErrorsUnwrap(t *testing.T) {
	assert.ErrorIs(t, &NotFoundError{Kind: "client", ID: "1"}, ErrNotFound)
	assert.ErrorIs(t, &InUseError{TemplateID: "t", Count: 2}, ErrInUse)
	assert.ErrorIs(t, &ValidationError{Missing: []string{"A"}}, ErrValidationFailed)
	assert.Equal(t, "fill in all required fields to complete: A, B", (&ValidationError{Missing: []string{"A", "B"}}).Error())
}
