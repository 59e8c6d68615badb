package model

import (
	"encoding/json"
	"fmt"
	"maps"
	"time"
)

// Status is the workflow stage of a client.
type Status string

// Workflow stages, in board column order.
const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// legacyInProgress is how older saves spelled StatusInProgress.
const legacyInProgress = "progress"

// Statuses lists the workflow stages in board column order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Valid reports whether s is a known workflow stage.
func (s Status) Valid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

// Label returns the human-readable name of the stage.
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// ParseStatus converts user input such as "todo", "in_progress" or
// "progress" into a Status.
func ParseStatus(s string) (Status, error) {
	if s == legacyInProgress || s == "in-progress" {
		return StatusInProgress, nil
	}
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q (want todo, in_progress or done)", s)
	}
	return st, nil
}

// UnmarshalJSON accepts the legacy spelling of the in-progress stage.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == legacyInProgress {
		raw = string(StatusInProgress)
	}
	*s = Status(raw)
	return nil
}

// timestampLayout matches the ISO-8601 form written by earlier saves:
// UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp is a point in time persisted as an ISO-8601 string.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to milliseconds in UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.UTC().Truncate(time.Millisecond)}
}

// NewTimestampPtr is NewTimestamp for nullable fields.
func NewTimestampPtr(t time.Time) *Timestamp {
	ts := NewTimestamp(t)
	return &ts
}

// ISO formats the timestamp as ISO-8601 UTC with milliseconds.
func (t Timestamp) ISO() string {
	return t.UTC().Format(timestampLayout)
}

// MarshalJSON writes the timestamp in ISO-8601 form.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.ISO())
}

// UnmarshalJSON parses any RFC 3339 timestamp. Older saves wrote blank
// values for unset times; those decode as the zero Timestamp.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "null":
		return nil
	case `""`, "false", "0":
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	*t = NewTimestamp(parsed)
	return nil
}

// Client is a tracked record scored against one template.
type Client struct {
	ID                    int64               `json:"id"`
	Name                  string              `json:"name"`
	Template              string              `json:"template"`
	Status                Status              `json:"status"`
	Responses             map[string]Response `json:"responses"`
	CreatedAt             Timestamp           `json:"createdAt"`
	CompletedAt           *Timestamp          `json:"completedAt"`
	ObservationLastEdited *Timestamp          `json:"observationLastEdited"`
}

// Response returns the answer for itemID; ok is false when none is stored.
func (c *Client) Response(itemID string) (Response, bool) {
	r, ok := c.Responses[itemID]
	return r, ok
}

// Clone returns a deep copy of the client.
func (c Client) Clone() Client {
	c.Responses = maps.Clone(c.Responses)
	if c.Responses == nil {
		c.Responses = make(map[string]Response)
	}
	if c.CompletedAt != nil {
		ts := *c.CompletedAt
		c.CompletedAt = &ts
	}
	if c.ObservationLastEdited != nil {
		ts := *c.ObservationLastEdited
		c.ObservationLastEdited = &ts
	}
	return c
}
