package persist

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nhle/clientdeck/internal/model"
)

// marshal encodes v compactly without HTML escaping, the form earlier saves
// were written in.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// EncodeClients renders the clients collection as a JSON array.
func EncodeClients(clients []model.Client) ([]byte, error) {
	if clients == nil {
		clients = []model.Client{}
	}
	return marshal(clients)
}

// EncodeTemplates renders templates as a JSON object keyed by template id,
// keeping the given order.
func EncodeTemplates(templates []model.Template) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range templates {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshal(t.ID)
		if err != nil {
			return nil, err
		}
		if t.Items == nil {
			t.Items = []model.TemplateItem{}
		}
		body, err := marshal(t)
		if err != nil {
			return nil, fmt.Errorf("encoding template %s: %w", t.ID, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeClients parses a clients array and fills fields missing from older
// saves.
func DecodeClients(data []byte) ([]model.Client, error) {
	var clients []model.Client
	if err := json.Unmarshal(data, &clients); err != nil {
		return nil, err
	}
	for i := range clients {
		fillClientDefaults(&clients[i])
	}
	if clients == nil {
		clients = []model.Client{}
	}
	return clients, nil
}

// DecodeTemplates parses a templates object, keeping the document's key
// order, and fills fields missing from older saves.
func DecodeTemplates(data []byte) ([]model.Template, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("templates must be a JSON object")
	}

	templates := []model.Template{}
	seen := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		id := tok.(string)

		var t model.Template
		if err := dec.Decode(&t); err != nil {
			return nil, fmt.Errorf("decoding template %s: %w", id, err)
		}
		t.ID = id
		fillTemplateDefaults(&t)

		// a repeated key overrides the earlier value in place
		if i, dup := seen[id]; dup {
			templates[i] = t
			continue
		}
		seen[id] = len(templates)
		templates = append(templates, t)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return templates, nil
}

// fillClientDefaults normalises a client loaded from an older save. Absent
// timestamps already decode as null; blank ones are cleared here.
func fillClientDefaults(c *model.Client) {
	if c.CompletedAt != nil && c.CompletedAt.IsZero() {
		c.CompletedAt = nil
	}
	if c.ObservationLastEdited != nil && c.ObservationLastEdited.IsZero() {
		c.ObservationLastEdited = nil
	}
	if c.Responses == nil {
		c.Responses = make(map[string]model.Response)
	}
	if c.Status == "" {
		c.Status = model.StatusTodo
	}
}

// fillTemplateDefaults normalises a template loaded from an older save.
// Absent isRequired flags already decode as false.
func fillTemplateDefaults(t *model.Template) {
	if t.Items == nil {
		t.Items = []model.TemplateItem{}
	}
}
