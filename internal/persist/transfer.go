package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nhle/clientdeck/internal/model"
)

// ExportVersion is written into every backup file.
const ExportVersion = "6.0"

type exportDoc struct {
	Clients    json.RawMessage `json:"clients"`
	Templates  json.RawMessage `json:"templates"`
	ExportDate string          `json:"exportDate"`
	Version    string          `json:"version"`
}

// ExportFileName returns the conventional backup file name for a date.
func ExportFileName(now time.Time) string {
	return "clientdeck-backup-" + now.Format("2006-01-02") + ".json"
}

// Export renders snap as an indented backup document stamped with now.
func Export(snap Snapshot, now time.Time) ([]byte, error) {
	clients, err := EncodeClients(snap.Clients)
	if err != nil {
		return nil, fmt.Errorf("encoding clients: %w", err)
	}
	templates, err := EncodeTemplates(snap.Templates)
	if err != nil {
		return nil, fmt.Errorf("encoding templates: %w", err)
	}

	doc := exportDoc{
		Clients:    clients,
		Templates:  templates,
		ExportDate: model.NewTimestamp(now).ISO(),
		Version:    ExportVersion,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}
	return buf.Bytes(), nil
}

// Import parses a backup document. Both the clients and templates keys
// must be present; the same defaults as Load are applied.
func Import(data []byte) (Snapshot, error) {
	var doc exportDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("%w: could not read file: %w", model.ErrMalformedInput, err)
	}
	if isAbsent(doc.Clients) || isAbsent(doc.Templates) {
		return Snapshot{}, fmt.Errorf("%w: backup must contain clients and templates", model.ErrMalformedInput)
	}

	clients, err := DecodeClients(doc.Clients)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: decoding clients: %w", model.ErrMalformedInput, err)
	}
	templates, err := DecodeTemplates(doc.Templates)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: decoding templates: %w", model.ErrMalformedInput, err)
	}

	return Snapshot{Clients: clients, Templates: templates}, nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
