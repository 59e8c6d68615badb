// Package persist moves the template and client collections in and out of
// the key-value store, and in and out of backup files.
package persist

import (
	"context"
	"fmt"

	"github.com/nhle/clientdeck/internal/logger"
	"github.com/nhle/clientdeck/internal/model"
	"github.com/nhle/clientdeck/internal/store"
)

// Snapshot is the full persisted state.
type Snapshot struct {
	Clients   []model.Client
	Templates []model.Template
}

// Adapter reads and writes snapshots through a store.KV. Each collection
// lives under its own key; SaveClients and SaveTemplates write one key
// each, SaveAll writes both in one transaction.
type Adapter struct {
	kv  store.KV
	log *logger.Logger
}

// New returns an Adapter over kv.
func New(kv store.KV, log *logger.Logger) *Adapter {
	if log == nil {
		log = logger.Nop()
	}
	return &Adapter{kv: kv, log: log.Component("persist")}
}

// Load hydrates a snapshot. When no templates have ever been saved the
// built-in templates are seeded and written back immediately.
func (a *Adapter) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	raw, ok, err := a.kv.Get(ctx, store.KeyClients)
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading clients: %w", err)
	}
	if ok {
		snap.Clients, err = DecodeClients([]byte(raw))
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: decoding %s: %w", model.ErrMalformedInput, store.KeyClients, err)
		}
	} else {
		snap.Clients = []model.Client{}
	}

	raw, ok, err = a.kv.Get(ctx, store.KeyTemplates)
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading templates: %w", err)
	}
	if ok {
		snap.Templates, err = DecodeTemplates([]byte(raw))
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: decoding %s: %w", model.ErrMalformedInput, store.KeyTemplates, err)
		}
	} else {
		snap.Templates = DefaultTemplates()
		if err := a.SaveTemplates(ctx, snap.Templates); err != nil {
			return Snapshot{}, fmt.Errorf("seeding default templates: %w", err)
		}
		a.log.Info().Int("templates", len(snap.Templates)).Msg("seeded default templates")
	}

	a.log.Info().
		Int("clients", len(snap.Clients)).
		Int("templates", len(snap.Templates)).
		Msg("state loaded")
	return snap, nil
}

// SaveClients writes the whole clients collection.
func (a *Adapter) SaveClients(ctx context.Context, clients []model.Client) error {
	data, err := EncodeClients(clients)
	if err != nil {
		return fmt.Errorf("encoding clients: %w", err)
	}
	if err := a.kv.Set(ctx, store.KeyClients, string(data)); err != nil {
		return fmt.Errorf("saving clients: %w", err)
	}
	a.log.Debug().Str("key", store.KeyClients).Int("bytes", len(data)).Msg("saved")
	return nil
}

// SaveTemplates writes the whole templates collection.
func (a *Adapter) SaveTemplates(ctx context.Context, templates []model.Template) error {
	data, err := EncodeTemplates(templates)
	if err != nil {
		return fmt.Errorf("encoding templates: %w", err)
	}
	if err := a.kv.Set(ctx, store.KeyTemplates, string(data)); err != nil {
		return fmt.Errorf("saving templates: %w", err)
	}
	a.log.Debug().Str("key", store.KeyTemplates).Int("bytes", len(data)).Msg("saved")
	return nil
}

// SaveAll writes both collections atomically.
func (a *Adapter) SaveAll(ctx context.Context, snap Snapshot) error {
	clients, err := EncodeClients(snap.Clients)
	if err != nil {
		return fmt.Errorf("encoding clients: %w", err)
	}
	templates, err := EncodeTemplates(snap.Templates)
	if err != nil {
		return fmt.Errorf("encoding templates: %w", err)
	}

	err = a.kv.SetMany(ctx, map[string]string{
		store.KeyClients:   string(clients),
		store.KeyTemplates: string(templates),
	})
	if err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	a.log.Debug().
		Int("client_bytes", len(clients)).
		Int("template_bytes", len(templates)).
		Msg("saved state")
	return nil
}
